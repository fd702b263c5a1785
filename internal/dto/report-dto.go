package dto

import (
	"encoding/json"

	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	"github.com/shopspring/decimal"
)

type ReportEntryLineDTO struct {
	EmployeeID  uint64          `json:"employee" validate:"required"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Notes       string          `json:"notes"`
}

type CreateProgressReportDTO struct {
	ProjectID uint64     `json:"project" validate:"required"`
	Date      types.Date `json:"date"`
	Notes     string     `json:"notes"`
}

type UpdateProgressReportDTO struct {
	ProjectID *uint64     `json:"project"`
	Date      *types.Date `json:"date"`
	Notes     *string     `json:"notes"`
}

// BulkProgressReportDTO создаёт отчёт вместе с записями в одной транзакции.
type BulkProgressReportDTO struct {
	ProjectID uint64               `json:"project" validate:"required"`
	Date      types.Date           `json:"date"`
	Notes     string               `json:"notes"`
	Entries   []ReportEntryLineDTO `json:"entries" validate:"required,min=1,dive"`
}

type CreateReportEntryDTO struct {
	ReportID uint64 `json:"report" validate:"required"`
	ReportEntryLineDTO
}

type UpdateReportEntryDTO struct {
	EmployeeID  *uint64          `json:"employee"`
	HoursWorked *decimal.Decimal `json:"hours_worked"`
	Notes       *string          `json:"notes"`
}

type ActivityLineDTO struct {
	ActivityType string          `json:"activity_type" validate:"required,max=100"`
	SubActivity  string          `json:"sub_activity" validate:"max=100"`
	Zona         string          `json:"zona" validate:"max=50"`
	Row          string          `json:"row" validate:"max=50"`
	Table        string          `json:"table" validate:"max=50"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit" validate:"max=20"`
	Notes        string          `json:"notes"`
}

type CreateActivityDTO struct {
	ReportID uint64 `json:"report" validate:"required"`
	ActivityLineDTO
}

type UpdateActivityDTO struct {
	ActivityType *string          `json:"activity_type" validate:"omitempty,max=100"`
	SubActivity  *string          `json:"sub_activity" validate:"omitempty,max=100"`
	Zona         *string          `json:"zona" validate:"omitempty,max=50"`
	Row          *string          `json:"row" validate:"omitempty,max=50"`
	Table        *string          `json:"table" validate:"omitempty,max=50"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit" validate:"omitempty,max=20"`
	Notes        *string          `json:"notes"`
}

type AddActivitiesDTO struct {
	ReportID   uint64            `json:"report_id" validate:"required"`
	Activities []ActivityLineDTO `json:"activities" validate:"required,min=1,dive"`
}

type ProgressReportDTO struct {
	*entities.ProgressReport
	TotalHours decimal.Decimal `json:"total_hours"`
}

func NewProgressReportDTO(r *entities.ProgressReport) *ProgressReportDTO {
	return &ProgressReportDTO{ProgressReport: r, TotalHours: r.TotalHours()}
}

type SaveActivityConfigDTO struct {
	ProjectID  uint64          `json:"project_id" validate:"required"`
	ConfigData json.RawMessage `json:"config_data" validate:"required"`
}

type QuarterDTO struct {
	*entities.Quarter
	FreePlaces int `json:"free_places"`
}

func NewQuarterDTO(q *entities.Quarter) *QuarterDTO {
	return &QuarterDTO{Quarter: q, FreePlaces: q.FreePlaces()}
}

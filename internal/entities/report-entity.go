package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type ProgressReport struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes"`
	CreatedBy uint64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectName string                   `json:"project_name"`
	Entries     []ProgressReportEntry    `json:"entries"`
	Images      []ProgressReportImage    `json:"images"`
	Activities  []ProgressReportActivity `json:"activities"`
}

func (r *ProgressReport) OwnerID() uint64 { return r.CreatedBy }

func (r *ProgressReport) TotalHours() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Entries {
		total = total.Add(e.HoursWorked)
	}
	return total
}

type ProgressReportEntry struct {
	ID          uint64          `json:"id"`
	ReportID    uint64          `json:"report"`
	EmployeeID  uint64          `json:"employee"`
	HoursWorked decimal.Decimal `json:"hours_worked"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	EmployeeName string `json:"employee_name"`
}

type ProgressReportImage struct {
	ID        uint64    `json:"id"`
	ReportID  uint64    `json:"report"`
	ImagePath string    `json:"image"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"uploaded_at"`
}

type ProgressReportActivity struct {
	ID           uint64          `json:"id"`
	ReportID     uint64          `json:"report"`
	ActivityType string          `json:"activity_type"`
	SubActivity  string          `json:"sub_activity"`
	Zona         string          `json:"zona"`
	Row          string          `json:"row"`
	Table        string          `json:"table"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ProjectActivityConfig struct {
	ID         uint64          `json:"id"`
	ProjectID  uint64          `json:"project"`
	ConfigData json.RawMessage `json:"config_data"`
	FilePath   string          `json:"file_path"`
	CreatedBy  null.Int64      `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

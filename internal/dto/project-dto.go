package dto

import (
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type CreateClientDTO struct {
	Name    string     `json:"name" validate:"required,max=255"`
	Email   string     `json:"email" validate:"omitempty,email"`
	Phone   string     `json:"phone" validate:"omitempty,max=20"`
	Address string     `json:"address" validate:"max=255"`
	UserID  null.Int64 `json:"user"`
}

type UpdateClientDTO struct {
	Name    *string    `json:"name" validate:"omitempty,max=255"`
	Email   *string    `json:"email" validate:"omitempty,email"`
	Phone   *string    `json:"phone" validate:"omitempty,max=20"`
	Address *string    `json:"address" validate:"omitempty,max=255"`
	UserID  null.Int64 `json:"user"`
}

type CreateTagDTO struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hex_color"`
}

type UpdateTagDTO struct {
	Name  *string `json:"name" validate:"omitempty,max=50"`
	Color *string `json:"color" validate:"omitempty,hex_color"`
}

type CreateProjectDTO struct {
	Name         string              `json:"name" validate:"required,max=255"`
	ClientID     uint64              `json:"client" validate:"required"`
	Country      string              `json:"country" validate:"max=100"`
	City         string              `json:"city" validate:"max=100"`
	Street       string              `json:"street" validate:"max=255"`
	PostCode     string              `json:"post_code" validate:"max=20"`
	Localization string              `json:"localization" validate:"max=255"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
	Description  string              `json:"description"`
	Status       string              `json:"status" validate:"omitempty,oneof=new in_progress completed cancelled on_hold"`
	StartDate    types.NullDate      `json:"start_date"`
	EndDate      types.NullDate      `json:"end_date"`
	Budget       decimal.NullDecimal `json:"budget"`
	TagIDs       []uint64            `json:"tags"`
}

type UpdateProjectDTO struct {
	Name         *string             `json:"name" validate:"omitempty,max=255"`
	ClientID     *uint64             `json:"client"`
	Country      *string             `json:"country" validate:"omitempty,max=100"`
	City         *string             `json:"city" validate:"omitempty,max=100"`
	Street       *string             `json:"street" validate:"omitempty,max=255"`
	PostCode     *string             `json:"post_code" validate:"omitempty,max=20"`
	Localization *string             `json:"localization" validate:"omitempty,max=255"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
	Description  *string             `json:"description"`
	Status       *string             `json:"status" validate:"omitempty,oneof=new in_progress completed cancelled on_hold"`
	StartDate    types.NullDate      `json:"start_date"`
	EndDate      types.NullDate      `json:"end_date"`
	Budget       decimal.NullDecimal `json:"budget"`
	TagIDs       []uint64            `json:"tags"`
}

type CreateEmployeeDTO struct {
	FirstName        string     `json:"first_name" validate:"required,max=100"`
	LastName         string     `json:"last_name" validate:"required,max=100"`
	Pesel            string     `json:"pesel" validate:"required,pesel"`
	Phone            string     `json:"phone" validate:"omitempty,pl_phone"`
	CurrentProjectID null.Int64 `json:"current_project"`
	QuarterID        null.Int64 `json:"quarter"`
	TagIDs           []uint64   `json:"tags"`
}

type UpdateEmployeeDTO struct {
	FirstName        *string    `json:"first_name" validate:"omitempty,max=100"`
	LastName         *string    `json:"last_name" validate:"omitempty,max=100"`
	Pesel            *string    `json:"pesel" validate:"omitempty,pesel"`
	Phone            *string    `json:"phone" validate:"omitempty,pl_phone"`
	CurrentProjectID null.Int64 `json:"current_project"`
	QuarterID        null.Int64 `json:"quarter"`
	TagIDs           []uint64   `json:"tags"`
}

type AssignProjectDTO struct {
	ProjectID null.Int64 `json:"project_id"`
}

type CreateQuarterDTO struct {
	Name         string `json:"name" validate:"required,max=255"`
	Address      string `json:"address" validate:"required,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	Country      string `json:"country" validate:"max=100"`
	PaymentDay   int    `json:"payment_day" validate:"required,min=1,max=31"`
	MaxOccupants int    `json:"max_occupants" validate:"required,min=1"`
}

type UpdateQuarterDTO struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	PaymentDay   *int    `json:"payment_day" validate:"omitempty,min=1,max=31"`
	MaxOccupants *int    `json:"max_occupants" validate:"omitempty,min=1"`
}

type AssignQuarterDTO struct {
	EmployeeID uint64 `json:"employee_id" validate:"required"`
	QuarterID  uint64 `json:"quarter_id" validate:"required"`
}

type RemoveFromQuarterDTO struct {
	EmployeeID uint64 `json:"employee_id" validate:"required"`
}

type RenameImageDTO struct {
	Name string `json:"name" form:"name" validate:"max=255"`
}

type CreateItemDTO struct {
	Name        string              `json:"name" validate:"required,max=255"`
	Unit        string              `json:"unit" validate:"required,max=20"`
	Price       decimal.NullDecimal `json:"price"`
	Description string              `json:"description"`
}

// UpdateItemDTO не содержит индекс: он присваивается один раз.
type UpdateItemDTO struct {
	Name        *string             `json:"name" validate:"omitempty,max=255"`
	Unit        *string             `json:"unit" validate:"omitempty,max=20"`
	Price       decimal.NullDecimal `json:"price"`
	Description *string             `json:"description"`
}

type AddBrigadeMemberDTO struct {
	EmployeeID uint64 `json:"employee" validate:"required"`
}

package dto

import (
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	"github.com/shopspring/decimal"
)

type CreateRequisitionItemLineDTO struct {
	ItemID   uint64              `json:"item" validate:"required"`
	Quantity decimal.Decimal     `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	Comment  string              `json:"comment"`
}

type CreateRequisitionDTO struct {
	ProjectID       uint64                         `json:"project" validate:"required"`
	RequisitionType string                         `json:"requisition_type" validate:"omitempty,oneof=material tool other"`
	Status          string                         `json:"status" validate:"omitempty,oneof=to_accept accepted rejected in_progress completed"`
	Deadline        types.Date                     `json:"deadline"`
	Comment         string                         `json:"comment"`
	Items           []CreateRequisitionItemLineDTO `json:"items" validate:"dive"`
}

// UpdateRequisitionDTO: номер и автор не меняются.
type UpdateRequisitionDTO struct {
	ProjectID       *uint64     `json:"project"`
	RequisitionType *string     `json:"requisition_type" validate:"omitempty,oneof=material tool other"`
	Status          *string     `json:"status" validate:"omitempty,oneof=to_accept accepted rejected in_progress completed"`
	Deadline        *types.Date `json:"deadline"`
	Comment         *string     `json:"comment"`
}

type CreateRequisitionItemDTO struct {
	RequisitionID uint64 `json:"requisition" validate:"required"`
	CreateRequisitionItemLineDTO
}

type UpdateRequisitionItemDTO struct {
	ItemID   *uint64             `json:"item"`
	Quantity *decimal.Decimal    `json:"quantity"`
	Price    decimal.NullDecimal `json:"price"`
	Comment  *string             `json:"comment"`
}

// RequisitionDTO добавляет вычисляемую сумму.
type RequisitionDTO struct {
	*entities.Requisition
	TotalPrice decimal.Decimal `json:"total_price"`
}

func NewRequisitionDTO(r *entities.Requisition) *RequisitionDTO {
	if r.Items == nil {
		r.Items = []entities.RequisitionItem{}
	}
	return &RequisitionDTO{Requisition: r, TotalPrice: r.TotalPrice()}
}

type CreateHRPositionLineDTO struct {
	Position   string `json:"position" validate:"required,oneof=brygadzista brygada_elektrykow brygada_monterow elektromonter kafar koparka mini_ladowarka monter starszy_elektryk starszy_monter miernica"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Experience string `json:"experience" validate:"omitempty,oneof=konstrukcja panele elektryka operator brak"`
}

type CreateHRRequisitionDTO struct {
	ProjectID           uint64                    `json:"project" validate:"required"`
	Status              string                    `json:"status" validate:"omitempty,oneof=to_accept accepted rejected in_progress completed"`
	Deadline            types.Date                `json:"deadline"`
	SpecialRequirements string                    `json:"special_requirements"`
	Comment             string                    `json:"comment"`
	Positions           []CreateHRPositionLineDTO `json:"positions" validate:"dive"`
}

type UpdateHRRequisitionDTO struct {
	ProjectID           *uint64     `json:"project"`
	Status              *string     `json:"status" validate:"omitempty,oneof=to_accept accepted rejected in_progress completed"`
	Deadline            *types.Date `json:"deadline"`
	SpecialRequirements *string     `json:"special_requirements"`
	Comment             *string     `json:"comment"`
}

type CreateHRPositionDTO struct {
	RequisitionID uint64 `json:"requisition" validate:"required"`
	CreateHRPositionLineDTO
}

type UpdateHRPositionDTO struct {
	Position   *string `json:"position" validate:"omitempty,oneof=brygadzista brygada_elektrykow brygada_monterow elektromonter kafar koparka mini_ladowarka monter starszy_elektryk starszy_monter miernica"`
	Quantity   *int    `json:"quantity" validate:"omitempty,min=1"`
	Experience *string `json:"experience" validate:"omitempty,oneof=konstrukcja panele elektryka operator brak"`
}

type HRRequisitionDTO struct {
	*entities.HRRequisition
	TotalPeople int `json:"total_people"`
}

func NewHRRequisitionDTO(r *entities.HRRequisition) *HRRequisitionDTO {
	if r.Positions == nil {
		r.Positions = []entities.HRRequisitionPosition{}
	}
	return &HRRequisitionDTO{HRRequisition: r, TotalPeople: r.TotalPeople()}
}

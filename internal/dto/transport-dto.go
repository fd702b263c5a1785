package dto

import (
	"solarforyou/internal/entities"
	"solarforyou/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type CreateTransportItemLineDTO struct {
	Description string              `json:"description" validate:"required,max=255"`
	Length      decimal.NullDecimal `json:"length"`
	Width       decimal.NullDecimal `json:"width"`
	Height      decimal.NullDecimal `json:"height"`
	Weight      decimal.NullDecimal `json:"weight"`
	Quantity    decimal.Decimal     `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
}

type CreateTransportRequestDTO struct {
	PickupProjectID   null.Int64                   `json:"pickup_project"`
	PickupAddress     string                       `json:"pickup_address" validate:"required,max=255"`
	PickupDate        types.Date                   `json:"pickup_date"`
	DeliveryProjectID null.Int64                   `json:"delivery_project"`
	DeliveryAddress   string                       `json:"delivery_address" validate:"required,max=255"`
	DeliveryDate      types.Date                   `json:"delivery_date"`
	LoadingMethod     string                       `json:"loading_method" validate:"required,oneof=external internal"`
	CostProjectID     null.Int64                   `json:"cost_project"`
	RequesterPhone    string                       `json:"requester_phone" validate:"omitempty,max=20"`
	Notes             string                       `json:"notes"`
	Status            string                       `json:"status" validate:"omitempty,oneof=new accepted in_progress completed cancelled"`
	Items             []CreateTransportItemLineDTO `json:"items" validate:"dive"`
}

type UpdateTransportRequestDTO struct {
	PickupProjectID   null.Int64  `json:"pickup_project"`
	PickupAddress     *string     `json:"pickup_address" validate:"omitempty,max=255"`
	PickupDate        *types.Date `json:"pickup_date"`
	DeliveryProjectID null.Int64  `json:"delivery_project"`
	DeliveryAddress   *string     `json:"delivery_address" validate:"omitempty,max=255"`
	DeliveryDate      *types.Date `json:"delivery_date"`
	LoadingMethod     *string     `json:"loading_method" validate:"omitempty,oneof=external internal"`
	CostProjectID     null.Int64  `json:"cost_project"`
	RequesterPhone    *string     `json:"requester_phone" validate:"omitempty,max=20"`
	Notes             *string     `json:"notes"`
	Status            *string     `json:"status" validate:"omitempty,oneof=new accepted in_progress completed cancelled"`
}

type ChangeTransportStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=new accepted in_progress completed cancelled"`
}

type CreateTransportItemDTO struct {
	TransportRequestID uint64 `json:"transport_request" validate:"required"`
	CreateTransportItemLineDTO
}

type UpdateTransportItemDTO struct {
	Description *string             `json:"description" validate:"omitempty,max=255"`
	Length      decimal.NullDecimal `json:"length"`
	Width       decimal.NullDecimal `json:"width"`
	Height      decimal.NullDecimal `json:"height"`
	Weight      decimal.NullDecimal `json:"weight"`
	Quantity    *decimal.Decimal    `json:"quantity"`
	Price       decimal.NullDecimal `json:"price"`
}

type TransportRequestDTO struct {
	*entities.TransportRequest
	TotalPrice decimal.Decimal `json:"total_price"`
}

func NewTransportRequestDTO(t *entities.TransportRequest) *TransportRequestDTO {
	if t.Items == nil {
		t.Items = []entities.TransportItem{}
	}
	return &TransportRequestDTO{TransportRequest: t, TotalPrice: t.TotalPrice()}
}

package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type TransportRequest struct {
	ID                uint64     `json:"id"`
	Number            string     `json:"number"`
	PickupProjectID   null.Int64 `json:"pickup_project"`
	PickupAddress     string     `json:"pickup_address"`
	PickupDate        time.Time  `json:"pickup_date"`
	DeliveryProjectID null.Int64 `json:"delivery_project"`
	DeliveryAddress   string     `json:"delivery_address"`
	DeliveryDate      time.Time  `json:"delivery_date"`
	LoadingMethod     string     `json:"loading_method"`
	CostProjectID     null.Int64 `json:"cost_project"`
	RequesterPhone    string     `json:"requester_phone"`
	Notes             string     `json:"notes"`
	Status            string     `json:"status"`
	CreatedBy         uint64     `json:"created_by"`
	UpdatedBy         null.Int64 `json:"updated_by"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	CreatedByName string          `json:"created_by_name"`
	Items         []TransportItem `json:"items"`
}

func (t *TransportRequest) OwnerID() uint64 { return t.CreatedBy }

func (t *TransportRequest) TotalPrice() decimal.Decimal {
	lines := make([]PricedLine, 0, len(t.Items))
	for i := range t.Items {
		lines = append(lines, &t.Items[i])
	}
	return SumLines(lines)
}

type TransportItem struct {
	ID                 uint64              `json:"id"`
	TransportRequestID uint64              `json:"transport_request"`
	Description        string              `json:"description"`
	Length             decimal.NullDecimal `json:"length"`
	Width              decimal.NullDecimal `json:"width"`
	Height             decimal.NullDecimal `json:"height"`
	Weight             decimal.NullDecimal `json:"weight"`
	Quantity           decimal.Decimal     `json:"quantity"`
	Price              decimal.NullDecimal `json:"price"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

func (i *TransportItem) LineValues() (decimal.NullDecimal, decimal.Decimal) {
	return i.Price, i.Quantity
}

package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID          uint64              `json:"id"`
	Index       string              `json:"index"`
	Name        string              `json:"name"`
	Unit        string              `json:"unit"`
	Price       decimal.NullDecimal `json:"price"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	UserID    null.Int64 `json:"user"`
	CreatedBy null.Int64 `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Client) OwnerID() uint64 { return nullOwner(c.CreatedBy) }

// Tag - метка проекта или сотрудника.
type Tag struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Project struct {
	ID           uint64              `json:"id"`
	Name         string              `json:"name"`
	ClientID     uint64              `json:"client"`
	Country      string              `json:"country"`
	City         string              `json:"city"`
	Street       string              `json:"street"`
	PostCode     string              `json:"post_code"`
	Localization string              `json:"localization"`
	Latitude     decimal.NullDecimal `json:"latitude"`
	Longitude    decimal.NullDecimal `json:"longitude"`
	Description  string              `json:"description"`
	Status       string              `json:"status"`
	StartDate    null.Time           `json:"start_date"`
	EndDate      null.Time           `json:"end_date"`
	Budget       decimal.NullDecimal `json:"budget"`
	CreatedBy    null.Int64          `json:"created_by"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`

	ClientName string   `json:"client_name"`
	TagIDs     []uint64 `json:"tags"`
}

func (p *Project) OwnerID() uint64 { return nullOwner(p.CreatedBy) }

func nullOwner(v null.Int64) uint64 {
	if !v.Valid || v.Int64 <= 0 {
		return 0
	}
	return uint64(v.Int64)
}

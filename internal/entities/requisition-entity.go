package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/shopspring/decimal"
)

type Requisition struct {
	ID              uint64     `json:"id"`
	Number          string     `json:"number"`
	ProjectID       uint64     `json:"project"`
	RequisitionType string     `json:"requisition_type"`
	Status          string     `json:"status"`
	Deadline        time.Time  `json:"deadline"`
	Comment         string     `json:"comment"`
	EmailSent       bool       `json:"email_sent"`
	CreatedBy       uint64     `json:"created_by"`
	UpdatedBy       null.Int64 `json:"updated_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	ProjectName   string            `json:"project_name"`
	CreatedByName string            `json:"created_by_name"`
	Items         []RequisitionItem `json:"items"`
}

func (r *Requisition) OwnerID() uint64 { return r.CreatedBy }

// TotalPrice - сумма цена × количество по позициям; считается при чтении и не хранится.
func (r *Requisition) TotalPrice() decimal.Decimal {
	lines := make([]PricedLine, 0, len(r.Items))
	for i := range r.Items {
		lines = append(lines, &r.Items[i])
	}
	return SumLines(lines)
}

type RequisitionItem struct {
	ID            uint64          `json:"id"`
	RequisitionID uint64          `json:"requisition"`
	ItemID        uint64          `json:"item"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Comment       string          `json:"comment"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	ItemName  string `json:"item_name"`
	ItemIndex string `json:"item_index"`
	ItemUnit  string `json:"item_unit"`
}

func (i *RequisitionItem) LineValues() (decimal.NullDecimal, decimal.Decimal) {
	return decimal.NewNullDecimal(i.Price), i.Quantity
}

// PricedLine - позиция с необязательной ценой и количеством.
type PricedLine interface {
	LineValues() (price decimal.NullDecimal, quantity decimal.Decimal)
}

// SumLines складывает цена × количество; позиция без цены даёт ноль.
func SumLines(lines []PricedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		price, qty := l.LineValues()
		if !price.Valid {
			continue
		}
		total = total.Add(price.Decimal.Mul(qty))
	}
	return total.Round(2)
}

type HRRequisition struct {
	ID                  uint64     `json:"id"`
	Number              string     `json:"number"`
	ProjectID           uint64     `json:"project"`
	Status              string     `json:"status"`
	Deadline            time.Time  `json:"deadline"`
	SpecialRequirements string     `json:"special_requirements"`
	Comment             string     `json:"comment"`
	EmailSent           bool       `json:"email_sent"`
	CreatedBy           uint64     `json:"created_by"`
	UpdatedBy           null.Int64 `json:"updated_by"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	ProjectName   string                  `json:"project_name"`
	CreatedByName string                  `json:"created_by_name"`
	Positions     []HRRequisitionPosition `json:"positions"`
}

func (r *HRRequisition) OwnerID() uint64 { return r.CreatedBy }

func (r *HRRequisition) TotalPeople() int {
	total := 0
	for _, p := range r.Positions {
		total += p.Quantity
	}
	return total
}

type HRRequisitionPosition struct {
	ID            uint64    `json:"id"`
	RequisitionID uint64    `json:"requisition"`
	Position      string    `json:"position"`
	Quantity      int       `json:"quantity"`
	Experience    string    `json:"experience"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Employee struct {
	ID               uint64     `json:"id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Pesel            string     `json:"pesel"`
	Phone            string     `json:"phone"`
	CurrentProjectID null.Int64 `json:"current_project"`
	QuarterID        null.Int64 `json:"quarter"`
	CreatedBy        null.Int64 `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	ProjectName null.String `json:"current_project_name"`
	QuarterName null.String `json:"quarter_name"`
	TagIDs      []uint64    `json:"tags"`
}

func (e *Employee) FullName() string { return e.FirstName + " " + e.LastName }

type Quarter struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	PaymentDay   int        `json:"payment_day"`
	MaxOccupants int        `json:"max_occupants"`
	CreatedBy    null.Int64 `json:"created_by"`
	UpdatedBy    null.Int64 `json:"updated_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	OccupantsCount int `json:"occupants_count"`
}

func (q *Quarter) FreePlaces() int {
	if free := q.MaxOccupants - q.OccupantsCount; free > 0 {
		return free
	}
	return 0
}

type QuarterImage struct {
	ID         uint64     `json:"id"`
	QuarterID  uint64     `json:"quarter"`
	ImagePath  string     `json:"image"`
	Name       string     `json:"name"`
	UploadedBy null.Int64 `json:"uploaded_by"`
	CreatedAt  time.Time  `json:"uploaded_at"`
}

type BrigadeMember struct {
	ID         uint64    `json:"id"`
	LeaderID   uint64    `json:"leader"`
	EmployeeID uint64    `json:"employee"`
	CreatedAt  time.Time `json:"created_at"`

	Employee *Employee `json:"employee_details,omitempty"`
}

package entities

import (
	"strings"
	"time"

	"solarforyou/internal/authz"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	LastLogin    null.Time `json:"last_login"`
	CreatedAt    time.Time `json:"date_joined"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName возвращает "Имя Фамилия" или логин, если имя не заполнено.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

type UserProfile struct {
	ID         uint64           `json:"id"`
	UserID     uint64           `json:"user"`
	Phone      string           `json:"phone"`
	Address    string           `json:"address"`
	Status     string           `json:"status"`
	Privileges authz.Privileges `json:"privileges_list"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	User *User `json:"user_details,omitempty"`
}

func (p *UserProfile) OwnerID() uint64 { return p.UserID }

type UserSettings struct {
	ID        uint64     `json:"id"`
	UserID    uint64     `json:"user"`
	ProjectID null.Int64 `json:"project"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	ProjectName null.String `json:"project_name"`
}

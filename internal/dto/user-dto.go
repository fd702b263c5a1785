package dto

import (
	"time"

	"solarforyou/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateUserDTO struct {
	Username  string `json:"username" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  *bool  `json:"is_active"`
}

type UpdateUserDTO struct {
	Username  *string `json:"username" validate:"omitempty,max=150"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	IsStaff   *bool   `json:"is_staff"`
	IsActive  *bool   `json:"is_active"`
}

type CreateProfileDTO struct {
	UserID         uint64   `json:"user" validate:"required"`
	Phone          string   `json:"phone" validate:"omitempty,pl_phone"`
	Address        string   `json:"address" validate:"max=255"`
	Status         string   `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Privileges     string   `json:"privileges" validate:"privilege_token"`
	PrivilegesList []string `json:"privileges_list"`
}

type UpdateProfileDTO struct {
	Phone          *string  `json:"phone" validate:"omitempty,pl_phone"`
	Address        *string  `json:"address" validate:"omitempty,max=255"`
	Status         *string  `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Privileges     *string  `json:"privileges" validate:"omitempty,privilege_token"`
	PrivilegesList []string `json:"privileges_list"`
}

// ProfileDTO отдаёт привилегии и строкой, и списком.
type ProfileDTO struct {
	ID             uint64         `json:"id"`
	UserID         uint64         `json:"user"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Status         string         `json:"status"`
	Privileges     string         `json:"privileges"`
	PrivilegesList []string       `json:"privileges_list"`
	User           *entities.User `json:"user_details,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func NewProfileDTO(p *entities.UserProfile) *ProfileDTO {
	list := p.Privileges.List()
	if list == nil {
		list = []string{}
	}
	return &ProfileDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		Phone:          p.Phone,
		Address:        p.Address,
		Status:         p.Status,
		Privileges:     p.Privileges.String(),
		PrivilegesList: list,
		User:           p.User,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// MeDTO - текущий пользователь вместе с привилегиями.
type MeDTO struct {
	*entities.User
	Privileges []string `json:"privileges"`
	HasProfile bool     `json:"has_profile"`
}

type UpdateUserSettingsDTO struct {
	ProjectID null.Int64 `json:"project"`
}

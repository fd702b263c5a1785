package dto

import "solarforyou/internal/entities"

type LoginDTO struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResponseDTO struct {
	User       *entities.User `json:"user"`
	Privileges []string       `json:"privileges"`
}

// MobileLoginResponseDTO повторяет ответ мобильного клиента; token - Bearer для API.
type MobileLoginResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Access  string `json:"access,omitempty"`
	Name    string `json:"name,omitempty"`
	Token   string `json:"token,omitempty"`
}

package model

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Session *SessionDTO `json:"session"`
	User    *UserDTO    `json:"user"`
}

type SessionDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	FullName string    `json:"full_name,omitempty"`
	IsAdmin  bool      `json:"is_admin,omitempty"`
}

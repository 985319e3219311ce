package dto

import "github.com/noah-isme/facegaze-attendance-api/internal/models"

// LoginRequest holds the lecturer credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the session token the dashboard sends back on every gated call.
type LoginResponse struct {
	SessionID string          `json:"sessionId"`
	Lecturer  models.Identity `json:"lecturer"`
}

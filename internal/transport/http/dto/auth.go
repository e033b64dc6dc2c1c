package dto

import (
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      model.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type MeResponse struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

package dto

import (
	"time"

	"recipehub/internal/microservices/http-api/models"
)

type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	IsStaff   bool       `json:"is_staff"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UpdateUserRequest used for PATCH /api/users/:id
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=150"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
}

// StaffStatusRequest used for PATCH /api/users/:id/staff
type StaffStatusRequest struct {
	IsStaff *bool `json:"is_staff" binding:"required"`
}

// ActiveStatusRequest used for PATCH /api/users/:id/active
type ActiveStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func FromUser(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsStaff:   u.IsStaff,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

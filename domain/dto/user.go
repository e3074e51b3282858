package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email     string      `json:"email" validate:"required,email,max=255"`
	Username  string      `json:"username" validate:"required,min=3,max=20,alphanum"`
	Password  string      `json:"password" validate:"required,min=8,max=72"`
	FirstName string      `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string      `json:"lastName" validate:"required,min=1,max=50"`
	RoleIDs   []uuid.UUID `json:"roleIds"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=50"`
	Avatar    *string `json:"avatar" validate:"omitempty,url,max=500"`
	IsActive  *bool   `json:"isActive"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"roleIds"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Avatar    string     `json:"avatar"`
	IsActive  bool       `json:"isActive"`
	Roles     []string   `json:"roles"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

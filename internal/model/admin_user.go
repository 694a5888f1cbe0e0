package model

import "time"

// AdminUser is a back-office operator. Role is stored as free text; use
// ParseRole at the API boundary.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Avatar       *string   `json:"avatar"`
	Phone        *string   `json:"phone"`
	JoinedDate   time.Time `json:"joinedDate"`
	LastActive   time.Time `json:"lastActive"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial profile update.
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty" binding:"omitempty,min=1"`
	Email  *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// Empty reports whether no field was supplied.
func (r UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Avatar == nil
}

// Apply copies every supplied field onto u.
func (r UpdateProfileRequest) Apply(u *AdminUser) {
	setIf(&u.Name, r.Name)
	setIf(&u.Email, r.Email)
	if r.Phone != nil {
		u.Phone = r.Phone
	}
	if r.Avatar != nil {
		u.Avatar = r.Avatar
	}
}

// ChangePasswordRequest is the body of POST /api/admin/change-password.
// ConfirmPassword is optional; when present it must equal NewPassword.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// CreateAdminUserRequest seeds an operator account. It is only reachable
// from the CLI, never from the HTTP API.
type CreateAdminUserRequest struct {
	Username string  `validate:"required"`
	Email    string  `validate:"required,email"`
	Password string  `validate:"required,min=8,max=72"`
	Name     string  `validate:"required"`
	Role     string  `validate:"required,oneof=admin manager staff"`
	Phone    *string `validate:"omitempty"`
}

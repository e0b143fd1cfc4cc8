package dto

import (
	"time"

	"mangabook/internal/http-api/models"
)

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for user registration
type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=30"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	SecurityWord string `json:"securityWord" binding:"required,min=2,max=50"`
}

// LoginRequest: payload for user login
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// ResetPasswordRequest: payload for recovery-word password reset
type ResetPasswordRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	SecurityWord    string `json:"securityWord" binding:"required,min=2,max=50"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,min=6"`
}

// UserResponse: the safe view of a user (no hashes)
type UserResponse struct {
	ID          string             `json:"id"`
	Username    string             `json:"username"`
	Email       string             `json:"email"`
	DisplayName string             `json:"displayName"`
	Preferences models.Preferences `json:"preferences"`
	CreatedAt   time.Time          `json:"createdAt"`
	LastLogin   *time.Time         `json:"lastLogin,omitempty"`
}

// AuthResponse: response payload after successful authentication
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// FromUser maps the model to its safe response view.
func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Preferences: user.Preferences,
		CreatedAt:   user.CreatedAt,
		LastLogin:   user.LastLogin,
	}
}

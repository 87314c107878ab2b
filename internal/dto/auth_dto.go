package dto

import "github.com/Mohd-umair/repmeup-frontend/internal/model"

type RegisterRequest struct {
	FirstName        string `json:"firstName" validate:"required,min=2"`
	LastName         string `json:"lastName" validate:"required,min=2"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	OrganizationName string `json:"organizationName" validate:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthData is the payload of a successful login/register response.
type AuthData struct {
	User         model.User `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	FirstName   string                 `json:"firstName,omitempty" validate:"omitempty,min=2"`
	LastName    string                 `json:"lastName,omitempty" validate:"omitempty,min=2"`
	Email       string                 `json:"email,omitempty" validate:"omitempty,email"`
	Avatar      string                 `json:"avatar,omitempty"`
	Preferences *model.UserPreferences `json:"preferences,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

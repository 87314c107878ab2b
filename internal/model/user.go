package model

import "time"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleAgent   UserRole = "agent"
	UserRoleViewer  UserRole = "viewer"
)

type UserPreferences struct {
	Notifications  bool   `json:"notifications"`
	EmailDigest    bool   `json:"emailDigest"`
	EmailFrequency string `json:"emailFrequency"` // "instant" | "daily" | "weekly"
	Theme          string `json:"theme"`          // "light" | "dark"
	Language       string `json:"language"`
	Timezone       string `json:"timezone"`
}

// User is the backend-owned account record. The auth orchestrator keeps a
// cached copy that may be stale until the next /auth/me round-trip.
type User struct {
	Id              string          `json:"_id"`
	Email           string          `json:"email"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Role            UserRole        `json:"role"`
	Organization    string          `json:"organization"`
	Avatar          string          `json:"avatar,omitempty"`
	IsActive        bool            `json:"isActive"`
	IsEmailVerified bool            `json:"isEmailVerified"`
	LastLogin       *time.Time      `json:"lastLogin,omitempty"`
	Preferences     UserPreferences `json:"preferences"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

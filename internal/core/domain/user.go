package domain

import (
	"strings"
	"time"
)

const RoleAdmin = "admin"

// Caller is the authenticated principal making the current request.
// It is built once by the auth middleware and passed explicitly downstream.
type Caller struct {
	ID    string
	Roles []string
}

// HasRole reports whether the caller carries role, compared case-insensitively.
func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// UserProfile is a user as known by the external identity provider.
// This service never stores profiles.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"user_name"`
	AvatarURL   string    `json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
}

// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Mobile           string    `json:"mobile"`
	PasswordHash     string    `json:"-"` // Never serialize
	Email            string    `json:"email,omitempty"`
	EmailVerified    bool      `json:"email_verified"`
	DefaultAddressID *string   `json:"default_address_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasDefaultAddress reports whether the user has picked a default address.
func (u *User) HasDefaultAddress() bool {
	return u.DefaultAddressID != nil && *u.DefaultAddressID != ""
}

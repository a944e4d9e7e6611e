// Package model defines domain entities for the application.
package model

import "time"

// AddressStatus represents the lifecycle state of an address.
// The only transition is Active -> Deleted; there is no undelete.
type AddressStatus string

const (
	AddressStatusActive  AddressStatus = "active"
	AddressStatusDeleted AddressStatus = "deleted"
)

// Address represents a shipping address owned by exactly one user.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Receiver  string    `json:"receiver"`
	Province  string    `json:"province"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Place     string    `json:"place"`
	Mobile    string    `json:"mobile"`
	Tel       string    `json:"tel,omitempty"`
	Email     string    `json:"email,omitempty"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status computes the lifecycle state of the address.
func (a *Address) Status() AddressStatus {
	if a.Deleted {
		return AddressStatusDeleted
	}
	return AddressStatusActive
}

// IsVisible reports whether the address appears in list results.
func (a *Address) IsVisible() bool {
	return !a.Deleted
}

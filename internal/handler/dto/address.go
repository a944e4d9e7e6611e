package dto

import (
	"time"

	"github.com/mallfront/mallfront/internal/model"
)

// AddressRequest represents the request body for creating an address.
type AddressRequest struct {
	Title    string `json:"title" validate:"required,max=20"`
	Receiver string `json:"receiver" validate:"required,max=20"`
	Province string `json:"province" validate:"required,max=20"`
	City     string `json:"city" validate:"required,max=20"`
	District string `json:"district" validate:"required,max=20"`
	Place    string `json:"place" validate:"required,max=50"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Tel      string `json:"tel" validate:"omitempty,max=20"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// AddressTitleRequest represents the request body for renaming an address.
type AddressTitleRequest struct {
	Title string `json:"title" validate:"required,max=20"`
}

// AddressResponse represents an address in API responses.
type AddressResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Receiver  string    `json:"receiver"`
	Province  string    `json:"province"`
	City      string    `json:"city"`
	District  string    `json:"district"`
	Place     string    `json:"place"`
	Mobile    string    `json:"mobile"`
	Tel       string    `json:"tel,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddressListResponse carries a user's visible addresses plus the
// default-address reference and the per-user cap.
type AddressListResponse struct {
	UserID           string            `json:"user_id"`
	DefaultAddressID *string           `json:"default_address_id"`
	Limit            int               `json:"limit"`
	Addresses        []AddressResponse `json:"addresses"`
}

// ToAddressResponse converts an Address model to AddressResponse.
func ToAddressResponse(address *model.Address) *AddressResponse {
	return &AddressResponse{
		ID:        address.ID,
		Title:     address.Title,
		Receiver:  address.Receiver,
		Province:  address.Province,
		City:      address.City,
		District:  address.District,
		Place:     address.Place,
		Mobile:    address.Mobile,
		Tel:       address.Tel,
		Email:     address.Email,
		CreatedAt: address.CreatedAt,
		UpdatedAt: address.UpdatedAt,
	}
}

// ToAddressListResponse converts a list of addresses with book metadata.
func ToAddressListResponse(userID string, defaultAddressID *string, limit int, addresses []*model.Address) *AddressListResponse {
	responses := make([]AddressResponse, len(addresses))
	for i, address := range addresses {
		responses[i] = *ToAddressResponse(address)
	}
	return &AddressListResponse{
		UserID:           userID,
		DefaultAddressID: defaultAddressID,
		Limit:            limit,
		Addresses:        responses,
	}
}

package dto

import (
	"time"

	"github.com/mallfront/mallfront/internal/model"
)

// HistoryPushRequest represents the request body for recording a view.
type HistoryPushRequest struct {
	SKUID int64 `json:"sku_id" validate:"required,gt=0"`
}

// ProductResponse represents a catalog product in history results.
type ProductResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DefaultImageURL string    `json:"default_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// HistoryListResponse is the resolved browsing history, most recent first.
type HistoryListResponse struct {
	Products []ProductResponse `json:"products"`
}

// ToProductResponse converts a Product model to ProductResponse.
func ToProductResponse(product *model.Product) *ProductResponse {
	return &ProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		PriceCents:      product.PriceCents,
		DefaultImageURL: product.DefaultImageURL,
		CreatedAt:       product.CreatedAt,
	}
}

// ToHistoryListResponse converts resolved products to the response shape.
func ToHistoryListResponse(products []*model.Product) *HistoryListResponse {
	responses := make([]ProductResponse, len(products))
	for i, product := range products {
		responses[i] = *ToProductResponse(product)
	}
	return &HistoryListResponse{Products: responses}
}

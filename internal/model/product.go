// Package model defines domain entities for the application.
package model

import "time"

// Product is the catalog read model used to resolve browsing history.
type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DefaultImageURL string    `json:"default_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

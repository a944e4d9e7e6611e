package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mallfront/mallfront/internal/model"
)

// ErrProductNotFound is returned when a catalog product does not exist.
var ErrProductNotFound = errors.New("product not found")

// GetProductByID retrieves a catalog product.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, price_cents, COALESCE(default_image_url, ''), created_at
		FROM products
		WHERE id = $1
	`

	var product model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.PriceCents,
		&product.DefaultImageURL,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// GetProductsByIDs fetches the given products and returns them in the order
// of the input IDs. IDs missing from the catalog are omitted.
func (r *Repository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, price_cents, COALESCE(default_image_url, ''), created_at
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*model.Product, len(ids))
	for rows.Next() {
		var product model.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.PriceCents,
			&product.DefaultImageURL,
			&product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		byID[product.ID] = &product
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	// Preserve the caller's ordering.
	products := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}

	return products, nil
}

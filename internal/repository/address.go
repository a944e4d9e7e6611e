package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mallfront/mallfront/internal/model"
)

// Common errors for address repository operations.
var (
	// ErrAddressNotFound is returned when no matching address belongs to the user.
	ErrAddressNotFound = errors.New("address not found")
	// ErrAddressLimitReached is returned when the per-user visible-address cap is hit.
	ErrAddressLimitReached = errors.New("address limit reached")
)

const addressColumns = `id, user_id, title, receiver, province, city, district, place, mobile, COALESCE(tel, ''), COALESCE(email, ''), is_deleted, created_at, updated_at`

// ListVisibleAddresses returns the user's non-deleted addresses,
// oldest first.
func (r *Repository) ListVisibleAddresses(ctx context.Context, userID string) ([]*model.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND NOT is_deleted
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*model.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// CountVisibleAddresses returns the number of non-deleted addresses for the user.
func (r *Repository) CountVisibleAddresses(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1 AND NOT is_deleted`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}

// CreateAddress inserts a new address unless the user already has `limit`
// visible addresses. The count check and insert run as a single conditional
// statement, so two concurrent creates cannot both slip past the cap.
func (r *Repository) CreateAddress(ctx context.Context, address *model.Address, limit int) error {
	query := `
		INSERT INTO addresses (id, user_id, title, receiver, province, city, district, place, mobile, tel, email, is_deleted, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12, $13
		WHERE (SELECT COUNT(*) FROM addresses WHERE user_id = $2 AND NOT is_deleted) < $14
	`

	result, err := r.pool.Exec(ctx, query,
		address.ID,
		address.UserID,
		address.Title,
		address.Receiver,
		address.Province,
		address.City,
		address.District,
		address.Place,
		address.Mobile,
		address.Tel,
		address.Email,
		address.CreatedAt,
		address.UpdatedAt,
		limit,
	)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrAddressLimitReached
	}

	return nil
}

// GetAddress retrieves one of the user's addresses by ID, deleted or not.
func (r *Repository) GetAddress(ctx context.Context, userID, addressID string) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	address, err := scanAddress(r.pool.QueryRow(ctx, query, addressID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}

	return address, nil
}

// SoftDeleteAddress marks a visible address as deleted and, in the same
// transaction, clears the owner's default-address reference if it pointed at
// the deleted address. A second delete of the same address reports not found.
func (r *Repository) SoftDeleteAddress(ctx context.Context, userID, addressID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE addresses
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND NOT is_deleted
	`, addressID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAddressNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users
		SET default_address_id = NULL, updated_at = NOW()
		WHERE id = $1 AND default_address_id = $2
	`, userID, addressID); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address delete: %w", err)
	}

	return nil
}

// SetDefaultAddress points the user's default-address reference at the given
// address. Ownership is required; deleted addresses are deliberately not
// filtered out here.
func (r *Repository) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	query := `
		UPDATE users
		SET default_address_id = $2, updated_at = NOW()
		WHERE id = $1
		  AND EXISTS (SELECT 1 FROM addresses WHERE id = $2 AND user_id = $1)
	`

	result, err := r.pool.Exec(ctx, query, userID, addressID)
	if err != nil {
		return fmt.Errorf("failed to set default address: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// UpdateAddressTitle updates only the title of a visible address and returns
// the updated record.
func (r *Repository) UpdateAddressTitle(ctx context.Context, userID, addressID, title string) (*model.Address, error) {
	query := `
		UPDATE addresses
		SET title = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND NOT is_deleted
		RETURNING ` + addressColumns + `
	`

	address, err := scanAddress(r.pool.QueryRow(ctx, query, addressID, userID, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address title: %w", err)
	}

	return address, nil
}

// scanAddress scans a single row into an Address model.
func scanAddress(row pgx.Row) (*model.Address, error) {
	var address model.Address
	err := row.Scan(
		&address.ID,
		&address.UserID,
		&address.Title,
		&address.Receiver,
		&address.Province,
		&address.City,
		&address.District,
		&address.Place,
		&address.Mobile,
		&address.Tel,
		&address.Email,
		&address.Deleted,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &address, nil
}

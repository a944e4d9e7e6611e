package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mallfront/mallfront/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrMobileExists   = errors.New("mobile already exists")
)

const userColumns = `id, username, mobile, password_hash, COALESCE(email, ''), email_verified, default_address_id, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, mobile, password_hash, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Mobile,
		user.PasswordHash,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		switch uniqueViolation(err) {
		case "users_username_key":
			return ErrUsernameExists
		case "users_mobile_key":
			return ErrMobileExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// CountUsersByUsername returns the number of users with the given username.
// The unique constraint keeps this at 0 or 1.
func (r *Repository) CountUsersByUsername(ctx context.Context, username string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by username: %w", err)
	}
	return count, nil
}

// CountUsersByMobile returns the number of users with the given mobile number.
func (r *Repository) CountUsersByMobile(ctx context.Context, mobile string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE mobile = $1`, mobile).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users by mobile: %w", err)
	}
	return count, nil
}

// UpdateEmail sets the user's email address. Changing the address resets
// the verified flag; a verification mail must be sent again.
func (r *Repository) UpdateEmail(ctx context.Context, userID, email string) error {
	query := `
		UPDATE users
		SET email = $2,
		    email_verified = (email IS NOT DISTINCT FROM $2) AND email_verified,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID, email)
	if err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// MarkEmailVerified flips the email_verified flag for the user, provided the
// stored email still matches the one the token was issued for. The flag only
// ever flips from false to true.
func (r *Repository) MarkEmailVerified(ctx context.Context, userID, email string) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, updated_at = NOW()
		WHERE id = $1 AND email = $2
	`

	result, err := r.pool.Exec(ctx, query, userID, email)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Mobile,
		&user.PasswordHash,
		&user.Email,
		&user.EmailVerified,
		&user.DefaultAddressID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

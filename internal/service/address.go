// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/mallfront/mallfront/internal/metrics"
	"github.com/mallfront/mallfront/internal/model"
	"github.com/mallfront/mallfront/internal/repository"
)

// Address service errors.
var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressLimit    = errors.New("address limit reached")
	ErrInvalidTitle    = errors.New("invalid address title")
)

// MaxTitleLength is the longest accepted address title, in runes.
const MaxTitleLength = 20

// AddressService manages the address lifecycle for authenticated users:
// the per-user cap, soft-delete, default-address selection, and
// title-only renames.
type AddressService struct {
	repo    *repository.Repository
	limit   int
	metrics metrics.Recorder
}

// NewAddressService creates a new AddressService.
func NewAddressService(repo *repository.Repository, limit int, recorder metrics.Recorder) *AddressService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AddressService{
		repo:    repo,
		limit:   limit,
		metrics: recorder,
	}
}

// Limit returns the configured per-user address cap.
func (s *AddressService) Limit() int {
	return s.limit
}

// AddressBook is the result of listing a user's addresses.
type AddressBook struct {
	UserID           string
	DefaultAddressID *string
	Limit            int
	Addresses        []*model.Address
}

// List returns the user's visible addresses together with the default
// address reference and the configured cap.
func (s *AddressService) List(ctx context.Context, userID string) (*AddressBook, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	addresses, err := s.repo.ListVisibleAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AddressBook{
		UserID:           user.ID,
		DefaultAddressID: user.DefaultAddressID,
		Limit:            s.limit,
		Addresses:        addresses,
	}, nil
}

// CreateAddressInput defines input for creating an address.
type CreateAddressInput struct {
	Title    string
	Receiver string
	Province string
	City     string
	District string
	Place    string
	Mobile   string
	Tel      string
	Email    string
}

// Create persists a new address for the user. Fails with ErrAddressLimit
// when the user already has the configured number of visible addresses;
// the cap is enforced atomically at the store layer.
func (s *AddressService) Create(ctx context.Context, userID string, input CreateAddressInput) (*model.Address, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	address := &model.Address{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     input.Title,
		Receiver:  input.Receiver,
		Province:  input.Province,
		City:      input.City,
		District:  input.District,
		Place:     input.Place,
		Mobile:    input.Mobile,
		Tel:       input.Tel,
		Email:     input.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateAddress(ctx, address, s.limit); err != nil {
		if errors.Is(err, repository.ErrAddressLimitReached) {
			s.metrics.IncAddressLimitHit()
			return nil, ErrAddressLimit
		}
		return nil, err
	}

	s.metrics.IncAddressCreated()

	return address, nil
}

// Delete soft-deletes one of the user's visible addresses. The store clears
// the user's default-address reference in the same transaction when it
// pointed at the deleted address. Deleting twice reports ErrAddressNotFound.
func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	if err := s.repo.SoftDeleteAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return err
	}

	s.metrics.IncAddressDeleted()

	return nil
}

// SetDefault points the user's default-address reference at the given
// address. Only ownership is checked; a deleted address can still be chosen.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) error {
	if err := s.repo.SetDefaultAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return ErrAddressNotFound
		}
		return err
	}
	return nil
}

// RenameTitle updates only the title of a visible address and returns the
// updated record.
func (s *AddressService) RenameTitle(ctx context.Context, userID, addressID, title string) (*model.Address, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	address, err := s.repo.UpdateAddressTitle(ctx, userID, addressID, title)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	return address, nil
}

// validateTitle enforces the title field constraints.
func validateTitle(title string) error {
	if title == "" {
		return ErrInvalidTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

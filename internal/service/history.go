package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mallfront/mallfront/internal/cache"
	"github.com/mallfront/mallfront/internal/metrics"
	"github.com/mallfront/mallfront/internal/model"
	"github.com/mallfront/mallfront/internal/repository"
)

// ErrProductNotFound is returned when a pushed product is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// HistoryService maintains the capped, most-recent-first browsing history
// list and resolves it against the product catalog on read.
type HistoryService struct {
	repo    *repository.Repository
	cache   *cache.Cache
	limit   int64
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo *repository.Repository, c *cache.Cache, limit int64, logger *slog.Logger, recorder metrics.Recorder) *HistoryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &HistoryService{
		repo:    repo,
		cache:   c,
		limit:   limit,
		logger:  logger,
		metrics: recorder,
	}
}

// Push records that the user viewed a product. The product must exist in
// the catalog; the stored list is deduplicated and capped.
func (s *HistoryService) Push(ctx context.Context, userID string, productID int64) error {
	if _, err := s.repo.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.cache.PushHistory(ctx, userID, productID, s.limit); err != nil {
		return err
	}

	s.metrics.IncHistoryPushed()

	return nil
}

// List returns the user's browsing history resolved to product records,
// stored order preserved. IDs that have since left the catalog are dropped.
func (s *HistoryService) List(ctx context.Context, userID string) ([]*model.Product, error) {
	ids, err := s.cache.GetHistory(ctx, userID, s.limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Product{}, nil
	}

	products, err := s.repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(products) < len(ids) {
		s.logger.Warn("browsing history references missing products",
			"user_id", userID,
			"stored", len(ids),
			"resolved", len(products),
		)
	}

	return products, nil
}

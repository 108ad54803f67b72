package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/nyt"
)

// bestSellerCacheTTL is how long a fetched list is served before going
// back to the NYT API. The lists update weekly, so an hour is generous.
const bestSellerCacheTTL = time.Hour

// BestSellerSource fetches a ranked best-sellers list.
type BestSellerSource interface {
	Enabled() bool
	BestSellers(ctx context.Context, list string) (*nyt.List, error)
}

// DiscoverService surfaces read-only best-sellers lists.
type DiscoverService struct {
	source BestSellerSource
	logger *slog.Logger

	cache *cachedLists
}

// NewDiscoverService creates a new discover service.
func NewDiscoverService(source BestSellerSource, logger *slog.Logger) *DiscoverService {
	return &DiscoverService{
		source: source,
		logger: logger,
		cache:  newCachedLists(bestSellerCacheTTL),
	}
}

// BestSellers returns the current snapshot of the named list, serving
// from cache when fresh. An empty name gets the default list.
func (s *DiscoverService) BestSellers(ctx context.Context, list string) (*nyt.List, error) {
	if !s.source.Enabled() {
		return nil, domainerrors.InvalidRequest("best sellers are not configured on this server")
	}
	if list == "" {
		list = nyt.DefaultList
	}
	if !nyt.ValidList(list) {
		return nil, domainerrors.Validationf("unknown best sellers list %q", list)
	}

	if cached := s.cache.get(list); cached != nil {
		return cached, nil
	}

	result, err := s.source.BestSellers(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("fetch best sellers: %w", err)
	}

	s.cache.put(list, result)
	return result, nil
}

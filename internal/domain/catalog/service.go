// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/pkg/async"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

const listingKey = "catalog:all"

// ListingGateway is the slice of the upstream client the catalog needs
type ListingGateway interface {
	AllProducts(ctx context.Context) (*upstream.ProductListResponse, error)
	ProductsByCategory(ctx context.Context, slug string) (*upstream.ProductListResponse, error)
	SearchProducts(ctx context.Context, keyword string) (*upstream.ProductListResponse, error)
}

type cachedListing struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Products  []upstream.Product `json:"products"`
}

// Service proxies product listings from the commerce API. The full
// listing is cached and served stale-while-revalidate: a stale hit
// answers immediately and schedules a debounced background refresh,
// and a poller renews the cache on a fixed interval regardless.
type Service struct {
	gateway  ListingGateway
	adapter  storage.Adapter
	cacheTTL time.Duration
	refresh  *async.Debouncer
	poller   *async.Poller
	log      *logrus.Logger
}

// NewService creates a catalog service
func NewService(gateway ListingGateway, adapter storage.Adapter, cfg config.CatalogConfig, log *logrus.Logger) *Service {
	s := &Service{
		gateway:  gateway,
		adapter:  adapter,
		cacheTTL: cfg.CacheTTL,
		log:      log,
	}
	s.refresh = async.NewDebouncer(cfg.DebounceWindow, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.refreshListing(ctx)
	})
	s.poller = async.NewPoller(cfg.RefreshInterval, func(ctx context.Context) {
		s.refreshListing(ctx)
	})
	return s
}

// Start begins periodic cache refresh
func (s *Service) Start() {
	s.poller.Start()
}

// Stop tears down the poller and any scheduled refresh
func (s *Service) Stop() {
	s.poller.Stop()
	s.refresh.Stop()
}

// All returns the full product listing, from cache when possible
func (s *Service) All(ctx context.Context) ([]upstream.Product, error) {
	if cached := s.loadCache(ctx); cached != nil {
		if time.Since(cached.FetchedAt) <= s.cacheTTL {
			return cached.Products, nil
		}
		// Serve stale and refresh in the background.
		s.refresh.Trigger()
		return cached.Products, nil
	}

	resp, err := s.gateway.AllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product listing: %w", err)
	}
	s.saveCache(ctx, resp.Products)
	return resp.Products, nil
}

// ByCategory returns listings for one category; not cached, each call
// is an independent pass-through.
func (s *Service) ByCategory(ctx context.Context, slug string) ([]upstream.Product, error) {
	resp, err := s.gateway.ProductsByCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category listing: %w", err)
	}
	return resp.Products, nil
}

// Search returns listings matching a keyword; pass-through
func (s *Service) Search(ctx context.Context, keyword string) ([]upstream.Product, error) {
	resp, err := s.gateway.SearchProducts(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return resp.Products, nil
}

func (s *Service) refreshListing(ctx context.Context) {
	resp, err := s.gateway.AllProducts(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Catalog refresh failed, keeping cached listing")
		return
	}
	s.saveCache(ctx, resp.Products)
	s.log.WithField("count", len(resp.Products)).Debug("Catalog listing refreshed")
}

func (s *Service) loadCache(ctx context.Context) *cachedListing {
	data, err := s.adapter.Load(ctx, listingKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	} else if err != nil {
		s.log.WithError(err).Warn("Failed to load catalog cache")
		return nil
	}

	var cached cachedListing
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil
	}
	return &cached
}

func (s *Service) saveCache(ctx context.Context, products []upstream.Product) {
	data, err := json.Marshal(cachedListing{
		FetchedAt: time.Now().UTC(),
		Products:  products,
	})
	if err != nil {
		return
	}
	if err := s.adapter.Save(ctx, listingKey, data); err != nil {
		s.log.WithError(err).Warn("Failed to save catalog cache")
	}
}

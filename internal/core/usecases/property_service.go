package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/core/query"
)

// PropertyService handles listing search and management.
type PropertyService struct {
	props  ports.PropertyRepository
	cache  ports.CacheService
	events ports.EventPublisher
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(props ports.PropertyRepository, cache ports.CacheService, events ports.EventPublisher) *PropertyService {
	return &PropertyService{props: props, cache: cache, events: events}
}

// Search compiles the filter state and executes it against the store.
// Results are cached briefly; the cache namespace is versioned and
// bumped whenever a listing is created.
func (s *PropertyService) Search(ctx context.Context, state filter.State, opts query.Options, limit, offset int) ([]domain.Property, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	preds := query.Compile(state, opts)

	cacheKey := s.searchKey(ctx, state, opts, limit, offset)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var props []domain.Property
			if err := json.Unmarshal(data, &props); err == nil {
				return props, nil
			}
		}
	}

	props, err := s.props.Search(ctx, preds, limit, offset)
	if err != nil {
		return nil, err
	}

	// Listings churn slowly; one minute is enough to absorb bursts.
	if s.cache != nil {
		if data, err := json.Marshal(props); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return props, nil
}

// Residences returns the properties the tenant currently leases.
func (s *PropertyService) Residences(ctx context.Context, tenantID string) ([]domain.Property, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	return s.Search(ctx, filter.Default(), query.Options{LeaseTenantID: tenantID}, 100, 0)
}

// GetByID returns a single listing.
func (s *PropertyService) GetByID(ctx context.Context, id int) (*domain.Property, error) {
	cacheKey := "properties:id:" + strconv.Itoa(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.Property
			if err := json.Unmarshal(data, &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.props.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return p, nil
}

// Create persists a new listing, announces it, and invalidates cached
// search results.
func (s *PropertyService) Create(ctx context.Context, p *domain.Property) error {
	if p.Name == "" {
		return fmt.Errorf("property name is required")
	}
	if p.PricePerMonth <= 0 {
		return fmt.Errorf("price per month must be positive")
	}
	if !domain.ValidPropertyType(p.PropertyType) {
		return fmt.Errorf("unknown property type %q", p.PropertyType)
	}
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now()
	}

	if err := s.props.Create(ctx, p); err != nil {
		return err
	}

	s.InvalidateSearches(ctx)

	if s.events != nil {
		if err := s.events.PublishPropertyCreated(ctx, p); err != nil {
			slog.Warn("publish property created", "property_id", p.ID, "error", err)
		}
	}
	return nil
}

// InvalidateSearches bumps the search cache namespace so stale result
// pages stop being served. Called locally on create and remotely via
// the property.created subscription.
func (s *PropertyService) InvalidateSearches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	ver := strconv.FormatInt(time.Now().UnixNano(), 10)
	_ = s.cache.Set(ctx, "properties:ver", []byte(ver), 86400)
}

func (s *PropertyService) searchKey(ctx context.Context, state filter.State, opts query.Options, limit, offset int) string {
	ver := "0"
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, "properties:ver"); err == nil && len(v) > 0 {
			ver = string(v)
		}
	}
	return fmt.Sprintf("properties:search:%s:%s:fav=%v,%v:lease=%s:%d:%d",
		ver, filter.EncodeQuery(state),
		opts.Favorites.Supplied, opts.Favorites.IDs,
		opts.LeaseTenantID, limit, offset)
}

package usecases

import (
	"context"
	"fmt"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/ports"
)

// TenantService handles tenant accounts and favorites.
type TenantService struct {
	tenants ports.TenantRepository
	props   ports.PropertyRepository
}

// NewTenantService creates a new TenantService.
func NewTenantService(tenants ports.TenantRepository, props ports.PropertyRepository) *TenantService {
	return &TenantService{tenants: tenants, props: props}
}

// GetByID returns a tenant with favorites populated.
func (s *TenantService) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if id == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	return s.tenants.GetByID(ctx, id)
}

// AddFavorite favorites a property for a tenant. The property must
// exist; favoriting twice is a no-op. Identity arrives from the
// gateway, so the tenant row is created on first use.
func (s *TenantService) AddFavorite(ctx context.Context, tenantID string, propertyID int) error {
	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return fmt.Errorf("property %d: %w", propertyID, err)
	}
	if err := s.tenants.Upsert(ctx, &domain.Tenant{ID: tenantID}); err != nil {
		return fmt.Errorf("upsert tenant: %w", err)
	}
	return s.tenants.AddFavorite(ctx, tenantID, propertyID)
}

// RemoveFavorite unfavorites a property for a tenant.
func (s *TenantService) RemoveFavorite(ctx context.Context, tenantID string, propertyID int) error {
	if tenantID == "" {
		return fmt.Errorf("tenant id is required")
	}
	return s.tenants.RemoveFavorite(ctx, tenantID, propertyID)
}

// FavoriteIDs returns the tenant's favorited property IDs.
func (s *TenantService) FavoriteIDs(ctx context.Context, tenantID string) ([]int, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	return s.tenants.FavoriteIDs(ctx, tenantID)
}

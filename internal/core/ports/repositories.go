package ports

import (
	"context"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/query"
)

// PropertyRepository persists listings and executes compiled searches.
type PropertyRepository interface {
	// Search executes a compiled predicate set. It returns an empty
	// slice on no matches and errors only on storage failure. Ordering
	// is stable (by id).
	Search(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error)
	GetByID(ctx context.Context, id int) (*domain.Property, error)
	Create(ctx context.Context, p *domain.Property) error
	CreateBatch(ctx context.Context, props []domain.Property) error
}

// LeaseRepository persists leases.
type LeaseRepository interface {
	Create(ctx context.Context, l *domain.Lease) error
	GetByID(ctx context.Context, id int) (*domain.Lease, error)
	ListByProperty(ctx context.Context, propertyID int) ([]domain.Lease, error)
	// Void removes a lease that was created but never took effect
	// (saga rollback during signing).
	Void(ctx context.Context, id int) error
}

// TenantRepository persists tenants and their favorites.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Upsert(ctx context.Context, t *domain.Tenant) error
	AddFavorite(ctx context.Context, tenantID string, propertyID int) error
	RemoveFavorite(ctx context.Context, tenantID string, propertyID int) error
	FavoriteIDs(ctx context.Context, tenantID string) ([]int, error)
}

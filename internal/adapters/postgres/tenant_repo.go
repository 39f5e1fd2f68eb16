package postgres

import (
	"context"

	"github.com/rentloop/rentloop/internal/core/domain"
)

// TenantRepo implements ports.TenantRepository with pgx.
type TenantRepo struct {
	db *DB
}

// NewTenantRepo creates a new TenantRepo.
func NewTenantRepo(db *DB) *TenantRepo {
	return &TenantRepo{db: db}
}

// GetByID returns a tenant with their favorite listing ids loaded.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, email, created_at FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Email, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Favorites, err = r.FavoriteIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Upsert inserts or updates a tenant profile. Empty fields never
// clobber an existing profile, so first-use rows are safe to create
// with just an id.
func (r *TenantRepo) Upsert(ctx context.Context, t *domain.Tenant) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO tenants (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name  = COALESCE(NULLIF(EXCLUDED.name, ''), tenants.name),
		    email = COALESCE(NULLIF(EXCLUDED.email, ''), tenants.email)
	`, t.ID, t.Name, t.Email)
	return err
}

// AddFavorite marks a listing as a favorite. Adding twice is a no-op.
func (r *TenantRepo) AddFavorite(ctx context.Context, tenantID string, propertyID int) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO favorites (tenant_id, property_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, tenantID, propertyID)
	return err
}

// RemoveFavorite unmarks a listing. Removing an absent row is a no-op.
func (r *TenantRepo) RemoveFavorite(ctx context.Context, tenantID string, propertyID int) error {
	_, err := r.db.Pool.Exec(ctx, `
		DELETE FROM favorites WHERE tenant_id = $1 AND property_id = $2
	`, tenantID, propertyID)
	return err
}

// FavoriteIDs returns the tenant's favorite listing ids.
func (r *TenantRepo) FavoriteIDs(ctx context.Context, tenantID string) ([]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT property_id FROM favorites WHERE tenant_id = $1 ORDER BY property_id
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

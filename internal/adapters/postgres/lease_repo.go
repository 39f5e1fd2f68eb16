package postgres

import (
	"context"

	"github.com/rentloop/rentloop/internal/core/domain"
)

// LeaseRepo implements ports.LeaseRepository with pgx.
type LeaseRepo struct {
	db *DB
}

// NewLeaseRepo creates a new LeaseRepo.
func NewLeaseRepo(db *DB) *LeaseRepo {
	return &LeaseRepo{db: db}
}

// Create inserts a lease and fills in its assigned id.
func (r *LeaseRepo) Create(ctx context.Context, l *domain.Lease) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO leases (property_id, tenant_id, rent, deposit, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, l.PropertyID, l.TenantID, l.Rent, l.Deposit, l.StartDate, l.EndDate,
	).Scan(&l.ID, &l.CreatedAt)
}

// GetByID returns a lease by id.
func (r *LeaseRepo) GetByID(ctx context.Context, id int) (*domain.Lease, error) {
	var l domain.Lease
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, property_id, tenant_id, rent, deposit, start_date, end_date, created_at
		FROM leases WHERE id = $1
	`, id).Scan(&l.ID, &l.PropertyID, &l.TenantID, &l.Rent, &l.Deposit,
		&l.StartDate, &l.EndDate, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByProperty returns the leases on a listing, newest first.
func (r *LeaseRepo) ListByProperty(ctx context.Context, propertyID int) ([]domain.Lease, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, property_id, tenant_id, rent, deposit, start_date, end_date, created_at
		FROM leases WHERE property_id = $1
		ORDER BY start_date DESC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(&l.ID, &l.PropertyID, &l.TenantID, &l.Rent, &l.Deposit,
			&l.StartDate, &l.EndDate, &l.CreatedAt); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}

// Void deletes a lease that never took effect.
func (r *LeaseRepo) Void(ctx context.Context, id int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM leases WHERE id = $1`, id)
	return err
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/query"
)

// PropertyRepo implements ports.PropertyRepository with pgx.
type PropertyRepo struct {
	db *DB
}

// NewPropertyRepo creates a new PropertyRepo.
func NewPropertyRepo(db *DB) *PropertyRepo {
	return &PropertyRepo{db: db}
}

const propertyColumns = `
	p.id, p.name, COALESCE(p.description, ''), p.price_per_month, p.security_deposit,
	p.beds, p.baths, p.square_feet, p.property_type,
	ST_Y(p.location::geometry) as lat,
	ST_X(p.location::geometry) as lon,
	COALESCE(p.address, ''), COALESCE(p.city, ''), p.manager_id, p.posted_at`

// Search executes the compiled predicate set. All predicates are
// conjunctive; an empty set returns every listing page by page.
func (r *PropertyRepo) Search(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
	if preds.MatchNone {
		return []domain.Property{}, nil
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if preds.Price.Min != nil {
		where = append(where, "p.price_per_month >= "+arg(*preds.Price.Min))
	}
	if preds.Price.Max != nil {
		where = append(where, "p.price_per_month <= "+arg(*preds.Price.Max))
	}
	if preds.SquareFeet.Min != nil {
		where = append(where, "p.square_feet >= "+arg(*preds.SquareFeet.Min))
	}
	if preds.SquareFeet.Max != nil {
		where = append(where, "p.square_feet <= "+arg(*preds.SquareFeet.Max))
	}
	if preds.MinBeds != nil {
		where = append(where, "p.beds >= "+arg(*preds.MinBeds))
	}
	if preds.MinBaths != nil {
		where = append(where, "p.baths >= "+arg(*preds.MinBaths))
	}
	if preds.PropertyType != "" {
		where = append(where, "p.property_type = "+arg(preds.PropertyType))
	}
	if preds.Anchor != nil {
		lon, lat := arg(preds.Anchor.Lon), arg(preds.Anchor.Lat)
		where = append(where, fmt.Sprintf(
			"ST_DWithin(p.location, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
			lon, lat, arg(preds.RadiusMeters)))
	}
	if preds.FavoriteIDs != nil {
		where = append(where, "p.id = ANY("+arg(preds.FavoriteIDs)+")")
	}

	join := ""
	if preds.LeaseTenantID != "" {
		join = fmt.Sprintf(
			"JOIN leases l ON l.property_id = p.id AND l.tenant_id = %s AND now() BETWEEN l.start_date AND l.end_date",
			arg(preds.LeaseTenantID))
	}

	sql := "SELECT " + propertyColumns + " FROM properties p"
	if join != "" {
		sql += " " + join
	}
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY p.id LIMIT %s OFFSET %s", arg(limit), arg(offset))

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := []domain.Property{}
	for rows.Next() {
		var p domain.Property
		if err := scanProperty(rows, &p); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// GetByID returns a single listing.
func (r *PropertyRepo) GetByID(ctx context.Context, id int) (*domain.Property, error) {
	var p domain.Property
	row := r.db.Pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties p WHERE p.id = $1", id)
	if err := scanProperty(row, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a listing and fills in its assigned id.
func (r *PropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO properties (name, description, price_per_month, security_deposit,
		                        beds, baths, square_feet, property_type,
		                        location, address, city, manager_id, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        ST_SetSRID(ST_MakePoint($9, $10), 4326)::geography, $11, $12, $13, $14)
		RETURNING id
	`, p.Name, p.Description, p.PricePerMonth, p.SecurityDeposit,
		p.Beds, p.Baths, p.SquareFeet, p.PropertyType,
		p.Location.Lon, p.Location.Lat, p.Address, p.City, p.ManagerID, p.PostedAt,
	).Scan(&p.ID)
}

// CreateBatch inserts many listings using pgx.Batch.
func (r *PropertyRepo) CreateBatch(ctx context.Context, props []domain.Property) error {
	batch := &pgx.Batch{}
	for _, p := range props {
		batch.Queue(`
			INSERT INTO properties (name, description, price_per_month, security_deposit,
			                        beds, baths, square_feet, property_type,
			                        location, address, city, manager_id, posted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			        ST_SetSRID(ST_MakePoint($9, $10), 4326)::geography, $11, $12, $13, $14)
		`, p.Name, p.Description, p.PricePerMonth, p.SecurityDeposit,
			p.Beds, p.Baths, p.SquareFeet, p.PropertyType,
			p.Location.Lon, p.Location.Lat, p.Address, p.City, p.ManagerID, p.PostedAt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range props {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

func scanProperty(row pgx.Row, p *domain.Property) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PricePerMonth, &p.SecurityDeposit,
		&p.Beds, &p.Baths, &p.SquareFeet, &p.PropertyType,
		&p.Location.Lat, &p.Location.Lon,
		&p.Address, &p.City, &p.ManagerID, &p.PostedAt,
	)
}

package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/query"
	"github.com/rentloop/rentloop/internal/core/usecases"
)

type mockPropertyRepo struct {
	searchFn      func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error)
	getByIDFn     func(ctx context.Context, id int) (*domain.Property, error)
	createFn      func(ctx context.Context, p *domain.Property) error
	createBatchFn func(ctx context.Context, props []domain.Property) error
}

func (m *mockPropertyRepo) Search(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
	return m.searchFn(ctx, preds, limit, offset)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id int) (*domain.Property, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return m.createFn(ctx, p)
}

func (m *mockPropertyRepo) CreateBatch(ctx context.Context, props []domain.Property) error {
	return m.createBatchFn(ctx, props)
}

type mockPublisher struct {
	propertyCreated []*domain.Property
	leasesSigned    []*domain.Lease
}

func (m *mockPublisher) PublishPropertyCreated(ctx context.Context, p *domain.Property) error {
	m.propertyCreated = append(m.propertyCreated, p)
	return nil
}

func (m *mockPublisher) PublishLeaseSigned(ctx context.Context, l *domain.Lease) error {
	m.leasesSigned = append(m.leasesSigned, l)
	return nil
}

func TestPropertyService_SearchCompilesState(t *testing.T) {
	var captured query.PredicateSet
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
			captured = preds
			return []domain.Property{{ID: 7, Name: "Hillside Flat"}}, nil
		},
	}
	svc := usecases.NewPropertyService(repo, nil, nil)

	state := filter.DecodeQuery("priceRange=1000,3000&beds=2&propertyType=Apartment")
	props, err := svc.Search(context.Background(), state, query.Options{}, 20, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(props) != 1 || props[0].ID != 7 {
		t.Fatalf("got %v, want the repo's row", props)
	}

	if captured.Price.Min == nil || *captured.Price.Min != 1000 {
		t.Errorf("price min = %v, want 1000", captured.Price.Min)
	}
	if captured.Price.Max == nil || *captured.Price.Max != 3000 {
		t.Errorf("price max = %v, want 3000", captured.Price.Max)
	}
	if captured.MinBeds == nil || *captured.MinBeds != 2 {
		t.Errorf("min beds = %v, want 2", captured.MinBeds)
	}
	if captured.PropertyType != domain.PropertyTypeApartment {
		t.Errorf("property type = %q, want Apartment", captured.PropertyType)
	}
}

func TestPropertyService_SearchClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := usecases.NewPropertyService(repo, nil, nil)

	if _, err := svc.Search(context.Background(), filter.Default(), query.Options{}, 0, 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("limit = %d, want default 50", gotLimit)
	}

	if _, err := svc.Search(context.Background(), filter.Default(), query.Options{}, 9999, 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("limit = %d after oversized request, want clamp to 50", gotLimit)
	}
}

func TestPropertyService_SearchExplicitEmptyFavorites(t *testing.T) {
	var captured query.PredicateSet
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
			captured = preds
			return nil, nil
		},
	}
	svc := usecases.NewPropertyService(repo, nil, nil)

	opts := query.Options{Favorites: filter.FavoriteSelection{Supplied: true}}
	if _, err := svc.Search(context.Background(), filter.Default(), opts, 20, 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !captured.MatchNone {
		t.Error("explicit empty favorites should compile to a match-nothing query")
	}
}

func TestPropertyService_ResidencesScopesToTenant(t *testing.T) {
	var captured query.PredicateSet
	repo := &mockPropertyRepo{
		searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
			captured = preds
			return nil, nil
		},
	}
	svc := usecases.NewPropertyService(repo, nil, nil)

	if _, err := svc.Residences(context.Background(), "tenant-42"); err != nil {
		t.Fatalf("Residences: %v", err)
	}
	if captured.LeaseTenantID != "tenant-42" {
		t.Errorf("lease tenant = %q, want tenant-42", captured.LeaseTenantID)
	}
	if !captured.Price.Empty() || captured.MinBeds != nil {
		t.Error("residences query must not carry search filters")
	}

	if _, err := svc.Residences(context.Background(), ""); err == nil {
		t.Error("expected error for empty tenant id")
	}
}

func TestPropertyService_CreateValidatesAndPublishes(t *testing.T) {
	created := false
	repo := &mockPropertyRepo{
		createFn: func(ctx context.Context, p *domain.Property) error {
			created = true
			p.ID = 11
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewPropertyService(repo, nil, pub)

	p := &domain.Property{
		Name:          "Canal House",
		PricePerMonth: 2400,
		PropertyType:  domain.PropertyTypeTownhouse,
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Fatal("repo Create not called")
	}
	if p.PostedAt.IsZero() {
		t.Error("PostedAt not defaulted")
	}
	if time.Since(p.PostedAt) > time.Minute {
		t.Errorf("PostedAt = %v, want ~now", p.PostedAt)
	}
	if len(pub.propertyCreated) != 1 || pub.propertyCreated[0].ID != 11 {
		t.Errorf("published = %v, want the created listing", pub.propertyCreated)
	}

	bad := &domain.Property{Name: "x", PricePerMonth: 100, PropertyType: "Castle"}
	if err := svc.Create(context.Background(), bad); err == nil {
		t.Error("expected error for unknown property type")
	}
	if err := svc.Create(context.Background(), &domain.Property{PricePerMonth: 100, PropertyType: domain.PropertyTypeRooms}); err == nil {
		t.Error("expected error for missing name")
	}
}

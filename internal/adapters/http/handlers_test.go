package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/rentloop/rentloop/internal/adapters/http"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/query"
	"github.com/rentloop/rentloop/internal/core/usecases"
)

// ---- Mock repositories ----

type mockPropertyRepo struct {
	searchFn  func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error)
	getByIDFn func(ctx context.Context, id int) (*domain.Property, error)
	createFn  func(ctx context.Context, p *domain.Property) error
}

func (m *mockPropertyRepo) Search(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, preds, limit, offset)
	}
	return nil, nil
}
func (m *mockPropertyRepo) GetByID(ctx context.Context, id int) (*domain.Property, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}
func (m *mockPropertyRepo) CreateBatch(ctx context.Context, props []domain.Property) error {
	return nil
}

type mockTenantRepo struct {
	getByIDFn     func(ctx context.Context, id string) (*domain.Tenant, error)
	addFavFn      func(ctx context.Context, tenantID string, propertyID int) error
	favoriteIDsFn func(ctx context.Context, tenantID string) ([]int, error)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Tenant{ID: id}, nil
}
func (m *mockTenantRepo) Upsert(ctx context.Context, t *domain.Tenant) error { return nil }
func (m *mockTenantRepo) AddFavorite(ctx context.Context, tenantID string, propertyID int) error {
	if m.addFavFn != nil {
		return m.addFavFn(ctx, tenantID, propertyID)
	}
	return nil
}
func (m *mockTenantRepo) RemoveFavorite(ctx context.Context, tenantID string, propertyID int) error {
	return nil
}
func (m *mockTenantRepo) FavoriteIDs(ctx context.Context, tenantID string) ([]int, error) {
	if m.favoriteIDsFn != nil {
		return m.favoriteIDsFn(ctx, tenantID)
	}
	return nil, nil
}

type mockLeaseRepo struct {
	listByPropertyFn func(ctx context.Context, propertyID int) ([]domain.Lease, error)
}

func (m *mockLeaseRepo) Create(ctx context.Context, l *domain.Lease) error { return nil }
func (m *mockLeaseRepo) GetByID(ctx context.Context, id int) (*domain.Lease, error) {
	return nil, nil
}
func (m *mockLeaseRepo) ListByProperty(ctx context.Context, propertyID int) ([]domain.Lease, error) {
	if m.listByPropertyFn != nil {
		return m.listByPropertyFn(ctx, propertyID)
	}
	return nil, nil
}
func (m *mockLeaseRepo) Void(ctx context.Context, id int) error { return nil }

type mockGeocoder struct {
	resolveFn func(ctx context.Context, text string) (domain.GeoPoint, bool, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, text)
	}
	return domain.GeoPoint{}, false, nil
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	props := &mockPropertyRepo{}
	d := &handler.Dependencies{
		Properties: usecases.NewPropertyService(props, nil, nil),
		Tenants:    usecases.NewTenantService(&mockTenantRepo{}, props),
		Leases:     usecases.NewLeaseService(&mockLeaseRepo{}, props, nil, nil),
		Geocoder:   &mockGeocoder{},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---- Search handler tests ----

func TestSearchProperties_ParamsBecomePredicates(t *testing.T) {
	var captured query.PredicateSet
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(&mockPropertyRepo{
			searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
				captured = preds
				return []domain.Property{{ID: 3, Name: "Lakeview Cottage"}}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET",
		"/v1/properties?priceRange=1000,3000&beds=2&baths=1&propertyType=Cottage&squareFeet=,1500&junk=42", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if captured.Price.Min == nil || *captured.Price.Min != 1000 {
		t.Errorf("price min = %v, want 1000", captured.Price.Min)
	}
	if captured.Price.Max == nil || *captured.Price.Max != 3000 {
		t.Errorf("price max = %v, want 3000", captured.Price.Max)
	}
	if captured.SquareFeet.Min != nil {
		t.Errorf("sqft min = %v, want nil for open lower bound", captured.SquareFeet.Min)
	}
	if captured.SquareFeet.Max == nil || *captured.SquareFeet.Max != 1500 {
		t.Errorf("sqft max = %v, want 1500", captured.SquareFeet.Max)
	}
	if captured.MinBeds == nil || *captured.MinBeds != 2 {
		t.Errorf("min beds = %v, want 2", captured.MinBeds)
	}
	if captured.MinBaths == nil || *captured.MinBaths != 1 {
		t.Errorf("min baths = %v, want 1", captured.MinBaths)
	}
	if captured.PropertyType != domain.PropertyTypeCottage {
		t.Errorf("property type = %q, want Cottage", captured.PropertyType)
	}

	var result struct {
		Data  []domain.Property `json:"data"`
		Query string            `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != 1 || result.Data[0].ID != 3 {
		t.Errorf("data = %v, want the repo's row", result.Data)
	}
	if result.Query == "" {
		t.Error("missing canonical query echo")
	}
}

func TestSearchProperties_MalformedParamsWiden(t *testing.T) {
	var captured query.PredicateSet
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(&mockPropertyRepo{
			searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
				captured = preds
				return nil, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/properties?priceRange=banana&beds=lots", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("malformed params must not fail the request, got %d", resp.StatusCode)
	}
	if !captured.Price.Empty() || captured.MinBeds != nil {
		t.Errorf("malformed params must widen, got %+v", captured)
	}
}

func TestSearchProperties_ExplicitEmptyFavorites(t *testing.T) {
	var captured query.PredicateSet
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(&mockPropertyRepo{
			searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
				captured = preds
				return nil, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/properties?favoriteIds=", nil)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}
	if !captured.MatchNone {
		t.Error("favoriteIds= (explicit empty) must compile to a match-nothing query")
	}

	req = httptest.NewRequest("GET", "/v1/properties", nil)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}
	if captured.MatchNone || captured.FavoriteIDs != nil {
		t.Error("absent favoriteIds must leave the query unconstrained")
	}
}

// ---- Property handler tests ----

func TestGetProperty(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(&mockPropertyRepo{
			getByIDFn: func(ctx context.Context, id int) (*domain.Property, error) {
				return &domain.Property{ID: id, Name: "Harbor Loft"}, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/properties/42", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var p domain.Property
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 42 || p.Name != "Harbor Loft" {
		t.Errorf("got %+v", p)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/properties/zero", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 for non-numeric id, got %d", resp.StatusCode)
	}
}

// ---- Caller-scoped handler tests ----

func TestResidences_RequiresIdentity(t *testing.T) {
	var captured query.PredicateSet
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(&mockPropertyRepo{
			searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
				captured = preds
				return nil, nil
			},
		}, nil, nil)
	})
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/me/residences", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without X-User-Id, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/v1/me/residences", nil)
	req.Header.Set("X-User-Id", "tenant-9")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if captured.LeaseTenantID != "tenant-9" {
		t.Errorf("lease tenant = %q, want tenant-9", captured.LeaseTenantID)
	}
}

func TestFavoriteProperties_ScopesToSavedIDs(t *testing.T) {
	var captured query.PredicateSet
	props := &mockPropertyRepo{
		searchFn: func(ctx context.Context, preds query.PredicateSet, limit, offset int) ([]domain.Property, error) {
			captured = preds
			return nil, nil
		},
	}
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Properties = usecases.NewPropertyService(props, nil, nil)
		d.Tenants = usecases.NewTenantService(&mockTenantRepo{
			favoriteIDsFn: func(ctx context.Context, tenantID string) ([]int, error) {
				return []int{4, 7}, nil
			},
		}, props)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/me/favorites", nil)
	req.Header.Set("X-User-Id", "tenant-1")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(captured.FavoriteIDs) != 2 || captured.FavoriteIDs[0] != 4 || captured.FavoriteIDs[1] != 7 {
		t.Errorf("favorite ids = %v, want [4 7]", captured.FavoriteIDs)
	}
}

// ---- Geocoding handler tests ----

func TestResolveLocation(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Geocoder = &mockGeocoder{
			resolveFn: func(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
				return domain.GeoPoint{Lat: 40.41, Lon: -3.7}, true, nil
			},
		}
	})
	app := setupApp(deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/locations/resolve?q=Madrid", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Matched bool    `json:"matched"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Matched || result.Lat != 40.41 {
		t.Errorf("got %+v", result)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/v1/locations/resolve", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 without q, got %d", resp.StatusCode)
	}
}

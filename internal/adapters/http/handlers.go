package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/query"
	"github.com/rentloop/rentloop/internal/pkg/metrics"
)

// userID extracts the authenticated tenant id set by the gateway.
func userID(c *fiber.Ctx) string {
	return c.Get("X-User-Id")
}

// SearchPropertiesHandler runs a filtered listing search. Every filter
// dimension arrives as a query parameter; unknown and malformed
// parameters never fail the request, they just widen it.
func SearchPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Queries()
		state := filter.Decode(params)
		opts := query.Options{
			Favorites:    filter.DecodeFavorites(params),
			RadiusMeters: deps.SearchRadius,
		}

		limit := c.QueryInt("limit", 50)
		offset := c.QueryInt("offset", 0)

		metrics.SearchesTotal.WithLabelValues("rest").Inc()
		LoggerFromCtx(c.UserContext()).Debug("listing search",
			"query", filter.EncodeQuery(state), "favorites", opts.Favorites.Supplied)

		props, err := deps.Properties.Search(c.Context(), state, opts, limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"data":  props,
			"query": filter.EncodeQuery(state),
		})
	}
}

// GetPropertyHandler returns a single listing.
func GetPropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return errBadRequest(c, "invalid property id")
		}

		p, err := deps.Properties.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "property not found")
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(p)
	}
}

// createPropertyRequest is the POST /v1/properties body.
type createPropertyRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	PricePerMonth   int     `json:"pricePerMonth"`
	SecurityDeposit int     `json:"securityDeposit"`
	Beds            int     `json:"beds"`
	Baths           float64 `json:"baths"`
	SquareFeet      int     `json:"squareFeet"`
	PropertyType    string  `json:"propertyType"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Address         string  `json:"address"`
	City            string  `json:"city"`
}

// CreatePropertyHandler posts a new listing for the calling manager.
func CreatePropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		manager := userID(c)
		if manager == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}

		var req createPropertyRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		p := &domain.Property{
			Name:            req.Name,
			Description:     req.Description,
			PricePerMonth:   req.PricePerMonth,
			SecurityDeposit: req.SecurityDeposit,
			Beds:            req.Beds,
			Baths:           req.Baths,
			SquareFeet:      req.SquareFeet,
			PropertyType:    req.PropertyType,
			Location:        domain.GeoPoint{Lat: req.Lat, Lon: req.Lon},
			Address:         req.Address,
			City:            req.City,
			ManagerID:       manager,
		}
		if err := deps.Properties.Create(c.Context(), p); err != nil {
			return errBadRequest(c, err.Error())
		}
		metrics.PropertiesCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PropertyLeasesHandler lists the leases on a listing.
func PropertyLeasesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return errBadRequest(c, "invalid property id")
		}
		leases, err := deps.Leases.ListByProperty(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(leases)
	}
}

// signLeaseRequest is the POST /v1/properties/:id/leases body.
type signLeaseRequest struct {
	StartDate string `json:"startDate"` // RFC 3339 date or timestamp
	EndDate   string `json:"endDate"`
}

// SignLeaseHandler signs a lease on a listing for the calling tenant.
func SignLeaseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return errBadRequest(c, "invalid property id")
		}

		var req signLeaseRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			return errBadRequest(c, "invalid startDate")
		}
		end, err := parseDate(req.EndDate)
		if err != nil {
			return errBadRequest(c, "invalid endDate")
		}

		lease, err := deps.Leases.SignLease(c.Context(), id, tenant, start, end)
		if err != nil {
			return errConflict(c, err.Error())
		}
		metrics.LeasesSigned.Inc()
		return c.Status(fiber.StatusCreated).JSON(lease)
	}
}

// GetTenantHandler returns the calling tenant's profile with favorites.
func GetTenantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		t, err := deps.Tenants.GetByID(c.Context(), tenant)
		if err != nil {
			return errNotFound(c, "tenant not found")
		}
		return c.JSON(t)
	}
}

// AddFavoriteHandler marks a listing as a favorite.
func AddFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return errBadRequest(c, "invalid property id")
		}
		if err := deps.Tenants.AddFavorite(c.Context(), tenant, id); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RemoveFavoriteHandler unmarks a favorite.
func RemoveFavoriteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return errBadRequest(c, "invalid property id")
		}
		if err := deps.Tenants.RemoveFavorite(c.Context(), tenant, id); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FavoritePropertiesHandler returns the caller's favorite listings.
func FavoritePropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		ids, err := deps.Tenants.FavoriteIDs(c.Context(), tenant)
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		opts := query.Options{Favorites: filter.FavoriteSelection{IDs: ids, Supplied: true}}
		props, err := deps.Properties.Search(c.Context(), filter.Default(), opts, limit, offset)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: len(ids)}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: props, Pagination: pg})
	}
}

// ResidencesHandler returns the listings the caller currently leases.
func ResidencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant := userID(c)
		if tenant == "" {
			return errUnauthorized(c, "X-User-Id header is required")
		}
		props, err := deps.Properties.Residences(c.Context(), tenant)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(props)
	}
}

// ResolveLocationHandler geocodes free text. It makes one attempt and
// reports matched=false rather than erroring when nothing is found.
func ResolveLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		text := c.Query("q")
		if text == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(text) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		pt, matched, err := deps.Geocoder.Resolve(c.Context(), text)
		if err != nil {
			metrics.GeocodeRequests.WithLabelValues("error").Inc()
			return errInternal(c, err.Error())
		}
		if !matched {
			metrics.GeocodeRequests.WithLabelValues("unmatched").Inc()
			return c.JSON(fiber.Map{"matched": false})
		}
		metrics.GeocodeRequests.WithLabelValues("matched").Inc()
		return c.JSON(fiber.Map{"matched": true, "lat": pt.Lat, "lon": pt.Lon})
	}
}

// MarketStats holds row counts from the marketplace tables.
type MarketStats struct {
	Properties int    `json:"properties"`
	Tenants    int    `json:"tenants"`
	Leases     int    `json:"leases"`
	Favorites  int    `json:"favorites"`
	LastPosted string `json:"last_posted,omitempty"`
}

// MarketStatsHandler returns row counts from the marketplace tables.
func MarketStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats MarketStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM properties),
				(SELECT count(*) FROM tenants),
				(SELECT count(*) FROM leases),
				(SELECT count(*) FROM favorites),
				COALESCE((SELECT max(posted_at)::text FROM properties), '')
		`)
		if err := row.Scan(&stats.Properties, &stats.Tenants, &stats.Leases,
			&stats.Favorites, &stats.LastPosted); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

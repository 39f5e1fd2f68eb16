// Package query compiles decoded filter state into the predicate set
// executed by the property store.
package query

import (
	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/pkg/geospatial"
)

// DefaultRadiusMeters is the implicit search radius around a resolved
// location anchor.
const DefaultRadiusMeters = 8000

// Range is an optional closed numeric interval. Nil bounds are open.
type Range struct {
	Min *int
	Max *int
}

// Empty reports whether neither bound is set.
func (r Range) Empty() bool { return r.Min == nil && r.Max == nil }

// PredicateSet is the compiled, conjunctive restriction handed to the
// executor. Zero-value fields impose no restriction; MatchNone forces
// an empty result regardless of the rest.
type PredicateSet struct {
	Price        Range
	SquareFeet   Range
	MinBeds      *int
	MinBaths     *int
	PropertyType string

	// Geo anchor. When Anchor is non-nil the executor restricts results
	// to RadiusMeters around it; Bounds carries the equivalent bounding
	// box for executors without native geo distance.
	Anchor       *domain.GeoPoint
	RadiusMeters float64
	Bounds       *domain.Bounds

	// FavoriteIDs restricts to the listed property IDs. MatchNone marks
	// an explicitly empty favorites selection: the query must return
	// zero rows, not fall back to unconstrained.
	FavoriteIDs []int
	MatchNone   bool

	// LeaseTenantID, when set, joins against the lease relation and
	// keeps only properties with a lease active for that tenant.
	LeaseTenantID string
}

// Options carries the per-request inputs that are not part of the
// filter state itself.
type Options struct {
	Favorites     filter.FavoriteSelection
	LeaseTenantID string
	RadiusMeters  float64
}

// Compile translates a filter state plus request options into a
// predicate set. It never fails: unknown property types and absent
// dimensions compile to no restriction, matching the permissive
// decode contract.
func Compile(s filter.State, opts Options) PredicateSet {
	ps := PredicateSet{
		Price:         Range{Min: s.PriceRange[0], Max: s.PriceRange[1]},
		SquareFeet:    Range{Min: s.SquareFeet[0], Max: s.SquareFeet[1]},
		MinBeds:       s.Beds,
		MinBaths:      s.Baths,
		LeaseTenantID: opts.LeaseTenantID,
	}

	if domain.ValidPropertyType(s.PropertyType) {
		ps.PropertyType = s.PropertyType
	}

	if !s.Coordinates.IsZero() {
		anchor := s.Coordinates
		radius := opts.RadiusMeters
		if radius <= 0 {
			radius = DefaultRadiusMeters
		}
		minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(anchor.Lat, anchor.Lon, radius)
		ps.Anchor = &anchor
		ps.RadiusMeters = radius
		ps.Bounds = &domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}
	}

	if opts.Favorites.Supplied {
		if len(opts.Favorites.IDs) == 0 {
			ps.MatchNone = true
		} else {
			ps.FavoriteIDs = opts.Favorites.IDs
		}
	}

	return ps
}

// Matches evaluates the predicate set against a single property in
// memory. The SQL executor is authoritative; this is used for
// re-checking relayed listings against a live filter session.
func (ps PredicateSet) Matches(p *domain.Property) bool {
	if ps.MatchNone {
		return false
	}
	if ps.Price.Min != nil && p.PricePerMonth < *ps.Price.Min {
		return false
	}
	if ps.Price.Max != nil && p.PricePerMonth > *ps.Price.Max {
		return false
	}
	if ps.SquareFeet.Min != nil && p.SquareFeet < *ps.SquareFeet.Min {
		return false
	}
	if ps.SquareFeet.Max != nil && p.SquareFeet > *ps.SquareFeet.Max {
		return false
	}
	if ps.MinBeds != nil && p.Beds < *ps.MinBeds {
		return false
	}
	if ps.MinBaths != nil && p.Baths < float64(*ps.MinBaths) {
		return false
	}
	if ps.PropertyType != "" && p.PropertyType != ps.PropertyType {
		return false
	}
	if ps.Anchor != nil {
		// Bounding box first, exact distance only inside it.
		if ps.Bounds != nil && !ps.Bounds.Contains(p.Location) {
			return false
		}
		d := geospatial.Haversine(ps.Anchor.Lat, ps.Anchor.Lon, p.Location.Lat, p.Location.Lon)
		if d > ps.RadiusMeters {
			return false
		}
	}
	if ps.FavoriteIDs != nil {
		found := false
		for _, id := range ps.FavoriteIDs {
			if id == p.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

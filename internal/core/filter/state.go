// Package filter holds the canonical search-filter state and its
// query-parameter codec. The package is pure: no I/O, no clocks.
package filter

import (
	"github.com/rentloop/rentloop/internal/core/domain"
)

// ViewMode selects the presentation of search results. It is never a
// query predicate.
type ViewMode string

const (
	ViewModeList ViewMode = "list"
	ViewModeGrid ViewMode = "grid"
)

// State is the in-memory representation of every active filter
// dimension for one search session. Every field has an "unconstrained"
// value: "" for strings, nil for numeric bounds, the zero GeoPoint for
// coordinates. Unconstrained fields are omitted when serialized.
type State struct {
	// Location is the free-text location the user typed. Display only.
	Location string

	// Coordinates anchors the geo-bounded search. Zero means no anchor.
	Coordinates domain.GeoPoint

	// PriceRange is [min, max] monthly rent. Nil slots are unset.
	// If both are set the engine assumes min <= max but does not reorder.
	PriceRange [2]*int

	// SquareFeet is [min, max] living area. Same shape as PriceRange.
	SquareFeet [2]*int

	// Beds and Baths are inclusive lower bounds. Nil means any.
	Beds  *int
	Baths *int

	// PropertyType is one of domain.PropertyTypes, or "" for any.
	PropertyType string

	// Presentation-only fields. Not part of the serialized form.
	ViewMode        ViewMode
	FiltersFullOpen bool
}

// Default returns a fully unconstrained filter state.
func Default() State {
	return State{ViewMode: ViewModeGrid}
}

// Unconstrained reports whether no query-relevant dimension is set.
func (s State) Unconstrained() bool {
	return s.Location == "" &&
		s.Coordinates.IsZero() &&
		s.PriceRange[0] == nil && s.PriceRange[1] == nil &&
		s.SquareFeet[0] == nil && s.SquareFeet[1] == nil &&
		s.Beds == nil && s.Baths == nil &&
		s.PropertyType == ""
}

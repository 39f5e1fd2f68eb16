package usecases

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/ports"
	"github.com/rentloop/rentloop/internal/pkg/debounce"
)

// Bound selects which element of a paired dimension an edit targets.
type Bound int

const (
	BoundNone Bound = iota
	BoundMin
	BoundMax
)

// ParseBound maps the wire literals "min"/"max" to a Bound.
func ParseBound(s string) Bound {
	switch strings.ToLower(s) {
	case "min":
		return BoundMin
	case "max":
		return BoundMax
	default:
		return BoundNone
	}
}

// FilterSession owns one FilterState for an interactive search.
// Edits mutate the state synchronously; the canonical query string is
// pushed to the sink after a quiescence window, coalescing bursts into
// a single sync carrying the latest state. Sessions are not shared
// between goroutines by callers, but the debounce timer fires
// concurrently, so state access is locked.
type FilterSession struct {
	mu       sync.Mutex
	state    filter.State
	sync     *debounce.Debouncer
	sink     ports.FilterSink
	geocoder ports.Geocoder
}

// NewFilterSession creates a session around an initial state. window
// is the URL-sync quiescence window; keep it sub-second so the URL
// feels live.
func NewFilterSession(initial filter.State, sink ports.FilterSink, geocoder ports.Geocoder, window time.Duration) *FilterSession {
	return &FilterSession{
		state:    initial,
		sync:     debounce.New(window),
		sink:     sink,
		geocoder: geocoder,
	}
}

// State returns a snapshot of the current filter state.
func (s *FilterSession) State() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ApplyEdit applies one user edit to the named dimension and schedules
// a sync. For priceRange and squareFeet the bound selects which slot
// changes; "any" clears only that slot. Coordinates are replaced
// atomically. Unknown dimensions are ignored.
func (s *FilterSession) ApplyEdit(dimension, raw string, bound Bound) {
	s.mu.Lock()
	switch dimension {
	case filter.KeyPriceRange:
		applyBound(&s.state.PriceRange, raw, bound)
	case filter.KeySquareFeet:
		applyBound(&s.state.SquareFeet, raw, bound)
	case filter.KeyCoordinates:
		s.state.Coordinates = parseCoordinates(raw)
	case filter.KeyBeds:
		s.state.Beds = parsePositive(raw)
	case filter.KeyBaths:
		s.state.Baths = parsePositive(raw)
	case filter.KeyPropertyType:
		if raw == filter.Any {
			s.state.PropertyType = ""
		} else {
			s.state.PropertyType = raw
		}
	case filter.KeyLocation:
		s.state.Location = raw
	case "viewMode":
		if raw == string(filter.ViewModeList) || raw == string(filter.ViewModeGrid) {
			s.state.ViewMode = filter.ViewMode(raw)
		}
	case "filtersFullOpen":
		s.state.FiltersFullOpen = raw == "true"
	}
	s.mu.Unlock()

	s.scheduleSync()
}

// SearchLocation resolves free text through the geocoder and, on a
// match, sets location and coordinates together. Failure of any kind
// is logged and leaves the state untouched; it never propagates.
func (s *FilterSession) SearchLocation(ctx context.Context, text string) {
	if text == "" {
		return
	}

	point, matched, err := s.geocoder.Resolve(ctx, text)
	if err != nil {
		slog.Warn("location search failed", "query", text, "error", err)
		return
	}
	if !matched {
		slog.Debug("location search had no candidates", "query", text)
		return
	}

	s.mu.Lock()
	s.state.Location = text
	s.state.Coordinates = point
	s.mu.Unlock()

	s.scheduleSync()
}

// Close cancels any pending sync. A sync scheduled before Close never
// fires after it.
func (s *FilterSession) Close() {
	s.sync.Stop()
}

func (s *FilterSession) scheduleSync() {
	s.sync.Schedule(func() {
		s.mu.Lock()
		q := filter.EncodeQuery(s.state)
		s.mu.Unlock()
		s.sink.Push(q)
	})
}

func applyBound(pair *[2]*int, raw string, bound Bound) {
	var idx int
	switch bound {
	case BoundMin:
		idx = 0
	case BoundMax:
		idx = 1
	default:
		return
	}
	pair[idx] = parseThreshold(raw)
}

func parseThreshold(raw string) *int {
	if raw == filter.Any {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func parsePositive(raw string) *int {
	n := parseThreshold(raw)
	if n != nil && *n == 0 {
		return nil
	}
	return n
}

func parseCoordinates(raw string) domain.GeoPoint {
	if raw == filter.Any {
		return domain.GeoPoint{}
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return domain.GeoPoint{}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.GeoPoint{}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.GeoPoint{}
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}
}

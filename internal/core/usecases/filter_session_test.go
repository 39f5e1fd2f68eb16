package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
	"github.com/rentloop/rentloop/internal/core/usecases"
)

// --- Mock sink and geocoder ---

type mockSink struct {
	mu     sync.Mutex
	pushes []string
}

func (m *mockSink) Push(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes = append(m.pushes, query)
}

func (m *mockSink) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.pushes...)
}

type mockGeocoder struct {
	resolveFn func(ctx context.Context, text string) (domain.GeoPoint, bool, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, text)
	}
	return domain.GeoPoint{}, false, nil
}

// --- Tests ---

func TestFilterSession_CoalescesRapidEdits(t *testing.T) {
	sink := &mockSink{}
	sess := usecases.NewFilterSession(filter.Default(), sink, &mockGeocoder{}, 40*time.Millisecond)
	defer sess.Close()

	sess.ApplyEdit("beds", "1", usecases.BoundNone)
	sess.ApplyEdit("beds", "2", usecases.BoundNone)
	sess.ApplyEdit("priceRange", "1000", usecases.BoundMin)
	sess.ApplyEdit("priceRange", "3000", usecases.BoundMax)

	time.Sleep(200 * time.Millisecond)

	pushes := sink.all()
	if len(pushes) != 1 {
		t.Fatalf("got %d syncs, want exactly 1 (coalesced): %v", len(pushes), pushes)
	}

	got := filter.DecodeQuery(pushes[0])
	if got.Beds == nil || *got.Beds != 2 {
		t.Errorf("synced beds = %v, want final value 2", got.Beds)
	}
	if got.PriceRange[0] == nil || *got.PriceRange[0] != 1000 ||
		got.PriceRange[1] == nil || *got.PriceRange[1] != 3000 {
		t.Errorf("synced priceRange = %v, want [1000 3000]", got.PriceRange)
	}
}

func TestFilterSession_EditIsImmediatelyVisible(t *testing.T) {
	sess := usecases.NewFilterSession(filter.Default(), &mockSink{}, &mockGeocoder{}, time.Second)
	defer sess.Close()

	sess.ApplyEdit("propertyType", domain.PropertyTypeVilla, usecases.BoundNone)

	// State reflects the edit before any sync fires.
	if got := sess.State().PropertyType; got != domain.PropertyTypeVilla {
		t.Fatalf("state.PropertyType = %q, want %q", got, domain.PropertyTypeVilla)
	}
}

func TestFilterSession_BoundTargetedEdit(t *testing.T) {
	sess := usecases.NewFilterSession(filter.Default(), &mockSink{}, &mockGeocoder{}, time.Second)
	defer sess.Close()

	sess.ApplyEdit("priceRange", "1000", usecases.BoundMin)
	sess.ApplyEdit("priceRange", "3000", usecases.BoundMax)

	st := sess.State()
	if st.PriceRange[0] == nil || *st.PriceRange[0] != 1000 {
		t.Fatalf("min = %v, want 1000", st.PriceRange[0])
	}

	// Editing min must leave max untouched.
	sess.ApplyEdit("priceRange", "1500", usecases.BoundMin)
	st = sess.State()
	if st.PriceRange[1] == nil || *st.PriceRange[1] != 3000 {
		t.Fatalf("max = %v after min edit, want untouched 3000", st.PriceRange[1])
	}

	// "any" resets only the targeted bound.
	sess.ApplyEdit("priceRange", "any", usecases.BoundMin)
	st = sess.State()
	if st.PriceRange[0] != nil {
		t.Errorf("min = %v after \"any\", want nil", st.PriceRange[0])
	}
	if st.PriceRange[1] == nil || *st.PriceRange[1] != 3000 {
		t.Errorf("max = %v after min reset, want 3000", st.PriceRange[1])
	}
}

func TestFilterSession_SearchLocationSuccess(t *testing.T) {
	geo := &mockGeocoder{
		resolveFn: func(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
			return domain.GeoPoint{Lat: 34.05, Lon: -118.25}, true, nil
		},
	}
	sess := usecases.NewFilterSession(filter.Default(), &mockSink{}, geo, time.Second)
	defer sess.Close()

	sess.SearchLocation(context.Background(), "Los Angeles")

	st := sess.State()
	if st.Location != "Los Angeles" {
		t.Errorf("location = %q, want Los Angeles", st.Location)
	}
	if st.Coordinates.Lat != 34.05 || st.Coordinates.Lon != -118.25 {
		t.Errorf("coordinates = %v, want resolved point", st.Coordinates)
	}
}

func TestFilterSession_SearchLocationFailureIsNoOp(t *testing.T) {
	prior := filter.Default()
	prior.Location = "Seattle"
	prior.Coordinates = domain.GeoPoint{Lat: 47.6, Lon: -122.3}

	cases := []struct {
		name string
		fn   func(ctx context.Context, text string) (domain.GeoPoint, bool, error)
	}{
		{"transport error", func(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
			return domain.GeoPoint{}, false, fmt.Errorf("dial timeout")
		}},
		{"zero results", func(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
			return domain.GeoPoint{}, false, nil
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sess := usecases.NewFilterSession(prior, &mockSink{}, &mockGeocoder{resolveFn: c.fn}, time.Second)
			defer sess.Close()

			sess.SearchLocation(context.Background(), "nowhere")

			st := sess.State()
			if st.Location != "Seattle" || st.Coordinates != prior.Coordinates {
				t.Fatalf("state changed on geocode failure: %+v", st)
			}
		})
	}
}

func TestFilterSession_ClosedSessionNeverSyncs(t *testing.T) {
	sink := &mockSink{}
	sess := usecases.NewFilterSession(filter.Default(), sink, &mockGeocoder{}, 30*time.Millisecond)

	sess.ApplyEdit("beds", "3", usecases.BoundNone)
	sess.Close()

	time.Sleep(150 * time.Millisecond)
	if got := sink.all(); len(got) != 0 {
		t.Fatalf("pending sync fired after Close: %v", got)
	}
}

func TestFilterSession_CoordinatesAtomicReplace(t *testing.T) {
	sess := usecases.NewFilterSession(filter.Default(), &mockSink{}, &mockGeocoder{}, time.Second)
	defer sess.Close()

	sess.ApplyEdit("coordinates", "-118.25,34.05", usecases.BoundNone)
	if got := sess.State().Coordinates; got.Lon != -118.25 || got.Lat != 34.05 {
		t.Fatalf("coordinates = %v, want (-118.25, 34.05)", got)
	}

	sess.ApplyEdit("coordinates", "any", usecases.BoundNone)
	if got := sess.State().Coordinates; !got.IsZero() {
		t.Fatalf("coordinates = %v after \"any\", want zero", got)
	}
}

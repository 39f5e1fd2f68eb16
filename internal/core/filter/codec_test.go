package filter_test

import (
	"testing"

	"github.com/rentloop/rentloop/internal/core/domain"
	"github.com/rentloop/rentloop/internal/core/filter"
)

func intp(n int) *int { return &n }

func TestEncode_CleanParams(t *testing.T) {
	s := filter.Default()
	params := filter.Encode(s)
	if len(params) != 0 {
		t.Fatalf("unconstrained state must encode to no params, got %v", params)
	}

	s.PriceRange = [2]*int{intp(1000), intp(3000)}
	s.Beds = intp(2)
	params = filter.Encode(s)
	if params["priceRange"] != "1000,3000" {
		t.Errorf("priceRange = %q, want 1000,3000", params["priceRange"])
	}
	if params["beds"] != "2" {
		t.Errorf("beds = %q, want 2", params["beds"])
	}
	if _, ok := params["propertyType"]; ok {
		t.Error("unconstrained propertyType must be omitted")
	}
	if _, ok := params["squareFeet"]; ok {
		t.Error("unconstrained squareFeet must be omitted")
	}
}

func TestEncode_HalfOpenPair(t *testing.T) {
	s := filter.Default()
	s.PriceRange = [2]*int{intp(1000), nil}
	if got := filter.Encode(s)["priceRange"]; got != "1000," {
		t.Errorf("min-only pair = %q, want %q", got, "1000,")
	}

	s.PriceRange = [2]*int{nil, intp(3000)}
	if got := filter.Encode(s)["priceRange"]; got != ",3000" {
		t.Errorf("max-only pair = %q, want %q", got, ",3000")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	s := filter.Default()
	s.Location = "Los Angeles"
	s.Coordinates = domain.GeoPoint{Lat: 34.05, Lon: -118.25}
	s.PriceRange = [2]*int{intp(1000), nil}
	s.SquareFeet = [2]*int{nil, intp(2000)}
	s.Baths = intp(2)
	s.PropertyType = domain.PropertyTypeVilla

	got := filter.Decode(filter.Encode(s))

	if got.Location != s.Location {
		t.Errorf("location = %q, want %q", got.Location, s.Location)
	}
	if got.Coordinates != s.Coordinates {
		t.Errorf("coordinates = %v, want %v", got.Coordinates, s.Coordinates)
	}
	if got.PriceRange[0] == nil || *got.PriceRange[0] != 1000 || got.PriceRange[1] != nil {
		t.Errorf("priceRange = %v, want [1000, nil]", got.PriceRange)
	}
	if got.SquareFeet[0] != nil || got.SquareFeet[1] == nil || *got.SquareFeet[1] != 2000 {
		t.Errorf("squareFeet = %v, want [nil, 2000]", got.SquareFeet)
	}
	if got.Beds != nil {
		t.Errorf("beds = %v, want nil", got.Beds)
	}
	if got.Baths == nil || *got.Baths != 2 {
		t.Errorf("baths = %v, want 2", got.Baths)
	}
	if got.PropertyType != domain.PropertyTypeVilla {
		t.Errorf("propertyType = %q, want %q", got.PropertyType, domain.PropertyTypeVilla)
	}
}

func TestDecode_UnknownKeysIgnored(t *testing.T) {
	base := map[string]string{"beds": "2"}
	withNoise := map[string]string{"beds": "2", "utm_source": "mail", "page": "3"}

	a := filter.Decode(base)
	b := filter.Decode(withNoise)
	if a.Beds == nil || b.Beds == nil || *a.Beds != *b.Beds {
		t.Fatalf("decode with unknown keys diverged: %v vs %v", a, b)
	}
	if !a.Coordinates.IsZero() || !b.Coordinates.IsZero() {
		t.Error("unrelated dimensions must stay unconstrained")
	}
}

func TestDecode_MalformedDegradesToUnconstrained(t *testing.T) {
	s := filter.Decode(map[string]string{
		"coordinates": "not,numbers",
		"priceRange":  "abc,xyz",
		"beds":        "two",
		"baths":       "-1",
	})
	if !s.Coordinates.IsZero() {
		t.Errorf("malformed coordinates = %v, want zero", s.Coordinates)
	}
	if s.PriceRange[0] != nil || s.PriceRange[1] != nil {
		t.Errorf("malformed priceRange = %v, want unset", s.PriceRange)
	}
	if s.Beds != nil {
		t.Errorf("malformed beds = %v, want nil", s.Beds)
	}
	if s.Baths != nil {
		t.Errorf("negative baths = %v, want nil", s.Baths)
	}
}

func TestDecode_AnySentinel(t *testing.T) {
	s := filter.Decode(map[string]string{
		"beds":         "any",
		"baths":        "any",
		"propertyType": "any",
	})
	if s.Beds != nil || s.Baths != nil || s.PropertyType != "" {
		t.Fatalf("\"any\" must decode to unconstrained, got %+v", s)
	}
}

func TestEncodeQuery_Canonical(t *testing.T) {
	s := filter.Default()
	s.Beds = intp(3)
	s.PriceRange = [2]*int{intp(500), intp(1500)}

	q1 := filter.EncodeQuery(s)
	q2 := filter.EncodeQuery(s)
	if q1 != q2 {
		t.Fatalf("canonical query unstable: %q vs %q", q1, q2)
	}
	if got := filter.DecodeQuery(q1); got.Beds == nil || *got.Beds != 3 {
		t.Errorf("DecodeQuery(%q).Beds = %v, want 3", q1, got.Beds)
	}
}

func TestDecodeFavorites(t *testing.T) {
	none := filter.DecodeFavorites(map[string]string{})
	if none.Supplied {
		t.Error("absent favoriteIds must not read as supplied")
	}

	empty := filter.DecodeFavorites(map[string]string{"favoriteIds": ""})
	if !empty.Supplied || len(empty.IDs) != 0 {
		t.Errorf("explicit empty selection = %+v, want supplied with no IDs", empty)
	}

	some := filter.DecodeFavorites(map[string]string{"favoriteIds": "4,7,oops,12"})
	if !some.Supplied {
		t.Error("selection must read as supplied")
	}
	if len(some.IDs) != 3 || some.IDs[0] != 4 || some.IDs[1] != 7 || some.IDs[2] != 12 {
		t.Errorf("IDs = %v, want [4 7 12]", some.IDs)
	}
}

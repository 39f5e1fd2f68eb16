package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rentloop/rentloop/internal/core/domain"
)

// Any is the wire literal meaning "no constraint" for scalar dimensions.
const Any = "any"

// Serialized parameter keys. This set is the external URL contract;
// decode ignores everything else.
const (
	KeyLocation     = "location"
	KeyCoordinates  = "coordinates"
	KeyPriceRange   = "priceRange"
	KeySquareFeet   = "squareFeet"
	KeyBeds         = "beds"
	KeyBaths        = "baths"
	KeyPropertyType = "propertyType"
	KeyFavoriteIDs  = "favoriteIds"
)

// FavoriteSelection is the decoded favoriteIds dimension. Supplied
// distinguishes an explicitly empty selection (match nothing) from an
// absent one (no restriction).
type FavoriteSelection struct {
	IDs      []int
	Supplied bool
}

// Encode serializes a state to flat query parameters, omitting every
// dimension that carries its unconstrained value ("clean params").
// A numeric pair is emitted when at least one bound is set; the unset
// bound becomes an empty slot, e.g. "1000,".
func Encode(s State) map[string]string {
	params := make(map[string]string)

	if s.Location != "" {
		params[KeyLocation] = s.Location
	}
	if !s.Coordinates.IsZero() {
		params[KeyCoordinates] = formatFloat(s.Coordinates.Lon) + "," + formatFloat(s.Coordinates.Lat)
	}
	if v, ok := encodePair(s.PriceRange); ok {
		params[KeyPriceRange] = v
	}
	if v, ok := encodePair(s.SquareFeet); ok {
		params[KeySquareFeet] = v
	}
	if s.Beds != nil {
		params[KeyBeds] = strconv.Itoa(*s.Beds)
	}
	if s.Baths != nil {
		params[KeyBaths] = strconv.Itoa(*s.Baths)
	}
	if s.PropertyType != "" {
		params[KeyPropertyType] = s.PropertyType
	}
	return params
}

// EncodeQuery returns the canonical URL query string for a state.
// Keys are sorted, so equal states always produce equal strings.
func EncodeQuery(s State) string {
	values := url.Values{}
	for k, v := range Encode(s) {
		values.Set(k, v)
	}
	return values.Encode()
}

// Decode reconstructs a state from flat query parameters. Decoding is
// permissive: malformed values degrade to the unconstrained value for
// that dimension, unknown keys are ignored, and missing keys leave the
// field at its default. Decode never fails.
func Decode(params map[string]string) State {
	s := Default()

	if v, ok := params[KeyLocation]; ok && v != Any {
		s.Location = v
	}
	if v, ok := params[KeyCoordinates]; ok {
		s.Coordinates = decodeCoordinates(v)
	}
	if v, ok := params[KeyPriceRange]; ok {
		s.PriceRange = decodePair(v)
	}
	if v, ok := params[KeySquareFeet]; ok {
		s.SquareFeet = decodePair(v)
	}
	if v, ok := params[KeyBeds]; ok {
		s.Beds = decodeThreshold(v)
	}
	if v, ok := params[KeyBaths]; ok {
		s.Baths = decodeThreshold(v)
	}
	if v, ok := params[KeyPropertyType]; ok && v != Any {
		s.PropertyType = v
	}
	return s
}

// DecodeQuery is Decode over a raw URL query string. A string that
// does not parse decodes to the default state.
func DecodeQuery(query string) State {
	values, err := url.ParseQuery(query)
	if err != nil {
		return Default()
	}
	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}
	return Decode(params)
}

// DecodeFavorites extracts the favoriteIds dimension. Non-numeric
// entries are skipped; presence of the key alone marks the selection
// as supplied.
func DecodeFavorites(params map[string]string) FavoriteSelection {
	v, ok := params[KeyFavoriteIDs]
	if !ok {
		return FavoriteSelection{}
	}
	sel := FavoriteSelection{Supplied: true}
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		sel.IDs = append(sel.IDs, id)
	}
	return sel
}

func encodePair(pair [2]*int) (string, bool) {
	if pair[0] == nil && pair[1] == nil {
		return "", false
	}
	var b strings.Builder
	if pair[0] != nil {
		b.WriteString(strconv.Itoa(*pair[0]))
	}
	b.WriteByte(',')
	if pair[1] != nil {
		b.WriteString(strconv.Itoa(*pair[1]))
	}
	return b.String(), true
}

func decodePair(v string) [2]*int {
	var pair [2]*int
	parts := strings.Split(v, ",")
	for i := 0; i < 2 && i < len(parts); i++ {
		slot := strings.TrimSpace(parts[i])
		if slot == "" || slot == Any {
			continue
		}
		n, err := strconv.Atoi(slot)
		if err != nil || n < 0 {
			continue
		}
		pair[i] = &n
	}
	return pair
}

func decodeThreshold(v string) *int {
	if v == Any {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil
	}
	return &n
}

// decodeCoordinates parses "lon,lat". Anything malformed degrades to
// the zero point, which reads as "no anchor".
func decodeCoordinates(v string) domain.GeoPoint {
	parts := strings.Split(v, ",")
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

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

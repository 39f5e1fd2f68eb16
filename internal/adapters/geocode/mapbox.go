package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rentloop/rentloop/internal/core/domain"
)

// Mapbox implements ports.Geocoder against the Mapbox forward
// geocoding API. Each Resolve call is a single request; there is no
// retry and no fallback candidate.
type Mapbox struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewMapbox creates a geocoder. endpoint is the places API base, e.g.
// "https://api.mapbox.com/geocoding/v5/mapbox.places".
func NewMapbox(endpoint, token string, timeout time.Duration) *Mapbox {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Mapbox{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

type featureCollection struct {
	Features []struct {
		Center [2]float64 `json:"center"` // [lon, lat]
	} `json:"features"`
}

// Resolve geocodes free text to a point. matched is false when the
// service returned no candidates.
func (m *Mapbox) Resolve(ctx context.Context, text string) (domain.GeoPoint, bool, error) {
	if text == "" {
		return domain.GeoPoint{}, false, nil
	}

	u := fmt.Sprintf("%s/%s.json?access_token=%s&fuzzyMatch=true&limit=1",
		m.endpoint, url.PathEscape(text), url.QueryEscape(m.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.GeoPoint{}, false, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return domain.GeoPoint{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeoPoint{}, false, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return domain.GeoPoint{}, false, fmt.Errorf("geocode decode: %w", err)
	}
	if len(fc.Features) == 0 {
		return domain.GeoPoint{}, false, nil
	}

	c := fc.Features[0].Center
	return domain.GeoPoint{Lat: c[1], Lon: c[0]}, true, nil
}

package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"emergency-call-analysis/internal/models"
	"emergency-call-analysis/internal/observability/metrics"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder enriches free-text locations with coordinates via the
// Google Maps Geocoding API. Enrichment is strictly best-effort: every
// failure mode (missing key, timeout, HTTP error, zero results) yields
// nil so callers never block dispatch on geocoding.
type Geocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

// NewGeocoder creates a geocoder. An empty apiKey disables lookups.
func NewGeocoder(apiKey string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		apiKey:  apiKey,
		baseURL: defaultGeocodeURL,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics.DefaultMetrics,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves the address to a point, or nil when it cannot.
func (g *Geocoder) Geocode(ctx context.Context, address string) *models.GeoPoint {
	if g == nil || g.apiKey == "" || address == "" {
		return nil
	}

	start := time.Now()
	point, err := g.geocode(ctx, address)
	g.metrics.RecordGeocode(point != nil, time.Since(start).Seconds())
	if err != nil {
		log.Debug().Err(err).Str("address", address).Msg("geocode failed")
		return nil
	}
	return point
}

func (g *Geocoder) geocode(ctx context.Context, address string) (*models.GeoPoint, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocode http %d: %s", resp.StatusCode, string(body))
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return nil, fmt.Errorf("geocode status %s", out.Status)
	}

	best := out.Results[0]
	confidence := 0.7
	if best.Geometry.LocationType == "ROOFTOP" {
		confidence = 0.9
	}
	return &models.GeoPoint{
		FormattedAddress: best.FormattedAddress,
		Lat:              best.Geometry.Location.Lat,
		Lng:              best.Geometry.Location.Lng,
		PlaceID:          best.PlaceID,
		Confidence:       confidence,
	}, nil
}

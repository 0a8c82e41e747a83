// Package geo resolves coordinates to a human readable address using the
// Nominatim reverse geocoding API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "nayidisha-client/1.0"

	// Fallback position used when the device position is unknown.
	FallbackLatitude  = 28.6139
	FallbackLongitude = 77.209
)

// Position is a latitude/longitude pair in degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Fallback is central New Delhi.
func Fallback() Position {
	return Position{Latitude: FallbackLatitude, Longitude: FallbackLongitude}
}

// PositionOf returns the position given by lat and lon, or Fallback when
// either is missing.
func PositionOf(lat, lon *float64) Position {
	if lat == nil || lon == nil {
		return Fallback()
	}
	return Position{Latitude: *lat, Longitude: *lon}
}

type Geocoder struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       logging.Logger
}

type Option func(*Geocoder)

func WithBaseURL(u string) Option {
	return func(g *Geocoder) { g.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(g *Geocoder) { g.http = c }
}

func New(log logging.Logger, opts ...Option) *Geocoder {
	g := &Geocoder{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse returns the display name of the place at lat, lon. A place
// without a name yields "".
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: unexpected status %s", resp.Status)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}
	g.log.Debug(ctx, "reverse geocoded", "lat", lat, "lon", lon, "place", body.DisplayName)
	return body.DisplayName, nil
}

package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// Client implements domain.Geocoder using the Google Maps Geocoding API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Google Maps geocoding client. An empty API key yields a
// client whose lookups fail with domain.ErrNotConfigured.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		logger:  logger,
		metrics: metrics,
	}
}

// Geocode resolves a free-text location mention to coordinates. A mention the
// API cannot match returns (nil, nil).
func (c *Client) Geocode(ctx context.Context, mention string) (*domain.GeoPoint, error) {
	if c.apiKey == "" {
		return nil, domain.ErrNotConfigured
	}

	params := url.Values{
		"address": {mention},
		"key":     {c.apiKey},
	}

	start := time.Now()
	point, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.DependencyDuration.WithLabelValues("googlemaps").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DependencyErrors.WithLabelValues("googlemaps").Inc()
		return nil, &domain.ServiceError{Dependency: "googlemaps", Err: err}
	}
	return point, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (*domain.GeoPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoding API error: status %d: %s", resp.StatusCode, body)
	}

	var geocodeResp response
	if err := json.NewDecoder(resp.Body).Decode(&geocodeResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	switch geocodeResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("geocoding API status %s: %s", geocodeResp.Status, geocodeResp.ErrorMessage)
	}

	if len(geocodeResp.Results) == 0 {
		return nil, nil
	}
	loc := geocodeResp.Results[0].Geometry.Location
	return &domain.GeoPoint{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Google Geocoding API response types.

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

type result struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

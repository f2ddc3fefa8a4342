package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
)

// Client implements domain.WeatherProvider using the OpenWeather current
// weather API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an OpenWeather client. An empty API key yields a client
// whose lookups fail with domain.ErrNotConfigured.
func NewClient(apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		logger:  logger,
		metrics: metrics,
	}
}

// Current fetches the current conditions at a coordinate.
func (c *Client) Current(ctx context.Context, point domain.GeoPoint) (domain.WeatherConditions, error) {
	if c.apiKey == "" {
		return domain.WeatherConditions{}, domain.ErrNotConfigured
	}

	params := url.Values{
		"lat":   {strconv.FormatFloat(point.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(point.Lng, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	start := time.Now()
	cond, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.DependencyDuration.WithLabelValues("openweather").Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.DependencyErrors.WithLabelValues("openweather").Inc()
		return domain.WeatherConditions{}, &domain.ServiceError{Dependency: "openweather", Err: err}
	}
	return cond, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.WeatherConditions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherConditions{}, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
	}

	var weatherResp response
	if err := json.NewDecoder(resp.Body).Decode(&weatherResp); err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("decode response: %w", err)
	}

	// The API reports its own status code in the body too, as a number or a
	// quoted string depending on the endpoint.
	if code, err := weatherResp.Cod.Int64(); err == nil && code != http.StatusOK {
		return domain.WeatherConditions{}, fmt.Errorf("weather API status %d: %s", code, weatherResp.Message)
	}

	cond := domain.WeatherConditions{RainOneHour: weatherResp.Rain.OneHour}
	if len(weatherResp.Weather) > 0 {
		cond.Main = weatherResp.Weather[0].Main
		cond.Description = weatherResp.Weather[0].Description
	}
	return cond, nil
}

// OpenWeather API response types.

type response struct {
	Cod     json.Number `json:"cod"`
	Message string      `json:"message"`
	Weather []condition `json:"weather"`
	Rain    rain        `json:"rain"`
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type rain struct {
	OneHour float64 `json:"1h"`
}

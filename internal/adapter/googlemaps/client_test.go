package googlemaps

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieqah-faisal/rescuties/internal/domain"
	"github.com/fieqah-faisal/rescuties/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey           = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    testMetrics(),
	}
}

func okResponse(lat, lng float64) response {
	var r result
	r.Geometry.Location.Lat = lat
	r.Geometry.Location.Lng = lng
	return response{Status: "OK", Results: []result{r}}
}

func TestClient_Geocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Marikina City", r.URL.Query().Get("address"))
		assert.Equal(t, testKey, r.URL.Query().Get("key"))

		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(okResponse(14.6507, 121.1029)))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	point, err := c.Geocode(context.Background(), "Marikina City")
	require.NoError(t, err)
	require.NotNil(t, point)

	assert.Equal(t, 14.6507, point.Lat)
	assert.Equal(t, 121.1029, point.Lng)
}

func TestClient_Geocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		require.NoError(t, json.NewEncoder(w).Encode(response{Status: "ZERO_RESULTS"}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	point, err := c.Geocode(context.Background(), "somewhere only we know")
	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestClient_Geocode_APIStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		resp := response{Status: "REQUEST_DENIED", ErrorMessage: "The provided API key is invalid."}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "Cebu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")

	var se *domain.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "googlemaps", se.Dependency)
}

func TestClient_Geocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Geocode(context.Background(), "Cebu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Geocode_NoAPIKey(t *testing.T) {
	c := NewClient("", 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)), testMetrics())

	_, err := c.Geocode(context.Background(), "Cebu")
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestClient_Geocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Geocode(context.Background(), "Cebu")
	require.Error(t, err)
}

package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		MockFlightCount: 5,
	}, logger.NewNop())
}

func TestFetchLiveMapsStateVectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/states/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"time": 1700000000,
			"states": [
				["abc123", "BAW117", "EGLL", null, null, -0.45, 51.47, 10668.0, true, 231.5, 270.0],
				["def456", "UA", null, null, null, 55.36, 25.25, null, false, null, null]
			]
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchLive(context.Background(), nil)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "abc123", r.ID)
	assert.Equal(t, "BAW117", r.FlightNumber)
	assert.Equal(t, "BAW", r.Airline)
	assert.Equal(t, "EGLL", r.Origin)
	assert.Equal(t, "Unknown", r.Destination)
	assert.Equal(t, "35000", r.Altitude) // 10668 m
	assert.Equal(t, "450", r.Speed)      // 231.5 m/s
	assert.Equal(t, "En Route", r.Status)
	assert.Equal(t, "Unknown", r.ETA)
	assert.Equal(t, 51.47, r.Latitude)
	assert.Equal(t, -0.45, r.Longitude)
	assert.Equal(t, 270.0, r.Heading)

	// Short callsign, missing altitude and speed, flag false.
	r = records[1]
	assert.Equal(t, "UA", r.FlightNumber)
	assert.Equal(t, "UA", r.Airline)
	assert.Equal(t, "0", r.Altitude)
	assert.Equal(t, "0", r.Speed)
	assert.Equal(t, "Grounded", r.Status)
}

func TestFetchLiveDropsSentinelPositions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"time": 1700000000,
			"states": [
				["noloc1", "XYZ999", null, null, null, 0, 0, null, null, null, null],
				["badlat", "XYZ998", null, null, null, 10.0, 95.0, null, null, null, null],
				["good01", "XYZ997", null, null, null, 10.0, 45.0, null, null, null, null]
			]
		}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchLive(context.Background(), nil)
	require.Len(t, records, 1)
	assert.Equal(t, "good01", records[0].ID)
}

func TestFetchLiveMissingStatesFallsBackToMock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"time": 1700000000}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchLive(context.Background(), nil)
	// The mock fallback uses the configured count.
	assert.Len(t, records, 5)
	assert.Equal(t, "mock-0", records[0].ID)
}

func TestFetchLiveServerErrorFallsBackToMock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchLive(context.Background(), nil)
	assert.Len(t, records, 5)
}

func TestFetchLiveTransportErrorFallsBackToMock(t *testing.T) {
	// Point at a closed server.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchLive(context.Background(), nil)
	assert.Len(t, records, 5)
}

func TestFetchInBoundsSendsBoundingBox(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"time": 1700000000, "states": []}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	records := c.FetchInBounds(context.Background(), flight.Bounds{
		MinLat: 24.0, MaxLat: 26.5, MinLon: 54.0, MaxLon: 56.5,
	})

	assert.Empty(t, records)
	assert.Contains(t, query, "lamin=24.0")
	assert.Contains(t, query, "lamax=26.5")
	assert.Contains(t, query, "lomin=54.0")
	assert.Contains(t, query, "lomax=56.5")
}

func TestMapStateVectorGeneratesIDWhenMissing(t *testing.T) {
	r := mapStateVector([]any{nil, "EK215", nil, nil, nil, 55.0, 25.0})
	assert.NotEmpty(t, r.ID)
	assert.Len(t, r.ID, 6)
}

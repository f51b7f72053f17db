package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/pkg/logger"
)

// DefaultBaseURL is the live state-vector endpoint.
const DefaultBaseURL = "https://opensky-network.org/api"

// DefaultMockCount is the batch size used when synthesizing flights.
const DefaultMockCount = 50

// Unit conversion factors for the live feed (meters and m/s).
const (
	metersToFeet = 3.28084
	mpsToKnots   = 1.94384
)

// Client fetches flight batches from the live state-vector feed, with
// the synthetic generator as its fallback. No fetch method ever returns
// an error: any transport or parse failure degrades to mock data so the
// map always has something to render.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	mockCount  int
	logger     *logger.Logger
}

// Config contains configuration for the feed client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	MockFlightCount   int
}

// NewClient creates a new feed client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	mockCount := cfg.MockFlightCount
	if mockCount <= 0 {
		mockCount = DefaultMockCount
	}

	// Allow bursts of 1 so the periodic refresh is never queued behind
	// itself; anything faster than the configured rate waits.
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   baseURL,
		limiter:   limiter,
		mockCount: mockCount,
		logger:    log.Named("feed"),
	}
}

// stateVectorResponse matches the live feed payload: a sequence of
// heterogeneous positional arrays.
type stateVectorResponse struct {
	Time   int64   `json:"time"`
	States [][]any `json:"states"`
}

// FetchLive fetches the current flight batch from the live feed,
// optionally scoped to a bounding box. It falls back to GenerateMock on
// any failure and never returns an error.
func (c *Client) FetchLive(ctx context.Context, bounds *flight.Bounds) []flight.Record {
	records, err := c.fetchStates(ctx, bounds)
	if err != nil {
		c.logger.Warn("Live feed unavailable, falling back to mock data", logger.Error(err))
		return c.GenerateMock(c.mockCount)
	}
	return records
}

// FetchInBounds fetches the current flight batch scoped to the given
// bounding box. Same contract as FetchLive.
func (c *Client) FetchInBounds(ctx context.Context, bounds flight.Bounds) []flight.Record {
	return c.FetchLive(ctx, &bounds)
}

// fetchStates performs the actual live feed request and mapping.
func (c *Client) fetchStates(ctx context.Context, bounds *flight.Bounds) ([]flight.Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	urlStr := c.baseURL + "/states/all"
	if bounds != nil {
		urlStr += fmt.Sprintf("?lamin=%f&lomin=%f&lamax=%f&lomax=%f",
			bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching live flight data", logger.String("url", urlStr))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var svResp stateVectorResponse
	if err := json.Unmarshal(body, &svResp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if svResp.States == nil {
		return nil, fmt.Errorf("response missing states field")
	}

	records := make([]flight.Record, 0, len(svResp.States))
	dropped := 0
	for _, s := range svResp.States {
		r := mapStateVector(s)
		if !flight.ValidPosition(r.Latitude, r.Longitude) {
			dropped++
			continue
		}
		records = append(records, r)
	}

	c.logger.Debug("Successfully fetched live flight data",
		logger.Int("flight_count", len(records)),
		logger.Int("dropped", dropped),
	)

	return records, nil
}

// mapStateVector converts one positional state array into a Record.
// Every field has an explicit default so the mapping never fails on
// missing or mistyped entries.
func mapStateVector(s []any) flight.Record {
	id := stringAt(s, 0)
	if id == "" {
		id = fmt.Sprintf("%06x", rand.Intn(0xFFFFFF))
	}

	callsign := stringAt(s, 1)
	flightNumber := callsign
	if flightNumber == "" {
		flightNumber = "Unknown"
	}
	airline := "Unknown"
	if len(callsign) >= 3 {
		airline = callsign[:3]
	} else if callsign != "" {
		airline = callsign
	}

	origin := stringAt(s, 2)
	if origin == "" {
		origin = "Unknown"
	}
	destination := stringAt(s, 3)
	if destination == "" {
		destination = "Unknown"
	}

	altitude := "0"
	if m, ok := floatAt(s, 7); ok && m != 0 {
		altitude = fmt.Sprintf("%d", int(math.Round(m*metersToFeet)))
	}
	speed := "0"
	if v, ok := floatAt(s, 9); ok && v != 0 {
		speed = fmt.Sprintf("%d", int(math.Round(v*mpsToKnots)))
	}

	status := "Grounded"
	if v, ok := floatAt(s, 8); ok && v > 0 {
		status = "En Route"
	}

	lat, _ := floatAt(s, 6)
	lon, _ := floatAt(s, 5)
	heading, _ := floatAt(s, 10)

	return flight.Record{
		ID:           id,
		FlightNumber: flightNumber,
		Airline:      airline,
		Origin:       origin,
		Destination:  destination,
		Altitude:     altitude,
		Speed:        speed,
		Status:       status,
		ETA:          "Unknown", // the live feed carries no ETA
		Latitude:     lat,
		Longitude:    lon,
		Heading:      heading,
	}
}

// stringAt extracts a string at the given index, or "".
func stringAt(s []any, i int) string {
	if i >= len(s) {
		return ""
	}
	v, _ := s[i].(string)
	return v
}

// floatAt extracts a numeric value at the given index. Booleans count
// as 1/0 because the velocity flag arrives as either type upstream.
func floatAt(s []any, i int) (float64, bool) {
	if i >= len(s) {
		return 0, false
	}
	switch v := s[i].(type) {
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

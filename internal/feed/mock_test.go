package feed

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymark/flightdeck/pkg/logger"
)

func TestGenerateMockCount(t *testing.T) {
	c := NewClient(Config{Timeout: time.Second}, logger.NewNop())

	assert.Len(t, c.GenerateMock(7), 7)
	// Zero and negative fall back to the configured count.
	assert.Len(t, c.GenerateMock(0), DefaultMockCount)
	assert.Len(t, c.GenerateMock(-3), DefaultMockCount)
}

func TestGenerateMockEnvelope(t *testing.T) {
	c := NewClient(Config{Timeout: time.Second}, logger.NewNop())
	records := c.GenerateMock(200)
	require.Len(t, records, 200)

	for i, r := range records {
		assert.Equal(t, "mock-"+strconv.Itoa(i), r.ID)
		assert.NotEmpty(t, r.FlightNumber)
		assert.Contains(t, mockAirlines, r.Airline)

		alt, err := strconv.Atoi(r.Altitude)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, alt, 30000)
		assert.LessOrEqual(t, alt, 40000)

		speed, err := strconv.Atoi(r.Speed)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, speed, 450)
		assert.LessOrEqual(t, speed, 550)

		assert.Contains(t, []string{"En Route", "Landing"}, r.Status)

		assert.GreaterOrEqual(t, r.Latitude, -85.0)
		assert.LessOrEqual(t, r.Latitude, 85.0)
		assert.GreaterOrEqual(t, r.Longitude, -180.0)
		assert.LessOrEqual(t, r.Longitude, 180.0)

		assert.GreaterOrEqual(t, r.Heading, 0.0)
		assert.Less(t, r.Heading, 360.0)
	}
}

func TestGenerateMockRoutesUseCatalogAirports(t *testing.T) {
	c := NewClient(Config{Timeout: time.Second}, logger.NewNop())

	codes := map[string]bool{}
	for _, r := range c.GenerateMock(100) {
		codes[r.Origin] = true
		codes[r.Destination] = true
	}
	// Only catalog codes appear, never "Unknown".
	assert.False(t, codes["Unknown"])
	assert.LessOrEqual(t, len(codes), 10)
}

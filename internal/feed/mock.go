package feed

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/skymark/flightdeck/internal/flight"
)

// mockAirlines is the fixed carrier catalog for synthetic flights.
var mockAirlines = []string{
	"Emirates", "British Airways", "Singapore Airlines", "Lufthansa", "Air France",
	"Delta", "United", "American Airlines", "KLM", "Qatar Airways",
	"Turkish Airlines", "Etihad", "Cathay Pacific", "Japan Airlines", "Korean Air",
}

// GenerateMock produces count synthetic flight records. Each one is
// placed along the straight line between two random catalog airports at
// a random progress fraction, with small positional jitter. Individual
// values are random but the statistical envelope is fixed: altitude
// 30000-40000 ft, speed 450-550 kts, positions clamped to valid ranges.
func (c *Client) GenerateMock(count int) []flight.Record {
	if count <= 0 {
		count = c.mockCount
	}

	airports := flight.Airports()
	records := make([]flight.Record, 0, count)

	for i := 0; i < count; i++ {
		airline := mockAirlines[rand.Intn(len(mockAirlines))]
		origin := airports[rand.Intn(len(airports))]
		destination := airports[rand.Intn(len(airports))]

		progress := rand.Float64()
		lat := origin.Lat + (destination.Lat-origin.Lat)*progress + (rand.Float64()-0.5)*0.2
		lon := origin.Lon + (destination.Lon-origin.Lon)*progress + (rand.Float64()-0.5)*0.2

		altitude := 30000 + rand.Float64()*10000
		speed := 450 + rand.Float64()*100

		status := "En Route"
		if progress > 0.95 {
			status = "Landing"
		}

		records = append(records, flight.Record{
			ID:           fmt.Sprintf("mock-%d", i),
			FlightNumber: fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), 100+rand.Intn(900)),
			Airline:      airline,
			Origin:       origin.Code,
			Destination:  destination.Code,
			Altitude:     fmt.Sprintf("%d", int(altitude)),
			Speed:        fmt.Sprintf("%d", int(speed)),
			Status:       status,
			ETA:          fmt.Sprintf("%d:%02d", 1+rand.Intn(12), rand.Intn(60)),
			Latitude:     clamp(lat, -85, 85),
			Longitude:    clamp(lon, -180, 180),
			Heading:      float64(rand.Intn(360)),
		})
	}

	return records
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

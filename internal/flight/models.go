package flight

import (
	"strconv"
	"strings"
	"time"
)

// Altitude bucket filter values. An empty string means no constraint.
const (
	AltitudeBucketLow    = "low"
	AltitudeBucketMedium = "medium"
	AltitudeBucketHigh   = "high"
)

// Altitude bucket boundaries in feet
const (
	lowAltitudeCeilingFt = 20000
	highAltitudeFloorFt  = 35000
)

// Record represents one tracked flight for the current refresh cycle.
// Altitude and speed are kept as strings because the upstream feed
// delivers "Unknown"/placeholder values alongside real numbers; anything
// that needs them numerically must parse defensively.
type Record struct {
	ID           string  `json:"id"`
	FlightNumber string  `json:"flight_number"`
	Airline      string  `json:"airline"`
	Origin       string  `json:"origin"`
	Destination  string  `json:"destination"`
	Altitude     string  `json:"altitude"` // feet
	Speed        string  `json:"speed"`    // knots
	Status       string  `json:"status"`
	ETA          string  `json:"eta"` // "H:MM" or "Unknown"
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Heading      float64 `json:"heading"` // degrees, range unvalidated
}

// FilterConfig holds the active filter configuration driving the
// derived flight view. Empty string for any field means "no constraint".
type FilterConfig struct {
	Airline  string `json:"airline"`
	Status   string `json:"status"`
	Altitude string `json:"altitude"` // "", "low", "medium" or "high"
}

// FilterUpdate is a partial filter change. Nil fields keep their prior
// value; a pointer to "" clears that constraint.
type FilterUpdate struct {
	Airline  *string `json:"airline,omitempty"`
	Status   *string `json:"status,omitempty"`
	Altitude *string `json:"altitude,omitempty"`
}

// Bounds is a geographic bounding box, typically the map viewport.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// ValidPosition reports whether lat/lon are inside the valid geographic
// range. The (0,0) origin is the upstream "no position" sentinel and is
// not a valid position.
func ValidPosition(lat, lon float64) bool {
	if lat == 0 && lon == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Matches reports whether the record passes every gate of the filter
// configuration. Gates are conjunctive and each one independently
// admits all records when its field is empty.
func (f FilterConfig) Matches(r Record) bool {
	if f.Airline != "" && !strings.Contains(strings.ToLower(r.Airline), strings.ToLower(f.Airline)) {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Altitude != "" {
		alt, err := strconv.Atoi(strings.TrimSpace(r.Altitude))
		if err != nil {
			// Non-numeric altitudes fail every named bucket.
			return false
		}
		// The bucket comparators are kept exactly as the product shipped
		// them: exactly 20000 ft satisfies both "low" and "medium", and
		// exactly 35000 ft satisfies both "medium" and "high". Pending
		// product clarification on inclusive/exclusive boundaries.
		switch f.Altitude {
		case AltitudeBucketLow:
			if alt > lowAltitudeCeilingFt {
				return false
			}
		case AltitudeBucketMedium:
			if alt < lowAltitudeCeilingFt || alt > highAltitudeFloorFt {
				return false
			}
		case AltitudeBucketHigh:
			if alt < highAltitudeFloorFt {
				return false
			}
		}
	}
	return true
}

// Apply merges the update into the configuration, field by field.
func (f FilterConfig) Apply(u FilterUpdate) FilterConfig {
	if u.Airline != nil {
		f.Airline = *u.Airline
	}
	if u.Status != nil {
		f.Status = *u.Status
	}
	if u.Altitude != nil {
		f.Altitude = *u.Altitude
	}
	return f
}

// Snapshot represents a batch of flights with its receipt time, the
// shape served to API and WebSocket consumers.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
	Flights   []Record  `json:"flights"`
}

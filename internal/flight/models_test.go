package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func record(airline, status, altitude string) Record {
	return Record{
		ID:       "t1",
		Airline:  airline,
		Status:   status,
		Altitude: altitude,
	}
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	f := FilterConfig{}

	assert.True(t, f.Matches(record("Emirates", "En Route", "35000")))
	assert.True(t, f.Matches(record("", "", "Unknown")))
	assert.True(t, f.Matches(record("Delta", "Landed", "-5")))
}

func TestAirlineFilterCaseInsensitiveSubstring(t *testing.T) {
	f := FilterConfig{Airline: "emirates"}

	assert.True(t, f.Matches(record("Emirates", "En Route", "35000")))
	assert.True(t, f.Matches(record("EMIRATES SkyCargo", "En Route", "35000")))
	assert.False(t, f.Matches(record("Delta", "En Route", "35000")))

	partial := FilterConfig{Airline: "air"}
	assert.True(t, partial.Matches(record("Air France", "En Route", "35000")))
	assert.True(t, partial.Matches(record("British Airways", "En Route", "35000")))
}

func TestStatusFilterExactMatch(t *testing.T) {
	f := FilterConfig{Status: "En Route"}

	assert.True(t, f.Matches(record("Delta", "En Route", "35000")))
	assert.False(t, f.Matches(record("Delta", "en route", "35000")))
	assert.False(t, f.Matches(record("Delta", "Landed", "35000")))
}

func TestAltitudeBuckets(t *testing.T) {
	cases := []struct {
		bucket   string
		altitude string
		want     bool
	}{
		{AltitudeBucketLow, "5000", true},
		{AltitudeBucketLow, "19999", true},
		{AltitudeBucketLow, "20001", false},
		{AltitudeBucketLow, "40000", false},

		{AltitudeBucketMedium, "19999", false},
		{AltitudeBucketMedium, "25000", true},
		{AltitudeBucketMedium, "35001", false},

		{AltitudeBucketHigh, "34999", false},
		{AltitudeBucketHigh, "35001", true},
		{AltitudeBucketHigh, "40000", true},
	}

	for _, tc := range cases {
		f := FilterConfig{Altitude: tc.bucket}
		got := f.Matches(record("Delta", "En Route", tc.altitude))
		assert.Equal(t, tc.want, got, "bucket=%s altitude=%s", tc.bucket, tc.altitude)
	}
}

// The shipped comparators admit the exact boundary values into both
// adjacent buckets. Locked in here until product clarifies.
func TestAltitudeBucketBoundaries(t *testing.T) {
	at20000 := record("Delta", "En Route", "20000")
	assert.True(t, FilterConfig{Altitude: AltitudeBucketLow}.Matches(at20000))
	assert.True(t, FilterConfig{Altitude: AltitudeBucketMedium}.Matches(at20000))
	assert.False(t, FilterConfig{Altitude: AltitudeBucketHigh}.Matches(at20000))

	at35000 := record("Delta", "En Route", "35000")
	assert.False(t, FilterConfig{Altitude: AltitudeBucketLow}.Matches(at35000))
	assert.True(t, FilterConfig{Altitude: AltitudeBucketMedium}.Matches(at35000))
	assert.True(t, FilterConfig{Altitude: AltitudeBucketHigh}.Matches(at35000))
}

func TestNonNumericAltitudeFailsNamedBuckets(t *testing.T) {
	unknown := record("Delta", "En Route", "Unknown")

	for _, bucket := range []string{AltitudeBucketLow, AltitudeBucketMedium, AltitudeBucketHigh} {
		assert.False(t, FilterConfig{Altitude: bucket}.Matches(unknown), "bucket=%s", bucket)
	}

	// No altitude constraint: the record passes.
	assert.True(t, FilterConfig{}.Matches(unknown))
}

func TestFilterUpdateApply(t *testing.T) {
	f := FilterConfig{Airline: "Emirates", Status: "En Route", Altitude: "high"}

	delta := "Delta"
	f = f.Apply(FilterUpdate{Airline: &delta})
	assert.Equal(t, "Delta", f.Airline)
	assert.Equal(t, "En Route", f.Status)
	assert.Equal(t, "high", f.Altitude)

	empty := ""
	f = f.Apply(FilterUpdate{Status: &empty, Altitude: &empty})
	assert.Equal(t, "Delta", f.Airline)
	assert.Equal(t, "", f.Status)
	assert.Equal(t, "", f.Altitude)

	// Nil fields keep prior values.
	f = f.Apply(FilterUpdate{})
	assert.Equal(t, "Delta", f.Airline)
}

func TestValidPosition(t *testing.T) {
	assert.True(t, ValidPosition(51.47, -0.45))
	assert.True(t, ValidPosition(-90, 180))

	// (0,0) is the "no position" sentinel.
	assert.False(t, ValidPosition(0, 0))

	assert.False(t, ValidPosition(90.1, 0))
	assert.False(t, ValidPosition(0, -180.1))
	assert.False(t, ValidPosition(-91, 200))
}

package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/pkg/logger"
)

type fakeStorage struct {
	loaded  []string
	loadErr error
	saved   [][]string
	saveErr error
}

func (f *fakeStorage) Load() ([]string, error) {
	return f.loaded, f.loadErr
}

func (f *fakeStorage) Save(ids []string) error {
	cp := make([]string, len(ids))
	copy(cp, ids)
	f.saved = append(f.saved, cp)
	return f.saveErr
}

func testBatch() []flight.Record {
	return []flight.Record{
		{ID: "a1", FlightNumber: "EK215", Airline: "Emirates", Status: "En Route", Altitude: "36000"},
		{ID: "b2", FlightNumber: "DL100", Airline: "Delta", Status: "Landed", Altitude: "0"},
		{ID: "c3", FlightNumber: "AF008", Airline: "Air France", Status: "En Route", Altitude: "18000"},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(&fakeStorage{}, logger.NewNop())
}

func TestNewLoadsPersistedFavorites(t *testing.T) {
	storage := &fakeStorage{loaded: []string{"a1", "c3"}}
	s := New(storage, logger.NewNop())

	assert.Equal(t, []string{"a1", "c3"}, s.Favorites())
	assert.True(t, s.IsFavorite("a1"))
	assert.False(t, s.IsFavorite("b2"))
}

func TestNewDegradesOnLoadError(t *testing.T) {
	storage := &fakeStorage{loadErr: errors.New("disk gone")}
	s := New(storage, logger.NewNop())

	assert.Empty(t, s.Favorites())
}

func TestSetFlightsReplacesWholesale(t *testing.T) {
	s := newTestStore(t)
	s.SetFlights(testBatch())
	assert.Equal(t, 3, s.Count())

	s.SetFlights([]flight.Record{{ID: "z9"}})
	assert.Equal(t, 1, s.Count())
	got := s.Flights()
	require.Len(t, got, 1)
	assert.Equal(t, "z9", got[0].ID)
}

func TestSetFlightsLeavesOtherStateAlone(t *testing.T) {
	s := newTestStore(t)
	s.SetFlights(testBatch())
	s.ToggleFavorite("a1")
	s.SetFilters(flight.FilterUpdate{Airline: strPtr("Emirates")})
	sel, ok := s.FlightByID("a1")
	require.True(t, ok)
	s.SetSelectedFlight(&sel)

	s.SetFlights([]flight.Record{{ID: "new1", Airline: "Qantas"}})

	assert.Equal(t, []string{"a1"}, s.Favorites())
	assert.Equal(t, "Emirates", s.Filters().Airline)
	// The selection stays even though a1 left the batch.
	require.NotNil(t, s.SelectedFlight())
	assert.Equal(t, "a1", s.SelectedFlight().ID)
}

func TestToggleFavoriteIsInvolution(t *testing.T) {
	storage := &fakeStorage{}
	s := New(storage, logger.NewNop())

	s.ToggleFavorite("a1")
	assert.True(t, s.IsFavorite("a1"))

	s.ToggleFavorite("a1")
	assert.False(t, s.IsFavorite("a1"))
	assert.Empty(t, s.Favorites())

	// Both toggles persisted.
	require.Len(t, storage.saved, 2)
	assert.Equal(t, []string{"a1"}, storage.saved[0])
	assert.Empty(t, storage.saved[1])
}

func TestToggleFavoriteSurvivesSaveError(t *testing.T) {
	storage := &fakeStorage{saveErr: errors.New("readonly fs")}
	s := New(storage, logger.NewNop())

	s.ToggleFavorite("a1")
	// In-memory state updated despite the persistence failure.
	assert.True(t, s.IsFavorite("a1"))
}

func TestFavoriteFlightsIntersectsInBatchOrder(t *testing.T) {
	s := newTestStore(t)
	s.SetFlights(testBatch())
	s.ToggleFavorite("c3")
	s.ToggleFavorite("a1")
	s.ToggleFavorite("ghost") // not in the batch

	got := s.FavoriteFlights()
	require.Len(t, got, 2)
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
}

func TestFilteredFlightsEmptyFilterIsIdentity(t *testing.T) {
	s := newTestStore(t)
	batch := testBatch()
	s.SetFlights(batch)

	got := s.FilteredFlights()
	require.Len(t, got, len(batch))
	for i := range batch {
		assert.Equal(t, batch[i].ID, got[i].ID)
	}
}

func TestFilteredFlightsAirlineSubstring(t *testing.T) {
	s := newTestStore(t)
	s.SetFlights(testBatch())
	s.SetFilters(flight.FilterUpdate{Airline: strPtr("emirates")})

	got := s.FilteredFlights()
	require.Len(t, got, 1)
	assert.Equal(t, "Emirates", got[0].Airline)
}

func TestSetFiltersPartialMerge(t *testing.T) {
	s := newTestStore(t)
	s.SetFilters(flight.FilterUpdate{Airline: strPtr("Delta"), Status: strPtr("En Route")})
	s.SetFilters(flight.FilterUpdate{Status: strPtr("")})

	f := s.Filters()
	assert.Equal(t, "Delta", f.Airline)
	assert.Equal(t, "", f.Status)
	assert.Equal(t, "", f.Altitude)
}

func TestSelectionSetAndClear(t *testing.T) {
	s := newTestStore(t)
	assert.Nil(t, s.SelectedFlight())

	s.SetSelectedFlight(&flight.Record{ID: "x7"})
	require.NotNil(t, s.SelectedFlight())
	assert.Equal(t, "x7", s.SelectedFlight().ID)

	s.SetSelectedFlight(nil)
	assert.Nil(t, s.SelectedFlight())
}

func TestSelectedFlightReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	s.SetSelectedFlight(&flight.Record{ID: "x7", Airline: "Delta"})

	got := s.SelectedFlight()
	got.Airline = "mutated"

	assert.Equal(t, "Delta", s.SelectedFlight().Airline)
}

func TestFlightByID(t *testing.T) {
	s := newTestStore(t)
	s.SetFlights(testBatch())

	r, ok := s.FlightByID("b2")
	require.True(t, ok)
	assert.Equal(t, "DL100", r.FlightNumber)

	_, ok = s.FlightByID("nope")
	assert.False(t, ok)
}

func strPtr(s string) *string { return &s }

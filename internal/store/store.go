package store

import (
	"sync"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/pkg/logger"
)

// FavoritesStorage is the durable slot holding the favorite flight ids.
// Favorites are the only store field that survives a process restart.
type FavoritesStorage interface {
	Load() ([]string, error)
	Save(ids []string) error
}

// Store is the client-side flight state container: the current flight
// batch, the favorite id set, the active filter configuration and the
// selected flight. It is handed by reference to whichever component
// needs it; all mutation goes through its methods.
//
// The flight batch is replaced wholesale on refresh and the remaining
// fields are mutated by user actions, so writes touch disjoint state
// and last-writer-wins under the mutex.
type Store struct {
	mu        sync.RWMutex
	flights   []flight.Record
	favorites []string
	filters   flight.FilterConfig
	selected  *flight.Record
	storage   FavoritesStorage
	logger    *logger.Logger
}

// New creates a store and loads the persisted favorites set. A storage
// load failure degrades to an empty set; construction never fails.
func New(storage FavoritesStorage, log *logger.Logger) *Store {
	s := &Store{
		storage: storage,
		logger:  log.Named("store"),
	}

	if storage != nil {
		ids, err := storage.Load()
		if err != nil {
			s.logger.Warn("Failed to load persisted favorites, starting empty", logger.Error(err))
		} else {
			s.favorites = ids
			s.logger.Info("Loaded persisted favorites", logger.Int("count", len(ids)))
		}
	}

	return s
}

// SetFlights replaces the entire flight batch. Favorites, filters and
// the selection are left untouched; a selection referring to an id no
// longer present simply goes stale until the user picks again.
func (s *Store) SetFlights(flights []flight.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights = flights
}

// Flights returns a copy of the current flight batch.
func (s *Store) Flights() []flight.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]flight.Record, len(s.flights))
	copy(out, s.flights)
	return out
}

// SetSelectedFlight sets or clears the selection. No existence check
// is made against the current batch.
func (s *Store) SetSelectedFlight(r *flight.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.selected = nil
		return
	}
	cp := *r
	s.selected = &cp
}

// SelectedFlight returns a copy of the selected flight, or nil.
func (s *Store) SelectedFlight() *flight.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	cp := *s.selected
	return &cp
}

// ToggleFavorite adds the id to the favorites set if absent, removes it
// if present, and persists the resulting set. Toggling twice restores
// the prior state.
func (s *Store) ToggleFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	next := make([]string, 0, len(s.favorites)+1)
	for _, fav := range s.favorites {
		if fav == id {
			found = true
			continue
		}
		next = append(next, fav)
	}
	if !found {
		next = append(next, id)
	}
	s.favorites = next

	if s.storage != nil {
		if err := s.storage.Save(next); err != nil {
			s.logger.Error("Failed to persist favorites", logger.Error(err), logger.String("id", id))
		}
	}
}

// Favorites returns a copy of the favorite id set. Ids may refer to
// flights not present in the current batch.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// IsFavorite reports whether the id is in the favorites set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fav := range s.favorites {
		if fav == id {
			return true
		}
	}
	return false
}

// FavoriteFlights returns the flights of the current batch whose id is
// in the favorites set, in batch order.
func (s *Store) FavoriteFlights() []flight.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favs := make(map[string]struct{}, len(s.favorites))
	for _, id := range s.favorites {
		favs[id] = struct{}{}
	}

	out := make([]flight.Record, 0, len(favs))
	for _, r := range s.flights {
		if _, ok := favs[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// SetFilters shallow-merges the update into the filter configuration.
// Unset fields keep their prior value; setting a field to "" clears
// that constraint. Filters are deliberately not persisted.
func (s *Store) SetFilters(u flight.FilterUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Apply(u)
}

// Filters returns the active filter configuration.
func (s *Store) Filters() flight.FilterConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// FilteredFlights returns the flights passing the active filters, in
// batch order. The view is recomputed on every call; nothing is cached.
func (s *Store) FilteredFlights() []flight.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]flight.Record, 0, len(s.flights))
	for _, r := range s.flights {
		if s.filters.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// FlightByID returns the record with the given id from the current
// batch, if present.
func (s *Store) FlightByID(id string) (flight.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.flights {
		if r.ID == id {
			return r, true
		}
	}
	return flight.Record{}, false
}

// Count returns the size of the current flight batch.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flights)
}

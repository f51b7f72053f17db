package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skymark/flightdeck/internal/command"
	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/internal/store"
	"github.com/skymark/flightdeck/internal/tracker"
	"github.com/skymark/flightdeck/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	store       *store.Store
	tracker     *tracker.Service
	interpreter *command.Interpreter
	logger      *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(flightStore *store.Store, trackerService *tracker.Service, interpreter *command.Interpreter, log *logger.Logger) *Handler {
	return &Handler{
		store:       flightStore,
		tracker:     trackerService,
		interpreter: interpreter,
		logger:      log.Named("api-handler"),
	}
}

// GetFlights returns the filtered flight view
func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.store.FilteredFlights()

	WriteJSON(w, http.StatusOK, flight.Snapshot{
		Timestamp: time.Now().UTC(),
		Count:     len(flights),
		Flights:   flights,
	})
}

// GetAllFlights returns the raw flight batch, ignoring filters
func (h *Handler) GetAllFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.store.Flights()

	WriteJSON(w, http.StatusOK, flight.Snapshot{
		Timestamp: time.Now().UTC(),
		Count:     len(flights),
		Flights:   flights,
	})
}

// GetFlight returns a single flight from the current batch
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing flight ID", http.StatusBadRequest)
		return
	}

	record, ok := h.store.FlightByID(id)
	if !ok {
		http.Error(w, "Flight not found", http.StatusNotFound)
		return
	}

	WriteJSON(w, http.StatusOK, record)
}

// GetFlightRoute returns the resolved origin/destination coordinates
// for path rendering. Unknown airport codes resolve to the default
// point, so this never fails for a flight in the current batch.
func (h *Handler) GetFlightRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing flight ID", http.StatusBadRequest)
		return
	}

	record, ok := h.store.FlightByID(id)
	if !ok {
		http.Error(w, "Flight not found", http.StatusNotFound)
		return
	}

	response := struct {
		ID                string             `json:"id"`
		Origin            string             `json:"origin"`
		Destination       string             `json:"destination"`
		OriginCoords      flight.Coordinates `json:"origin_coords"`
		DestinationCoords flight.Coordinates `json:"destination_coords"`
		Position          flight.Coordinates `json:"position"`
	}{
		ID:                record.ID,
		Origin:            record.Origin,
		Destination:       record.Destination,
		OriginCoords:      flight.ResolveAirport(record.Origin),
		DestinationCoords: flight.ResolveAirport(record.Destination),
		Position:          flight.Coordinates{Lat: record.Latitude, Lon: record.Longitude},
	}

	WriteJSON(w, http.StatusOK, response)
}

// UpdateFilters applies a partial filter update
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var update flight.FilterUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if update.Altitude != nil {
		switch *update.Altitude {
		case "", flight.AltitudeBucketLow, flight.AltitudeBucketMedium, flight.AltitudeBucketHigh:
		default:
			http.Error(w, "Invalid altitude bucket", http.StatusBadRequest)
			return
		}
	}

	h.store.SetFilters(update)

	WriteJSON(w, http.StatusOK, h.store.Filters())
}

// GetFilters returns the active filter configuration
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.store.Filters())
}

// SetSelected sets the selected flight from the request body
func (h *Handler) SetSelected(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		http.Error(w, "Missing flight ID", http.StatusBadRequest)
		return
	}

	// Selection is a copy of the batch record when present; a selection
	// for an id outside the current batch is allowed and simply stale.
	if record, ok := h.store.FlightByID(body.ID); ok {
		h.store.SetSelectedFlight(&record)
		WriteJSON(w, http.StatusOK, record)
		return
	}

	h.store.SetSelectedFlight(&flight.Record{ID: body.ID})
	WriteJSON(w, http.StatusOK, flight.Record{ID: body.ID})
}

// GetSelected returns the selected flight, or 204 when none is set
func (h *Handler) GetSelected(w http.ResponseWriter, r *http.Request) {
	selected := h.store.SelectedFlight()
	if selected == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, http.StatusOK, selected)
}

// ClearSelected clears the selection
func (h *Handler) ClearSelected(w http.ResponseWriter, r *http.Request) {
	h.store.SetSelectedFlight(nil)
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite toggles the favorite state of a flight id
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Missing flight ID", http.StatusBadRequest)
		return
	}

	h.store.ToggleFavorite(id)

	response := struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	}{
		ID:       id,
		Favorite: h.store.IsFavorite(id),
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetFavorites returns the favorite ids and the favorited flights
// present in the current batch
func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	response := struct {
		Favorites []string        `json:"favorites"`
		Flights   []flight.Record `json:"flights"`
	}{
		Favorites: h.store.Favorites(),
		Flights:   h.store.FavoriteFlights(),
	}

	WriteJSON(w, http.StatusOK, response)
}

// ExecuteCommand runs a free-text command through the interpreter
func (h *Handler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result := h.interpreter.Execute(body.Command)
	WriteJSON(w, http.StatusOK, result)
}

// SetViewport sets the map viewport used to scope live fetches
func (h *Handler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var bounds flight.Bounds
	if err := json.NewDecoder(r.Body).Decode(&bounds); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if bounds.MinLat < -90 || bounds.MaxLat > 90 || bounds.MinLat > bounds.MaxLat {
		http.Error(w, "Invalid latitude bounds", http.StatusBadRequest)
		return
	}
	if bounds.MinLon < -180 || bounds.MaxLon > 180 || bounds.MinLon > bounds.MaxLon {
		http.Error(w, "Invalid longitude bounds", http.StatusBadRequest)
		return
	}

	h.tracker.SetViewport(bounds)
	w.WriteHeader(http.StatusNoContent)
}

// ClearViewport forgets the map viewport
func (h *Handler) ClearViewport(w http.ResponseWriter, r *http.Request) {
	h.tracker.ClearViewport()
	w.WriteHeader(http.StatusNoContent)
}

// GetAirport returns the resolved coordinates for an airport code
func (h *Handler) GetAirport(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.Error(w, "Missing airport code", http.StatusBadRequest)
		return
	}

	response := struct {
		Code   string             `json:"code"`
		Coords flight.Coordinates `json:"coords"`
	}{
		Code:   code,
		Coords: flight.ResolveAirport(code),
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetStatus returns the health of the refresh loop
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	lastFetch, ok := h.tracker.Status()

	response := map[string]any{
		"status":       ok,
		"last_fetch":   lastFetch,
		"flight_count": h.store.Count(),
	}

	WriteJSON(w, http.StatusOK, response)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

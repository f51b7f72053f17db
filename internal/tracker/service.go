package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/internal/store"
	"github.com/skymark/flightdeck/internal/websocket"
	"github.com/skymark/flightdeck/pkg/logger"
)

// WebSocketServer defines the interface for a WebSocket server
type WebSocketServer interface {
	Broadcast(message *websocket.Message)
}

// FeedAdapter abstracts over live vs. synthetic flight data sources.
type FeedAdapter interface {
	FetchInBounds(ctx context.Context, bounds flight.Bounds) []flight.Record
	GenerateMock(count int) []flight.Record
}

// Service drives the periodic flight refresh: on each tick it pulls a
// batch from the feed adapter (scoped to the map viewport when one is
// known, synthetic otherwise) and replaces the store's flight set.
// Filters, selection and favorites are never touched by a refresh.
type Service struct {
	adapter       FeedAdapter
	store         *store.Store
	fetchInterval time.Duration
	logger        *logger.Logger
	wsServer      WebSocketServer

	lastFetchTime   time.Time
	lastFetchStatus bool
	viewport        *flight.Bounds
	mu              sync.RWMutex

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewService creates a new tracker service
func NewService(
	adapter FeedAdapter,
	flightStore *store.Store,
	fetchInterval time.Duration,
	wsServer WebSocketServer,
	log *logger.Logger,
) *Service {
	if fetchInterval <= 0 {
		fetchInterval = 10 * time.Second
	}

	return &Service{
		adapter:       adapter,
		store:         flightStore,
		fetchInterval: fetchInterval,
		logger:        log.Named("tracker"),
		wsServer:      wsServer,
		stopCh:        make(chan struct{}),
	}
}

// Start performs an initial refresh and launches the background loop.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting tracker service",
		logger.Duration("fetch_interval", s.fetchInterval),
	)

	s.refresh(ctx)

	s.wg.Add(1)
	go s.fetchLoop(ctx)

	return nil
}

// Stop stops the tracker service and releases its timer.
func (s *Service) Stop() {
	s.logger.Info("Stopping tracker service")
	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("Tracker service stopped")
}

// fetchLoop periodically refreshes the flight batch
func (s *Service) fetchLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.fetchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// refresh pulls one batch and writes it into the store. The adapter
// already degrades to synthetic data on any feed failure, so a refresh
// always ends in SetFlights.
func (s *Service) refresh(ctx context.Context) {
	start := time.Now()

	var records []flight.Record
	if bounds, ok := s.Viewport(); ok {
		records = s.adapter.FetchInBounds(ctx, bounds)
	} else {
		records = s.adapter.GenerateMock(0)
	}

	s.store.SetFlights(records)
	s.setFetchStatus(time.Now(), true)

	s.logger.Debug("Flight batch refreshed",
		logger.Int("flight_count", len(records)),
		logger.Duration("duration", time.Since(start)),
	)

	if s.wsServer != nil {
		s.wsServer.Broadcast(&websocket.Message{
			Type: websocket.MessageTypeFlightsUpdate,
			Data: map[string]any{
				"flights":   s.store.FilteredFlights(),
				"count":     s.store.Count(),
				"timestamp": time.Now().UTC(),
			},
		})
	}
}

// SetViewport records the map viewport; subsequent refreshes fetch
// live data scoped to it.
func (s *Service) SetViewport(bounds flight.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := bounds
	s.viewport = &b

	s.logger.Debug("Viewport updated",
		logger.Float64("min_lat", bounds.MinLat),
		logger.Float64("max_lat", bounds.MaxLat),
		logger.Float64("min_lon", bounds.MinLon),
		logger.Float64("max_lon", bounds.MaxLon),
	)
}

// ClearViewport forgets the map viewport; subsequent refreshes fall
// back to synthetic data.
func (s *Service) ClearViewport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = nil
}

// Viewport returns the current map viewport, if one is known.
func (s *Service) Viewport() (flight.Bounds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.viewport == nil {
		return flight.Bounds{}, false
	}
	return *s.viewport, true
}

// Status returns the last fetch time and whether it succeeded.
func (s *Service) Status() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetchTime, s.lastFetchStatus
}

func (s *Service) setFetchStatus(t time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetchTime = t
	s.lastFetchStatus = ok
}

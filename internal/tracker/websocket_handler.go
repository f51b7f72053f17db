package tracker

import (
	"fmt"

	"github.com/skymark/flightdeck/internal/flight"
	"github.com/skymark/flightdeck/internal/websocket"
	"github.com/skymark/flightdeck/pkg/logger"
)

// WebSocketHandler handles incoming WebSocket messages from map clients
type WebSocketHandler struct {
	service *Service
	logger  *logger.Logger
}

// NewWebSocketHandler creates a new WebSocket message handler
func NewWebSocketHandler(service *Service, log *logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		logger:  log.Named("tracker-ws-handler"),
	}
}

// HandleMessage handles incoming WebSocket messages
func (h *WebSocketHandler) HandleMessage(client *websocket.Client, messageType string, data map[string]any) error {
	switch messageType {
	case websocket.MessageTypeViewportUpdate:
		return h.handleViewportUpdate(data)
	case websocket.MessageTypeViewportClear:
		h.service.ClearViewport()
		return nil
	default:
		h.logger.Debug("Unhandled message type", logger.String("type", messageType))
		return nil
	}
}

// handleViewportUpdate applies a client-reported map viewport to the service
func (h *WebSocketHandler) handleViewportUpdate(data map[string]any) error {
	bounds := flight.Bounds{}

	fields := []struct {
		key string
		dst *float64
	}{
		{"min_lat", &bounds.MinLat},
		{"max_lat", &bounds.MaxLat},
		{"min_lon", &bounds.MinLon},
		{"max_lon", &bounds.MaxLon},
	}
	for _, f := range fields {
		v, ok := data[f.key].(float64)
		if !ok {
			return fmt.Errorf("viewport update missing %s", f.key)
		}
		*f.dst = v
	}

	h.service.SetViewport(bounds)
	return nil
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/skymark/flightdeck/internal/command"
	"github.com/skymark/flightdeck/internal/config"
	"github.com/skymark/flightdeck/internal/store"
	"github.com/skymark/flightdeck/internal/tracker"
	"github.com/skymark/flightdeck/internal/websocket"
	"github.com/skymark/flightdeck/pkg/logger"
)

// Router bundles the API handlers with the WebSocket server
type Router struct {
	handler  *Handler
	wsServer *websocket.Server
	config   *config.Config
	logger   *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(
	flightStore *store.Store,
	trackerService *tracker.Service,
	interpreter *command.Interpreter,
	cfg *config.Config,
	log *logger.Logger,
	wsServer *websocket.Server,
) *Router {
	return &Router{
		handler:  NewHandler(flightStore, trackerService, interpreter, log),
		wsServer: wsServer,
		config:   cfg,
		logger:   log.Named("router"),
	}
}

// Routes returns the HTTP routes for the API
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/flights", rt.handler.GetFlights)
		r.Get("/flights/all", rt.handler.GetAllFlights)
		r.Get("/flights/{id}", rt.handler.GetFlight)
		r.Get("/flights/{id}/route", rt.handler.GetFlightRoute)

		r.Get("/filters", rt.handler.GetFilters)
		r.Post("/filters", rt.handler.UpdateFilters)

		r.Get("/selected", rt.handler.GetSelected)
		r.Post("/selected", rt.handler.SetSelected)
		r.Delete("/selected", rt.handler.ClearSelected)

		r.Get("/favorites", rt.handler.GetFavorites)
		r.Post("/favorites/{id}/toggle", rt.handler.ToggleFavorite)

		r.Post("/command", rt.handler.ExecuteCommand)

		r.Put("/viewport", rt.handler.SetViewport)
		r.Delete("/viewport", rt.handler.ClearViewport)

		r.Get("/airports/{code}", rt.handler.GetAirport)
		r.Get("/status", rt.handler.GetStatus)
	})

	r.Get("/ws", rt.wsServer.HandleConnection)

	return r
}

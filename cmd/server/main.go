package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skymark/flightdeck/internal/api"
	"github.com/skymark/flightdeck/internal/command"
	"github.com/skymark/flightdeck/internal/config"
	"github.com/skymark/flightdeck/internal/feed"
	"github.com/skymark/flightdeck/internal/store"
	"github.com/skymark/flightdeck/internal/storage/sqlite"
	"github.com/skymark/flightdeck/internal/tracker"
	"github.com/skymark/flightdeck/internal/websocket"
	"github.com/skymark/flightdeck/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting FlightDeck server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Durable favorites slot
	favoritesStorage, err := sqlite.NewFavoritesStorage(cfg.Storage.SQLitePath, cfg.Storage.SlotName, log)
	if err != nil {
		log.Error("Failed to create SQLite storage", logger.Error(err))
		os.Exit(1)
	}
	defer favoritesStorage.Close()

	// Flight state store, favorites loaded from the slot
	flightStore := store.New(favoritesStorage, log)

	// WebSocket server for map clients
	wsServer := websocket.NewServer(log)
	go wsServer.Run()

	// Feed adapter (live feed with synthetic fallback)
	feedClient := feed.NewClient(feed.Config{
		BaseURL:           cfg.Feed.BaseURL,
		Timeout:           time.Duration(cfg.Feed.RequestTimeoutSecs) * time.Second,
		RequestsPerMinute: cfg.Feed.RequestsPerMinute,
		MockFlightCount:   cfg.Feed.MockFlightCount,
	}, log)

	// Refresh loop
	trackerService := tracker.NewService(
		feedClient,
		flightStore,
		time.Duration(cfg.Feed.FetchIntervalSecs)*time.Second,
		wsServer,
		log,
	)

	wsHandler := tracker.NewWebSocketHandler(trackerService, log)
	wsServer.SetMessageHandler(wsHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := trackerService.Start(ctx); err != nil {
		log.Error("Failed to start tracker service", logger.Error(err))
		os.Exit(1)
	}

	// Command interpreter
	interpreter := command.New(flightStore, log)

	// HTTP surface
	router := api.NewRouter(flightStore, trackerService, interpreter, cfg, log, wsServer)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.String("addr", addr), logger.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	log.Info("Stopping tracker service...")
	trackerService.Stop()
	log.Info("Tracker service stopped.")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	log.Info("Server fully stopped")
}

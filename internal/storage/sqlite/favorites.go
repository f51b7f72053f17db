package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/skymark/flightdeck/pkg/logger"
)

// DefaultSlotName is the store name the favorites set is keyed under.
const DefaultSlotName = "flight-store"

// favoritesSlot is the exact durable payload: the favorites id list and
// nothing else. Filters and selection are ephemeral by design.
type favoritesSlot struct {
	Favorites []string `json:"favorites"`
}

// FavoritesStorage is a SQLite-backed named slot holding the favorite
// flight ids. It is written on every toggle and read once at startup.
type FavoritesStorage struct {
	db       *sql.DB
	slotName string
	logger   *logger.Logger
}

// NewFavoritesStorage creates a new SQLite-based favorites storage.
func NewFavoritesStorage(dbPath, slotName string, log *logger.Logger) (*FavoritesStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	if slotName == "" {
		slotName = DefaultSlotName
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := initDatabase(db, storageLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &FavoritesStorage{
		db:       db,
		slotName: slotName,
		logger:   storageLogger,
	}, nil
}

// Close closes the database connection
func (s *FavoritesStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS favorite_slots (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create favorite_slots table: %w", err)
	}

	return nil
}

// Load reads the favorites set from the slot. A missing slot yields an
// empty set, not an error.
func (s *FavoritesStorage) Load() ([]string, error) {
	var data string
	err := s.db.QueryRow(
		"SELECT data FROM favorite_slots WHERE name = ?", s.slotName,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites slot: %w", err)
	}

	var slot favoritesSlot
	if err := json.Unmarshal([]byte(data), &slot); err != nil {
		return nil, fmt.Errorf("failed to parse favorites slot: %w", err)
	}

	return slot.Favorites, nil
}

// Save replaces the slot contents with the given favorites set.
func (s *FavoritesStorage) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(favoritesSlot{Favorites: ids})
	if err != nil {
		return fmt.Errorf("failed to encode favorites slot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO favorite_slots (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, s.slotName, string(data))
	if err != nil {
		return fmt.Errorf("failed to write favorites slot: %w", err)
	}

	s.logger.Debug("Persisted favorites", logger.Int("count", len(ids)))
	return nil
}

// Package settings provides SQLite-based persistence for user-chosen
// rendering preferences. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies. The only persisted state is the manual quality override:
// the chosen tier and whether automatic FPS-driven adjustment is enabled.
package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	keyQualityTier = "quality.tier"
	keyAutoAdjust  = "quality.auto"
)

// Override is the persisted manual quality choice. A stored override
// survives restarts: automatic adjustment stays disabled until the user
// explicitly re-enables it.
type Override struct {
	// Tier is the tier name ("low", "medium", "high").
	Tier string

	// AutoAdjust reports whether automatic FPS-driven adjustment is enabled.
	AutoAdjust bool
}

// Store manages the SQLite database holding the settings key-value table.
type Store struct {
	db *sql.DB
}

// Open creates or opens the settings database at the given path.
// It creates the parent directories if needed and runs migrations.
//
// Parameters:
//   - dbPath: filesystem path of the database file ("~" expands to home)
//
// Returns:
//   - *Store: the opened store
//   - error: error if the database cannot be opened or migrated
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("settings: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("settings: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("settings: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the settings schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
//
// Returns:
//   - error: error from closing the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveOverride persists a manual quality override.
//
// Parameters:
//   - o: the override to store
//
// Returns:
//   - error: error if the write fails
func (s *Store) SaveOverride(o Override) error {
	if err := s.set(keyQualityTier, o.Tier); err != nil {
		return err
	}
	return s.set(keyAutoAdjust, strconv.FormatBool(o.AutoAdjust))
}

// LoadOverride reads the stored override.
//
// Returns:
//   - Override: the stored override (zero value when absent)
//   - bool: true if an override was stored
//   - error: error if the read fails
func (s *Store) LoadOverride() (Override, bool, error) {
	tier, ok, err := s.get(keyQualityTier)
	if err != nil || !ok {
		return Override{}, false, err
	}

	autoRaw, _, err := s.get(keyAutoAdjust)
	if err != nil {
		return Override{}, false, err
	}
	auto, _ := strconv.ParseBool(autoRaw)

	return Override{Tier: tier, AutoAdjust: auto}, true, nil
}

// Reset removes all stored settings.
//
// Returns:
//   - error: error if the delete fails
func (s *Store) Reset() error {
	_, err := s.db.Exec(`DELETE FROM settings`)
	if err != nil {
		return fmt.Errorf("settings: reset failed: %w", err)
	}
	return nil
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("settings: cannot store %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settings: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

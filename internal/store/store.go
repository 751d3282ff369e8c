package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nissyi-gh/actionlist/internal/model"
	_ "modernc.org/sqlite"
)

const (
	// ItemsKey is the fixed key the item collection is stored under.
	ItemsKey = "actionItems"
	// LastIDKey holds the highest id ever handed out, so deleted ids stay retired.
	LastIDKey = "lastItemID"
)

// sqliteTime is the layout of SQLite's datetime('now').
const sqliteTime = "2006-01-02 15:04:05"

// ErrNoValue is returned by Get when the key has never been set.
var ErrNoValue = errors.New("no value for key")

// KVStore is a durable key-value area backed by SQLite.
type KVStore struct {
	db     *sql.DB
	logger *log.Logger
}

// DataDir returns the directory holding the database and log file.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "actionlist"), nil
}

// DefaultDBPath returns the database path inside DataDir.
func DefaultDBPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "actionlist.db"), nil
}

// Open opens (or creates) the SQLite database and ensures the schema exists.
// An empty dbPath selects DefaultDBPath; ":memory:" gives a throwaway store.
func Open(dbPath string, logger *log.Logger) (*KVStore, error) {
	if dbPath == "" {
		var err error
		dbPath, err = DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("determine db path: %w", err)
		}
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: a single writer, and ":memory:" stays one database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	if err := migrateUpdatedAt(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate updated_at: %w", err)
	}

	logger.Debug("opened store", "path", dbPath)
	return &KVStore{db: db, logger: logger}, nil
}

func migrateUpdatedAt(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(kv)")
	if err != nil {
		return err
	}
	defer rows.Close()

	hasUpdatedAt := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == "updated_at" {
			hasUpdatedAt = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if !hasUpdatedAt {
		_, err := db.Exec("ALTER TABLE kv ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''")
		return err
	}
	return nil
}

// Get returns the raw value stored under key.
func (s *KVStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get %q: %w", key, ErrNoValue)
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value in one statement.
func (s *KVStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// updatedAt returns when key was last written, as SQLite's UTC datetime text.
func (s *KVStore) updatedAt(key string) (string, error) {
	var ts string
	err := s.db.QueryRow("SELECT updated_at FROM kv WHERE key = ?", key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("updated_at %q: %w", key, ErrNoValue)
	}
	if err != nil {
		return "", fmt.Errorf("updated_at %q: %w", key, err)
	}
	return ts, nil
}

// LastSaved reports when the item collection was last written.
func (s *KVStore) LastSaved() (time.Time, error) {
	ts, err := s.updatedAt(ItemsKey)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(sqliteTime, ts, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse updated_at %q: %w", ts, err)
	}
	return t, nil
}

// LoadLastID reads the saved id high-water mark.
func (s *KVStore) LoadLastID() (int64, bool) {
	raw, err := s.Get(LastIDKey)
	if errors.Is(err, ErrNoValue) {
		return 0, false
	}
	if err != nil {
		s.logger.Error("error loading last id", "key", LastIDKey, "err", err)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Error("error parsing last id", "key", LastIDKey, "value", raw, "err", err)
		return 0, false
	}
	return id, true
}

// SaveLastID writes the id high-water mark.
func (s *KVStore) SaveLastID(id int64) bool {
	if err := s.Set(LastIDKey, strconv.FormatInt(id, 10)); err != nil {
		s.logger.Error("error saving last id", "key", LastIDKey, "err", err)
		return false
	}
	return true
}

// Load reads the saved item collection. A missing key or any read/parse
// failure reports ok=false; callers fall back to defaults.
func (s *KVStore) Load() ([]model.Item, bool) {
	raw, err := s.Get(ItemsKey)
	if errors.Is(err, ErrNoValue) {
		s.logger.Debug("no saved items", "key", ItemsKey)
		return nil, false
	}
	if err != nil {
		s.logger.Error("error loading items", "key", ItemsKey, "err", err)
		return nil, false
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Error("error parsing saved items", "key", ItemsKey, "err", err)
		return nil, false
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, true
}

// Save writes the full collection under ItemsKey. Failures are logged and
// reported as false.
func (s *KVStore) Save(items []model.Item) bool {
	if items == nil {
		items = []model.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("error encoding items", "err", err)
		return false
	}
	if err := s.Set(ItemsKey, string(data)); err != nil {
		s.logger.Error("error saving items", "key", ItemsKey, "err", err)
		return false
	}
	s.logger.Debug("saved items", "count", len(items))
	return true
}

// Close closes the database connection.
func (s *KVStore) Close() error {
	return s.db.Close()
}

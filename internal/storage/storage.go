// Package storage is the local key/value shim used for the session token and
// small client-side state. Values are raw strings; there is no namespacing
// and no serialization beyond what the caller passes in.
//
// Two interchangeable backends exist, mirroring the original app's
// web/native split: an ephemeral in-memory map and a durable SQLite table.
// The backend is picked per call from the mode function, never cached.
package storage

import (
	"context"
	"errors"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mode selects which backend a call lands on.
type Mode int

const (
	// Ephemeral keeps values in memory for the life of the process.
	Ephemeral Mode = iota
	// Durable persists values in the local SQLite database.
	Durable
)

// Backend is one key/value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Shim dispatches each call to one of its two backends based on the mode
// function, evaluated on every call.
type Shim struct {
	ephemeral Backend
	durable   Backend
	mode      func() Mode
}

// New builds a shim. mode may be nil, in which case every call is ephemeral.
func New(ephemeral, durable Backend, mode func() Mode) *Shim {
	if mode == nil {
		mode = func() Mode { return Ephemeral }
	}
	return &Shim{ephemeral: ephemeral, durable: durable, mode: mode}
}

func (s *Shim) backend() Backend {
	if s.mode() == Durable {
		return s.durable
	}
	return s.ephemeral
}

// Get returns the stored value and whether the key existed.
func (s *Shim) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend().Get(ctx, key)
}

// Set stores value under key, overwriting any previous value.
func (s *Shim) Set(ctx context.Context, key, value string) error {
	return s.backend().Set(ctx, key, value)
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Shim) Remove(ctx context.Context, key string) error {
	return s.backend().Remove(ctx, key)
}

// MemoryBackend is the ephemeral store. Safe for concurrent use.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend returns an empty in-memory store.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// kvEntry is the SQLite row backing the durable store.
type kvEntry struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value string
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteBackend is the durable store.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the
// key/value table. Use ":memory:" for tests.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}

func (s *SQLiteBackend) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
}

// Close releases the underlying database connection.
func (s *SQLiteBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

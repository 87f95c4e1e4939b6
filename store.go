package vectordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/liliang-cn/vectordb/internal/encoding"
	"github.com/liliang-cn/vectordb/pkg/peersync"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS vectors (
	id TEXT PRIMARY KEY,
	embedding BLOB NOT NULL,
	metadata TEXT,
	created_at INTEGER DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_created_at ON vectors(created_at);
`

// dimPhase is the state of the store dimension: unset until the first
// successful insert, then fixed for the life of the instance.
type dimPhase uint8

const (
	dimUnset dimPhase = iota
	dimFixed
)

type dimState struct {
	phase dimPhase
	n     int
}

// SearchResult is one ranked hit
type SearchResult struct {
	ID       string  `json:"id"`
	Score    float32 `json:"score"`
	Metadata string  `json:"metadata"`
}

// Stats provides statistics about the vector store
type Stats struct {
	Count     int    `json:"count"`
	Dimension int    `json:"dimension"`
	Path      string `json:"path"`
}

// VectorDB stores embeddings in a single SQLite file and answers k nearest
// neighbour queries by scanning every row.
//
// One handle is shared by all callers. Search, Get, Count and Stats hold the
// read lock; Insert, Delete and Clear hold the write lock.
type VectorDB struct {
	db     *sql.DB
	path   string
	config Config
	logger Logger

	mu     sync.RWMutex
	closed bool
	dim    dimState // guarded by mu
}

// Open opens or creates the store at path, applies the session tunables
// from cfg and makes sure the schema exists.
func Open(path string, cfg Config) (*VectorDB, error) {
	if path == "" {
		return nil, wrapError("open", fmt.Errorf("%w: database path cannot be empty", ErrInvalidConfig))
	}
	if err := cfg.Validate(); err != nil {
		return nil, wrapError("open", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, &IOError{Op: "open", Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite", cfg.dsn(path))
	if err != nil {
		return nil, storageError("open", fmt.Errorf("failed to open database: %w", err))
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	store := &VectorDB{
		db:     db,
		path:   path,
		config: cfg,
		logger: cfg.Logger.With("path", path),
	}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	store.logger.Info("database initialized",
		"wal", cfg.WALMode, "cache_kb", cfg.CacheSize, "synchronous", cfg.Synchronous)
	return store, nil
}

func (s *VectorDB) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError("open", fmt.Errorf("failed to connect: %w", err))
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return storageError("open", fmt.Errorf("failed to create tables: %w", err))
	}
	return nil
}

// Close closes the database connection and releases resources
func (s *VectorDB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return storageError("close", err)
	}
	s.logger.Info("database connection closed")
	return nil
}

// Path returns the database file path
func (s *VectorDB) Path() string {
	return s.path
}

// Dimension returns the established dimension, or false before the first
// successful insert on this instance.
func (s *VectorDB) Dimension() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim.n, s.dim.phase == dimFixed
}

// Insert upserts the record id. Once a dimension is established, a vector
// of any other length is rejected before any I/O.
func (s *VectorDB) Insert(ctx context.Context, id string, v Vector, metadata string) (err error) {
	start := time.Now()
	defer func() { s.config.Metrics.RecordInsert(time.Since(start), err) }()

	if id == "" {
		return wrapError("insert", ErrEmptyID)
	}

	msg, err := s.insert(ctx, id, v, metadata)
	if err != nil {
		return err
	}
	s.publish(ctx, msg)
	return nil
}

// insert writes the record under the write lock and returns the sync
// message describing it.
func (s *VectorDB) insert(ctx context.Context, id string, v Vector, metadata string) (peersync.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return peersync.Message{}, wrapError("insert", ErrStoreClosed)
	}
	if s.dim.phase == dimFixed && v.Dim() != s.dim.n {
		return peersync.Message{}, &DimensionMismatchError{Expected: s.dim.n, Got: v.Dim()}
	}

	blob, err := encoding.EncodeVector(v.AsSlice())
	if err != nil {
		return peersync.Message{}, serializationError("insert", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vectors (id, embedding, metadata) VALUES (?, ?, ?)`,
		id, blob, metadata)
	if err != nil {
		return peersync.Message{}, storageError("insert", fmt.Errorf("failed to insert vector: %w", err))
	}

	if s.dim.phase == dimUnset {
		s.dim = dimState{phase: dimFixed, n: v.Dim()}
		s.logger.Debug("dimension established", "dim", v.Dim())
	}
	return peersync.NewInsert(id, blob, metadata), nil
}

// InsertAuto inserts v under a freshly generated UUID and returns the id.
func (s *VectorDB) InsertAuto(ctx context.Context, v Vector, metadata string) (string, error) {
	id := uuid.NewString()
	if err := s.Insert(ctx, id, v, metadata); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the record id. Deleting a missing id is not an error.
func (s *VectorDB) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.config.Metrics.RecordDelete(time.Since(start), err) }()

	removed, err := s.remove(ctx, id)
	if err != nil {
		return err
	}
	if removed {
		s.publish(ctx, peersync.NewDelete(id))
	}
	return nil
}

// remove deletes the record under the write lock and reports whether a
// row may have been removed. When the driver cannot report affected rows
// the delete is assumed to have removed one.
func (s *VectorDB) remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, wrapError("delete", ErrStoreClosed)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM vectors WHERE id = ?`, id)
	if err != nil {
		return false, storageError("delete", fmt.Errorf("failed to delete vector: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		s.logger.Debug("rows affected unavailable after delete", "id", id, "error", err)
		return true, nil
	}
	return n > 0, nil
}

// Get returns the vector and metadata stored under id. found is false when
// there is no such record.
func (s *VectorDB) Get(ctx context.Context, id string) (v Vector, metadata string, found bool, err error) {
	start := time.Now()
	defer func() { s.config.Metrics.RecordGet(time.Since(start), err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Vector{}, "", false, wrapError("get", ErrStoreClosed)
	}

	var (
		blob []byte
		meta sql.NullString
	)
	err = s.db.QueryRowContext(ctx,
		`SELECT embedding, metadata FROM vectors WHERE id = ?`, id).Scan(&blob, &meta)
	if errors.Is(err, sql.ErrNoRows) {
		return Vector{}, "", false, nil
	}
	if err != nil {
		return Vector{}, "", false, storageError("get", err)
	}

	data, err := encoding.DecodeVector(blob)
	if err != nil {
		return Vector{}, "", false, serializationError("get", err)
	}
	return Vector{data: data}, meta.String, true, nil
}

// Count returns the number of records
func (s *VectorDB) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, wrapError("count", ErrStoreClosed)
	}
	return s.count(ctx)
}

func (s *VectorDB) count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&n); err != nil {
		return 0, storageError("count", err)
	}
	return n, nil
}

// Clear removes every record. The established dimension is kept.
func (s *VectorDB) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.config.Metrics.RecordClear(time.Since(start), err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return wrapError("clear", ErrStoreClosed)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vectors`); err != nil {
		return storageError("clear", fmt.Errorf("failed to clear vectors: %w", err))
	}
	s.logger.Info("store cleared")
	return nil
}

// Stats returns statistics about the store
func (s *VectorDB) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Stats{}, wrapError("stats", ErrStoreClosed)
	}
	n, err := s.count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: n, Dimension: s.dim.n, Path: s.path}, nil
}

// publish hands m to the configured publisher. It runs after the write
// has committed and the lock is released; a failure is logged and not
// returned.
func (s *VectorDB) publish(ctx context.Context, m peersync.Message) {
	if err := s.config.Publisher.Publish(ctx, m); err != nil {
		s.logger.Warn("sync publish failed", "kind", m.Kind, "id", m.ID, "error", err)
	}
}

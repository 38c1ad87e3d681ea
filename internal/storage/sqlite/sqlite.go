// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/gameswap/gameswap/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// It holds two pools over the same database file. The write pool is a
// single connection opened with _txlock=immediate, so every write
// transaction takes the write lock up front: a read made inside a write
// transaction can never be invalidated by another writer before the
// commit. Contention is absorbed by busy_timeout rather than returned
// to callers, since concurrent writers on one swap are at most two.
type SQLiteStore struct {
	reads  *sql.DB
	writes *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	pragmas := "_pragma=busy_timeout(30000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

	reads, err := sql.Open("sqlite", fmt.Sprintf("file:%s?%s", dbPath, pragmas))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	writes, err := sql.Open("sqlite", fmt.Sprintf("file:%s?%s&_txlock=immediate", dbPath, pragmas))
	if err != nil {
		reads.Close()
		return nil, fmt.Errorf("failed to open database for writing: %w", err)
	}
	// SQLite allows one writer at a time; a second pooled connection
	// would only trade lock queueing for busy errors.
	writes.SetMaxOpenConns(1)

	if err := runMigrations(writes); err != nil {
		reads.Close()
		writes.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{reads: reads, writes: writes}, nil
}

// Close closes both database pools.
func (s *SQLiteStore) Close() error {
	rerr := s.reads.Close()
	werr := s.writes.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

// write runs fn inside a BEGIN IMMEDIATE transaction with guaranteed
// release: any error from fn (or the commit) rolls the whole call back.
// Every state-changing operation in this package goes through here, so
// no write path can observe or leave a half-committed state.
func (s *SQLiteStore) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.writes.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// now returns the current Unix timestamp. Swappable in tests.
var now = func() int64 { return time.Now().Unix() }

// genSwapCode builds the human-readable confirmation code. It is a
// display aid shown to both parties, not a key; collisions are fine.
func genSwapCode() string {
	var b strings.Builder
	b.WriteString("SWAP-")
	for i := 0; i < 6; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// normalizeHandle strips a leading '@' and surrounding whitespace.
// A user without a handle is stored as the empty string, never a
// placeholder.
func normalizeHandle(handle string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// Package indexdb keeps a SQLite read model of record history: one row
// per record improvement. The authoritative current record lives in the
// JSON record file; this db only serves queries.
package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"botfield.ai/internal/observerproto"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan observerproto.Record
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

func Open(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan observerproto.Record, 64),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL durability
	// is fine for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			holder_name TEXT NOT NULL,
			duration_sec REAL NOT NULL,
			start_energy INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_duration ON records(duration_sec DESC);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordImproved enqueues one history row. Non-blocking: a saturated
// writer drops the row rather than stalling the caller.
func (s *SQLiteIndex) RecordImproved(r observerproto.Record) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- r:
		return nil
	default:
		return fmt.Errorf("indexdb: writer queue full")
	}
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		_, err := s.db.Exec(
			`INSERT INTO records (holder_name, duration_sec, start_energy, recorded_at) VALUES (?, ?, ?, ?)`,
			r.HolderName, r.DurationSec, r.StartEnergy, r.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			// Best effort; the JSON store is the source of truth.
			continue
		}
	}
}

// TopRecords returns up to n past records, best first.
func (s *SQLiteIndex) TopRecords(ctx context.Context, n int) ([]observerproto.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT holder_name, duration_sec, start_energy, recorded_at FROM records ORDER BY duration_sec DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []observerproto.Record
	for rows.Next() {
		var r observerproto.Record
		var at string
		if err := rows.Scan(&r.HolderName, &r.DurationSec, &r.StartEnergy, &at); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
			r.Timestamp = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

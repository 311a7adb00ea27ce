/*
Package sqlite provides the SQLite-backed implementation of the record store.

PURPOSE:
  Implements stats.RecordStore using SQLite. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLE:
  daily_stats: one row per (tier, date), raw counters only. Derived
  metrics are never persisted; they are recomputed from the counters at
  read time by the domain layer.

UPSERT ATOMICITY:
  The (tier, date) uniqueness is enforced by the database, and upserts go
  through a single INSERT .. ON CONFLICT DO UPDATE statement, so two
  concurrent writes to the same day can never interleave partial counter
  sets. Identity (id) and created_at survive an upsert; only the counters
  and updated_at change.

WAL MODE:
  SQLite is opened with WAL so readers don't block during writes, plus a
  sync.RWMutex the same way the rest of this codebase guards the handle.

USAGE:
  st, err := sqlite.New("./data/stt.db")
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - stats/store.go: interface contract
  - stats/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Tiavinjanahary/STT/stats"
)

// Store implements stats.RecordStore on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and it keeps ":memory:"
	// databases from splitting across pooled connections.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_stats (
		id TEXT PRIMARY KEY,
		tier TEXT NOT NULL,
		date TEXT NOT NULL,
		appel INTEGER NOT NULL DEFAULT 0,
		jira INTEGER NOT NULL DEFAULT 0,
		mail INTEGER NOT NULL DEFAULT 0,
		escalade INTEGER NOT NULL DEFAULT 0,
		p1 INTEGER NOT NULL DEFAULT 0,
		p2 INTEGER NOT NULL DEFAULT 0,
		p3 INTEGER NOT NULL DEFAULT 0,
		p4 INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(tier, date)
	);

	-- Hot path: per-tier listing and range queries, newest first
	CREATE INDEX IF NOT EXISTS idx_daily_stats_tier_date
		ON daily_stats(tier, date DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

const counterColumns = "appel, jira, mail, escalade, p1, p2, p3, p4"

// Upsert creates or fully replaces the counters at (tier, date).
func (s *Store) Upsert(ctx context.Context, tier stats.Tier, date stats.DateKey, c stats.RawCounters) (stats.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (id, tier, date, `+counterColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tier, date) DO UPDATE SET
			appel = excluded.appel,
			jira = excluded.jira,
			mail = excluded.mail,
			escalade = excluded.escalade,
			p1 = excluded.p1,
			p2 = excluded.p2,
			p3 = excluded.p3,
			p4 = excluded.p4,
			updated_at = excluded.updated_at`,
		uuid.NewString(), string(tier), date.String(),
		c.Appel, c.Jira, c.Mail, c.Escalade, c.P1, c.P2, c.P3, c.P4,
		now, now,
	)
	if err != nil {
		return stats.DailyRecord{}, storeErr("upsert", err)
	}
	return s.getByDateLocked(ctx, tier, date)
}

// InsertIfAbsent creates the record only when the key is free.
func (s *Store) InsertIfAbsent(ctx context.Context, tier stats.Tier, date stats.DateKey, c stats.RawCounters) (stats.DailyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_stats (id, tier, date, `+counterColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tier, date) DO NOTHING`,
		uuid.NewString(), string(tier), date.String(),
		c.Appel, c.Jira, c.Mail, c.Escalade, c.P1, c.P2, c.P3, c.P4,
		now, now,
	)
	if err != nil {
		return stats.DailyRecord{}, false, storeErr("insert", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return stats.DailyRecord{}, false, storeErr("insert", err)
	}

	rec, err := s.getByDateLocked(ctx, tier, date)
	if err != nil {
		return stats.DailyRecord{}, false, err
	}
	return rec, affected > 0, nil
}

// Find returns the tier's records, optionally range-restricted.
func (s *Store) Find(ctx context.Context, tier stats.Tier, q stats.RecordQuery) ([]stats.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, tier, date, ` + counterColumns + `, created_at, updated_at
		FROM daily_stats WHERE tier = ?`
	args := []any{string(tier)}

	if q.Range != nil {
		// Dates are stored as ISO day strings; lexical order is date order.
		query += ` AND date >= ? AND date <= ?`
		args = append(args, q.Range.Start.String(), q.Range.End.String())
	}

	if q.Ascending {
		query += ` ORDER BY date ASC`
	} else {
		query += ` ORDER BY date DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("find", err)
	}
	defer rows.Close()

	var records []stats.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storeErr("find", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find", err)
	}
	return records, nil
}

// FindOne returns the record with the given id.
func (s *Store) FindOne(ctx context.Context, tier stats.Tier, id string) (stats.DailyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tier, date, `+counterColumns+`, created_at, updated_at
		FROM daily_stats WHERE tier = ? AND id = ?`,
		string(tier), id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return stats.DailyRecord{}, stats.ErrNotFound
	}
	if err != nil {
		return stats.DailyRecord{}, storeErr("find one", err)
	}
	return rec, nil
}

// DeleteOne removes the record with the given id.
func (s *Store) DeleteOne(ctx context.Context, tier stats.Tier, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM daily_stats WHERE tier = ? AND id = ?`, string(tier), id)
	if err != nil {
		return storeErr("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete", err)
	}
	if affected == 0 {
		return stats.ErrNotFound
	}
	return nil
}

// UpdateFields overwrites the counters of an existing record by id.
func (s *Store) UpdateFields(ctx context.Context, tier stats.Tier, id string, c stats.RawCounters) (stats.DailyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE daily_stats SET
			appel = ?, jira = ?, mail = ?, escalade = ?,
			p1 = ?, p2 = ?, p3 = ?, p4 = ?,
			updated_at = ?
		WHERE tier = ? AND id = ?`,
		c.Appel, c.Jira, c.Mail, c.Escalade, c.P1, c.P2, c.P3, c.P4,
		now, string(tier), id,
	)
	if err != nil {
		return stats.DailyRecord{}, storeErr("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return stats.DailyRecord{}, storeErr("update", err)
	}
	if affected == 0 {
		return stats.DailyRecord{}, stats.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tier, date, `+counterColumns+`, created_at, updated_at
		FROM daily_stats WHERE tier = ? AND id = ?`,
		string(tier), id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return stats.DailyRecord{}, storeErr("update", err)
	}
	return rec, nil
}

func (s *Store) getByDateLocked(ctx context.Context, tier stats.Tier, date stats.DateKey) (stats.DailyRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, tier, date, `+counterColumns+`, created_at, updated_at
		FROM daily_stats WHERE tier = ? AND date = ?`,
		string(tier), date.String(),
	)
	rec, err := scanRecord(row)
	if err != nil {
		return stats.DailyRecord{}, storeErr("load", err)
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (stats.DailyRecord, error) {
	var (
		rec                  stats.DailyRecord
		tier, date           string
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.ID, &tier, &date,
		&rec.Appel, &rec.Jira, &rec.Mail, &rec.Escalade,
		&rec.P1, &rec.P2, &rec.P3, &rec.P4,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return stats.DailyRecord{}, err
	}

	rec.Tier = stats.Tier(tier)
	rec.Date, err = stats.ParseDate(date)
	if err != nil {
		return stats.DailyRecord{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", stats.ErrStoreUnavailable, op, err)
}

/*
store.go - Persistence interface for daily records

PURPOSE:
  Defines the contract between the statistics engine and storage. The
  engine only needs a per-tier mapping from calendar day to record with
  point lookup, range query and atomic upsert-by-key.

KEY CONTRACT:
  Exactly one record per (tier, day). Upsert replaces raw counters in
  place; InsertIfAbsent never clobbers existing data. Concurrent upserts
  to the same key must not interleave partial writes - implementations
  provide an atomic replace-if-exists-else-insert at the key level.

IMPLEMENTATIONS:
  - store/sqlite: production store (ON CONFLICT upsert)
  - stats/store:  in-memory store for tests and dev

SEE ALSO:
  - reconcile.go: the single write path used by entry, seeding and import
*/
package stats

import "context"

// RecordQuery restricts and orders a Find call.
type RecordQuery struct {
	// Range limits results to an inclusive calendar-day interval.
	// Nil means all records for the tier.
	Range *DateRange

	// Ascending orders by date ascending (exports); default is descending
	// (browsing, newest first).
	Ascending bool
}

// RecordStore is the per-tier day-keyed record mapping.
type RecordStore interface {
	// Upsert creates the record at (tier, date) or fully replaces its raw
	// counters, preserving identity and creation metadata. Exactly one
	// record exists for the key afterwards.
	Upsert(ctx context.Context, tier Tier, date DateKey, counters RawCounters) (DailyRecord, error)

	// InsertIfAbsent creates the record only if the key is free. The bool
	// reports whether a new record was inserted; either way the record at
	// the key is returned. Existing data is never overwritten.
	InsertIfAbsent(ctx context.Context, tier Tier, date DateKey, counters RawCounters) (DailyRecord, bool, error)

	// Find returns the tier's records, optionally restricted to a range,
	// ordered by date (descending unless q.Ascending).
	Find(ctx context.Context, tier Tier, q RecordQuery) ([]DailyRecord, error)

	// FindOne returns the record with the given identifier.
	// Returns ErrNotFound if absent.
	FindOne(ctx context.Context, tier Tier, id string) (DailyRecord, error)

	// DeleteOne removes the record with the given identifier.
	// Returns ErrNotFound if absent.
	DeleteOne(ctx context.Context, tier Tier, id string) error

	// UpdateFields overwrites the raw counters of an existing record,
	// identified by its opaque id. Returns ErrNotFound if absent.
	UpdateFields(ctx context.Context, tier Tier, id string, counters RawCounters) (DailyRecord, error)
}

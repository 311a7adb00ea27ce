/*
reconcile.go - Idempotent create-or-replace of a daily record

PURPOSE:
  Single write path shared by manual entry, the workbook import and any
  future ingestion: normalize the date, coerce the counters, upsert.
  Calling it twice for the same (tier, day) leaves exactly one record
  holding the latest values - last write wins, never a duplicate day.

COERCION IS LENIENT:
  A missing or non-numeric counter becomes 0 instead of failing the whole
  operation. The legacy data this system ingests is incomplete in places;
  losing a cell is better than losing a day. Only the date can reject an
  operation (ErrInvalidDate).

SEE ALSO:
  - workbook/import.go: feeds every discovered column through Reconcile
  - seed.go: the insert-only counterpart that never overwrites
*/
package stats

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FieldValues is a loosely typed bag of counter values keyed by canonical
// counter name. Values may be numbers, numeric strings, json.Number, or
// missing entirely.
type FieldValues map[string]any

// CoerceCount converts an arbitrary value to a non-negative count.
// Non-numeric, missing and negative inputs all coerce to 0; fractional
// values are truncated.
func CoerceCount(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return clampCount(n)
	case int64:
		return clampCount(int(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return clampCount(int(n))
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return CoerceCount(f)
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return CoerceCount(f)
		}
		return 0
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// CoerceCounters builds RawCounters from a loosely typed field bag,
// coercing every counter individually.
func CoerceCounters(fields FieldValues) RawCounters {
	return RawCounters{
		Appel:    CoerceCount(fields["appel"]),
		Jira:     CoerceCount(fields["jira"]),
		Mail:     CoerceCount(fields["mail"]),
		Escalade: CoerceCount(fields["escalade"]),
		P1:       CoerceCount(fields["p1"]),
		P2:       CoerceCount(fields["p2"]),
		P3:       CoerceCount(fields["p3"]),
		P4:       CoerceCount(fields["p4"]),
	}
}

// Reconciler is the idempotent upsert entry point over a RecordStore.
type Reconciler struct {
	Store RecordStore
}

func NewReconciler(store RecordStore) *Reconciler {
	return &Reconciler{Store: store}
}

// Reconcile normalizes dateInput, coerces fields, and upserts the record
// at (tier, day). Returns ErrInvalidDate when the date cannot be parsed;
// counter coercion never fails.
func (r *Reconciler) Reconcile(ctx context.Context, tier Tier, dateInput string, fields FieldValues) (DailyRecord, error) {
	date, err := ParseDate(dateInput)
	if err != nil {
		return DailyRecord{}, err
	}
	return r.ReconcileDay(ctx, tier, date, fields)
}

// ReconcileDay is Reconcile for an already-normalized day.
func (r *Reconciler) ReconcileDay(ctx context.Context, tier Tier, date DateKey, fields FieldValues) (DailyRecord, error) {
	return r.Store.Upsert(ctx, tier, date, CoerceCounters(fields))
}

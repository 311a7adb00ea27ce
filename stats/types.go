/*
types.go - Core entities of the statistics engine

PURPOSE:
  Defines the daily record tracked for each support tier: eight raw
  counters entered by operators (or imported from the legacy workbook)
  plus three derived metrics computed at read time.

TIERS:
  Two parallel support levels, N1 and N2. The record shape is identical;
  the key spaces are disjoint (the same day exists independently per tier).

DERIVED METRICS:
  total    = appel + jira + mail
  traite   = p1 + p2 + p3 + p4
  en_cours = total - escalade - traite

  Derived values are NEVER stored. They are pure functions of the raw
  counters, recomputed on every read, so edits are always reflected.
  en_cours may be negative when the inputs are inconsistent
  (escalade + traite > total); that is a faithful readout, not an error.

SEE ALSO:
  - aggregate.go: TotalsSummary over a set of records
  - reconcile.go: lenient coercion of incoming counter values
*/
package stats

import (
	"strings"
	"time"
)

// =============================================================================
// TIER
// =============================================================================

// Tier selects one of the two support levels. Each tier has its own
// disjoint record key space.
type Tier string

const (
	TierN1 Tier = "n1"
	TierN2 Tier = "n2"
)

// Tiers lists all known tiers, N1 first.
func Tiers() []Tier { return []Tier{TierN1, TierN2} }

// ParseTier normalizes a tier tag. Returns false for anything that is not
// a known tier.
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(s)) {
	case TierN1:
		return TierN1, true
	case TierN2:
		return TierN2, true
	}
	return "", false
}

func (t Tier) String() string { return string(t) }

// =============================================================================
// RAW COUNTERS
// =============================================================================

// CounterNames lists the raw counter fields in their canonical order.
var CounterNames = []string{"appel", "jira", "mail", "escalade", "p1", "p2", "p3", "p4"}

// RawCounters holds the eight operator-entered counts for one day.
// All values are non-negative; missing input coerces to zero.
type RawCounters struct {
	Appel    int
	Jira     int
	Mail     int
	Escalade int
	P1       int
	P2       int
	P3       int
	P4       int
}

// Total is the overall incoming volume: calls + tickets + mails.
func (c RawCounters) Total() int { return c.Appel + c.Jira + c.Mail }

// Traite is the handled volume across the four priority buckets.
func (c RawCounters) Traite() int { return c.P1 + c.P2 + c.P3 + c.P4 }

// EnCours is what remains open: total minus escalated minus handled.
// May be negative when the inputs are inconsistent.
func (c RawCounters) EnCours() int { return c.Total() - c.Escalade - c.Traite() }

// Get returns a counter by its canonical name, false if unknown.
func (c RawCounters) Get(name string) (int, bool) {
	switch name {
	case "appel":
		return c.Appel, true
	case "jira":
		return c.Jira, true
	case "mail":
		return c.Mail, true
	case "escalade":
		return c.Escalade, true
	case "p1":
		return c.P1, true
	case "p2":
		return c.P2, true
	case "p3":
		return c.P3, true
	case "p4":
		return c.P4, true
	}
	return 0, false
}

// =============================================================================
// DAILY RECORD
// =============================================================================

// DailyRecord is the statistics entry for one tier on one calendar day.
// (Tier, Date) is the uniqueness key; ID is an opaque identifier used by
// the point operations (fetch, edit, delete).
type DailyRecord struct {
	ID   string
	Tier Tier
	Date DateKey

	RawCounters

	CreatedAt time.Time
	UpdatedAt time.Time
}

// =============================================================================
// TOTALS SUMMARY
// =============================================================================

// TotalsSummary is the componentwise sum of every raw and derived field
// across a set of records. Unlike DailyRecord, the derived fields are
// stored here: they are sums of the per-day derived values, not values
// re-derived from the summed counters (see aggregate.go).
type TotalsSummary struct {
	Appel    int
	Jira     int
	Mail     int
	Escalade int
	P1       int
	P2       int
	P3       int
	P4       int

	Total   int
	Traite  int
	EnCours int
}

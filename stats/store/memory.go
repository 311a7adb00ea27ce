// Package store provides RecordStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiavinjanahary/STT/stats"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records map[key]*stats.DailyRecord
	byID    map[string]key
}

type key struct {
	Tier stats.Tier
	Day  string // DateKey.String(); comparable map key
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[key]*stats.DailyRecord),
		byID:    make(map[string]key),
	}
}

func (m *Memory) Upsert(_ context.Context, tier stats.Tier, date stats.DateKey, counters stats.RawCounters) (stats.DailyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{Tier: tier, Day: date.String()}
	now := time.Now().UTC()
	if existing, ok := m.records[k]; ok {
		existing.RawCounters = counters
		existing.UpdatedAt = now
		return *existing, nil
	}

	rec := &stats.DailyRecord{
		ID:          uuid.NewString(),
		Tier:        tier,
		Date:        date,
		RawCounters: counters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.records[k] = rec
	m.byID[rec.ID] = k
	return *rec, nil
}

func (m *Memory) InsertIfAbsent(_ context.Context, tier stats.Tier, date stats.DateKey, counters stats.RawCounters) (stats.DailyRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{Tier: tier, Day: date.String()}
	if existing, ok := m.records[k]; ok {
		return *existing, false, nil
	}

	now := time.Now().UTC()
	rec := &stats.DailyRecord{
		ID:          uuid.NewString(),
		Tier:        tier,
		Date:        date,
		RawCounters: counters,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.records[k] = rec
	m.byID[rec.ID] = k
	return *rec, true, nil
}

func (m *Memory) Find(_ context.Context, tier stats.Tier, q stats.RecordQuery) ([]stats.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []stats.DailyRecord
	for k, rec := range m.records {
		if k.Tier != tier {
			continue
		}
		if q.Range != nil && !q.Range.Contains(rec.Date) {
			continue
		}
		result = append(result, *rec)
	}

	sort.Slice(result, func(i, j int) bool {
		if q.Ascending {
			return result[i].Date.Before(result[j].Date)
		}
		return result[j].Date.Before(result[i].Date)
	})
	return result, nil
}

func (m *Memory) FindOne(_ context.Context, tier stats.Tier, id string) (stats.DailyRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.lookupLocked(tier, id)
	if !ok {
		return stats.DailyRecord{}, stats.ErrNotFound
	}
	return *rec, nil
}

func (m *Memory) DeleteOne(_ context.Context, tier stats.Tier, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.lookupLocked(tier, id)
	if !ok {
		return stats.ErrNotFound
	}
	delete(m.records, m.byID[rec.ID])
	delete(m.byID, rec.ID)
	return nil
}

func (m *Memory) UpdateFields(_ context.Context, tier stats.Tier, id string, counters stats.RawCounters) (stats.DailyRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.lookupLocked(tier, id)
	if !ok {
		return stats.DailyRecord{}, stats.ErrNotFound
	}
	rec.RawCounters = counters
	rec.UpdatedAt = time.Now().UTC()
	return *rec, nil
}

func (m *Memory) lookupLocked(tier stats.Tier, id string) (*stats.DailyRecord, bool) {
	k, ok := m.byID[id]
	if !ok || k.Tier != tier {
		return nil, false
	}
	rec, ok := m.records[k]
	return rec, ok
}

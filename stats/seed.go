/*
seed.go - Work-week gap filling

PURPOSE:
  Makes sure the five weekdays of the current week exist for a tier, so
  the UI always shows Monday through Friday even before any entry is
  made. Insert-if-absent only: running this any number of times never
  overwrites data an operator already typed in.

  Designed to run on every page load; a second call in the same week
  inserts nothing and reports 0.
*/
package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// WeekSeeder inserts zeroed records for the weekdays of the current week.
type WeekSeeder struct {
	Store RecordStore

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewWeekSeeder(store RecordStore) *WeekSeeder {
	return &WeekSeeder{Store: store, Now: time.Now}
}

// SeedCurrentWeek ensures Monday..Friday of the current UTC week exist,
// returning how many days were newly inserted (0 when the week is already
// present). The five writes target distinct keys and run concurrently; the
// first failure aborts the call and is surfaced with the day that failed.
func (s *WeekSeeder) SeedCurrentWeek(ctx context.Context, tier Tier) (int, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	monday := MondayOfWeek(now().UTC())

	var inserted atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 5; i++ {
		day := monday.AddDays(i)
		g.Go(func() error {
			_, created, err := s.Store.InsertIfAbsent(ctx, tier, day, RawCounters{})
			if err != nil {
				return fmt.Errorf("seed %s %s: %w", tier, day, err)
			}
			if created {
				inserted.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(inserted.Load()), err
	}
	return int(inserted.Load()), nil
}

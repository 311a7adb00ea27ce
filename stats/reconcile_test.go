package stats_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiavinjanahary/STT/stats"
	memstore "github.com/Tiavinjanahary/STT/stats/store"
)

func TestReconcile_CreatesRecord(t *testing.T) {
	store := memstore.NewMemory()
	rec := stats.NewReconciler(store)
	ctx := context.Background()

	created, err := rec.Reconcile(ctx, stats.TierN1, "2025-03-10", stats.FieldValues{
		"appel": 4, "jira": "2", "p1": 1,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2025-03-10", created.Date.String())
	assert.Equal(t, stats.RawCounters{Appel: 4, Jira: 2, P1: 1}, created.RawCounters)
}

func TestReconcile_LastWriteWins(t *testing.T) {
	store := memstore.NewMemory()
	rec := stats.NewReconciler(store)
	ctx := context.Background()

	first, err := rec.Reconcile(ctx, stats.TierN1, "2025-03-10", stats.FieldValues{"appel": 4})
	require.NoError(t, err)

	// Same day, different format, different values.
	second, err := rec.Reconcile(ctx, stats.TierN1, "2025-03-10T18:00:00Z", stats.FieldValues{"appel": 9, "mail": 1})
	require.NoError(t, err)

	// Still one record, holding the latest values, same identity.
	records, err := store.Find(ctx, stats.TierN1, stats.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.ID, second.ID, "upsert must preserve identity")
	assert.Equal(t, stats.RawCounters{Appel: 9, Mail: 1}, records[0].RawCounters)
}

func TestReconcile_TiersAreDisjoint(t *testing.T) {
	store := memstore.NewMemory()
	rec := stats.NewReconciler(store)
	ctx := context.Background()

	_, err := rec.Reconcile(ctx, stats.TierN1, "2025-03-10", stats.FieldValues{"appel": 4})
	require.NoError(t, err)
	_, err = rec.Reconcile(ctx, stats.TierN2, "2025-03-10", stats.FieldValues{"appel": 7})
	require.NoError(t, err)

	n1, err := store.Find(ctx, stats.TierN1, stats.RecordQuery{})
	require.NoError(t, err)
	n2, err := store.Find(ctx, stats.TierN2, stats.RecordQuery{})
	require.NoError(t, err)

	require.Len(t, n1, 1)
	require.Len(t, n2, 1)
	assert.Equal(t, 4, n1[0].Appel)
	assert.Equal(t, 7, n2[0].Appel)
}

func TestReconcile_InvalidDate(t *testing.T) {
	store := memstore.NewMemory()
	rec := stats.NewReconciler(store)

	_, err := rec.Reconcile(context.Background(), stats.TierN1, "not-a-date", stats.FieldValues{"appel": 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stats.ErrInvalidDate))

	// Nothing was written.
	records, err := store.Find(context.Background(), stats.TierN1, stats.RecordQuery{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

package workbook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiavinjanahary/STT/stats"
	memstore "github.com/Tiavinjanahary/STT/stats/store"
)

// buildLegacyWorkbook writes a minimal synthesis workbook: labels in column
// A, day columns from B, dates in row 10, indicators in the fixed rows.
func buildLegacyWorkbook(t *testing.T, withAnchor bool) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A10", "Semaine"))

	if withAnchor {
		// Anchor as a native Excel date, the next day as a date string,
		// then a trailing annotation column that ends the sheet.
		require.NoError(t, f.SetCellValue(sheet, "B10", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, f.SetCellValue(sheet, "C10", "2024-12-31"))
		require.NoError(t, f.SetCellValue(sheet, "D10", "notes"))
		require.NoError(t, f.SetCellValue(sheet, "E10", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
	} else {
		require.NoError(t, f.SetCellValue(sheet, "B10", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))
	}

	// Indicators under the anchor column.
	require.NoError(t, f.SetCellValue(sheet, "B2", 5))   // appel
	require.NoError(t, f.SetCellValue(sheet, "B4", "3")) // mail, numeric string
	require.NoError(t, f.SetCellValue(sheet, "B6", "x")) // escalade, garbage -> 0
	require.NoError(t, f.SetCellValue(sheet, "B11", 1))  // p1
	// jira (B3), p2..p4 left empty -> 0

	// Indicators under the second column.
	require.NoError(t, f.SetCellValue(sheet, "C3", 7)) // jira

	// Values under the "notes" column must never be read.
	require.NoError(t, f.SetCellValue(sheet, "D2", 999))

	path := t.TempDir() + "/synthese.xlsx"
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestImporter(store stats.RecordStore) *Importer {
	return NewImporter(stats.NewReconciler(store))
}

func TestImportFile_LegacyLayout(t *testing.T) {
	store := memstore.NewMemory()
	im := newTestImporter(store)
	path := buildLegacyWorkbook(t, true)

	count, err := im.ImportFile(context.Background(), stats.TierN1, path)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "scan stops at the first non-date header")

	records, err := store.Find(context.Background(), stats.TierN1, stats.RecordQuery{Ascending: true})
	require.NoError(t, err)
	require.Len(t, records, 2)

	dec30 := records[0]
	assert.Equal(t, "2024-12-30", dec30.Date.String())
	assert.Equal(t, stats.RawCounters{Appel: 5, Mail: 3, P1: 1}, dec30.RawCounters)

	dec31 := records[1]
	assert.Equal(t, "2024-12-31", dec31.Date.String())
	assert.Equal(t, stats.RawCounters{Jira: 7}, dec31.RawCounters)
}

func TestImportFile_RerunOverwritesManualEdits(t *testing.T) {
	store := memstore.NewMemory()
	im := newTestImporter(store)
	ctx := context.Background()
	path := buildLegacyWorkbook(t, true)

	_, err := im.ImportFile(ctx, stats.TierN1, path)
	require.NoError(t, err)

	// Operator edits an imported day by hand.
	records, err := store.Find(ctx, stats.TierN1, stats.RecordQuery{Ascending: true})
	require.NoError(t, err)
	_, err = store.UpdateFields(ctx, stats.TierN1, records[0].ID, stats.RawCounters{Appel: 42})
	require.NoError(t, err)

	// Re-running the import reconciles the same days: no duplicates, and
	// the workbook values win again.
	count, err := im.ImportFile(ctx, stats.TierN1, path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err = store.Find(ctx, stats.TierN1, stats.RecordQuery{Ascending: true})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 5, records[0].Appel)
}

func TestImportFile_AnchorNotFound(t *testing.T) {
	store := memstore.NewMemory()
	im := newTestImporter(store)
	path := buildLegacyWorkbook(t, false)

	count, err := im.ImportFile(context.Background(), stats.TierN1, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrAnchorNotFound)
	assert.Zero(t, count)

	// Nothing was written before the anchor search failed.
	records, err := store.Find(context.Background(), stats.TierN1, stats.RecordQuery{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestImportReader(t *testing.T) {
	store := memstore.NewMemory()
	im := newTestImporter(store)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "B10", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "B2", 11))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	count, err := im.ImportReader(context.Background(), stats.TierN1, buf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestParseHeaderDate(t *testing.T) {
	// Excel serial for 2024-12-30.
	serial, ok := parseHeaderDate("45656")
	require.True(t, ok)
	assert.Equal(t, "2024-12-30", serial.String())

	str, ok := parseHeaderDate(" 2024-12-31 ")
	require.True(t, ok)
	assert.Equal(t, "2024-12-31", str.String())

	for _, bad := range []string{"", "notes", "-12"} {
		_, ok := parseHeaderDate(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

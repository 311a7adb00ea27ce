package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiavinjanahary/STT/stats"
)

func TestWriteSummary(t *testing.T) {
	totals := stats.TotalsSummary{
		Appel: 8, Jira: 2, Mail: 5, Escalade: 1,
		P1: 1, P2: 2, P3: 1, P4: 1,
		Total: 15, Traite: 5, EnCours: 9,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, totals))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet}, f.GetSheetList(), "only the summary sheet")

	cell := func(ref string) string {
		v, err := f.GetCellValue(SummarySheet, ref)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Indicateur", cell("A1"))
	assert.Equal(t, "Total", cell("B1"))

	assert.Equal(t, "Appel", cell("A2"))
	assert.Equal(t, "8", cell("B2"))
	assert.Equal(t, "Total Global", cell("A5"))
	assert.Equal(t, "15", cell("B5"))
	assert.Equal(t, "Tickets Traités", cell("A11"))
	assert.Equal(t, "5", cell("B11"))
	assert.Equal(t, "Tickets En Cours", cell("A12"))
	assert.Equal(t, "9", cell("B12"))
}

func TestWriteSummary_ZeroTotals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, stats.TotalsSummary{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestSummaryFileName(t *testing.T) {
	assert.Equal(t, "STT_N1_N2_all_time.xlsx", SummaryFileName(nil))

	rng, err := stats.ParseDateRange("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, "STT_N1_N2_2025-01-01_2025-01-31.xlsx", SummaryFileName(&rng))
}

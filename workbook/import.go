/*
Package workbook reads and writes the Excel artifacts around the daily
statistics: the legacy synthesis workbook imported as historical data, and
the summary workbook produced by the export endpoint.

LEGACY LAYOUT:
  The historical workbook carries one column per day on its first sheet.
  Dates sit in a single header row (row 10); the eight indicator counts sit
  in fixed rows below and above it:

    row  2  appel        row 11  p1
    row  3  jira         row 12  p2
    row  4  mail         row 13  p3
    row  6  escalade     row 14  p4

  Import starts at the anchor date (2024-12-30), the first tracked day, and
  walks columns left to right until the first header cell that is not a
  date - the sheet ends there; trailing annotation columns are a boundary,
  not an error.

CELL COERCION:
  Header cells may hold native Excel serial dates or date strings. Indicator
  cells may hold numbers, formulas (the cached result is used) or nothing;
  anything non-numeric counts as 0.

RE-RUN SAFETY:
  Every discovered day goes through the reconciler, so importing twice never
  duplicates a day - it overwrites, last writer wins, including over manual
  edits to those days.
*/
package workbook

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Tiavinjanahary/STT/stats"
)

// LegacyHeaderRow is the 1-based worksheet row holding the per-column dates.
const LegacyHeaderRow = 10

// LegacyAnchorDate is the first tracked day; the scan starts at its column.
var LegacyAnchorDate = stats.NewDateKey(2024, time.December, 30)

// RowMapping maps canonical counter names to 1-based worksheet rows.
type RowMapping map[string]int

// LegacyRowMapping returns the indicator rows of the legacy workbook.
func LegacyRowMapping() RowMapping {
	return RowMapping{
		"appel":    2,
		"jira":     3,
		"mail":     4,
		"escalade": 6,
		"p1":       11,
		"p2":       12,
		"p3":       13,
		"p4":       14,
	}
}

// Importer reconciles a legacy workbook into a tier's record store.
type Importer struct {
	Reconciler *stats.Reconciler
	HeaderRow  int
	Anchor     stats.DateKey
	Rows       RowMapping
}

// NewImporter builds an importer wired for the legacy layout.
func NewImporter(rec *stats.Reconciler) *Importer {
	return &Importer{
		Reconciler: rec,
		HeaderRow:  LegacyHeaderRow,
		Anchor:     LegacyAnchorDate,
		Rows:       LegacyRowMapping(),
	}
}

// ImportFile imports the workbook at path into the tier's store and returns
// the number of day columns reconciled.
func (im *Importer) ImportFile(ctx context.Context, tier stats.Tier, path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return im.importSheet(ctx, tier, f)
}

// ImportReader imports a workbook read from r (e.g. an upload).
func (im *Importer) ImportReader(ctx context.Context, tier stats.Tier, r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return im.importSheet(ctx, tier, f)
}

// column is one day's worth of cells, assembled before any write happens so
// a failed upsert never leaves the scan half-read.
type column struct {
	day    stats.DateKey
	fields stats.FieldValues
}

func (im *Importer) importSheet(ctx context.Context, tier stats.Tier, f *excelize.File) (int, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return 0, fmt.Errorf("workbook has no worksheet")
	}

	// Raw values: serial numbers for dates, cached results for formulas.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if im.HeaderRow > len(rows) {
		return 0, fmt.Errorf("%w: sheet has no row %d", stats.ErrAnchorNotFound, im.HeaderRow)
	}
	header := rows[im.HeaderRow-1]

	// First occurrence of the anchor date wins.
	anchorCol := -1
	for c, cell := range header {
		if day, ok := parseHeaderDate(cell); ok && day.Equal(im.Anchor) {
			anchorCol = c
			break
		}
	}
	if anchorCol == -1 {
		return 0, fmt.Errorf("%w: expected %s in row %d", stats.ErrAnchorNotFound, im.Anchor, im.HeaderRow)
	}

	var columns []column
	for c := anchorCol; c < len(header); c++ {
		day, ok := parseHeaderDate(header[c])
		if !ok {
			break // legacy sheet ends at the first non-date header
		}
		fields := make(stats.FieldValues, len(im.Rows))
		for name, rowNo := range im.Rows {
			fields[name] = cellAt(rows, rowNo, c)
		}
		columns = append(columns, column{day: day, fields: fields})
	}

	// Each column targets a distinct day, so the upserts are independent.
	var reconciled atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	for _, col := range columns {
		col := col
		g.Go(func() error {
			if _, err := im.Reconciler.ReconcileDay(ctx, tier, col.day, col.fields); err != nil {
				return fmt.Errorf("import column %s: %w", col.day, err)
			}
			reconciled.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(reconciled.Load()), err
	}
	return int(reconciled.Load()), nil
}

// parseHeaderDate interprets a raw header cell as a calendar day: either a
// native Excel serial date or a parseable date string.
func parseHeaderDate(cell string) (stats.DateKey, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return stats.DateKey{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return stats.DateKey{}, false
		}
		return stats.DateKeyOf(t), true
	}
	day, err := stats.ParseDate(s)
	if err != nil {
		return stats.DateKey{}, false
	}
	return day, true
}

// cellAt returns the raw cell value at (1-based row, 0-based col), or nil
// when the sheet is shorter than the mapping expects.
func cellAt(rows [][]string, rowNo, col int) any {
	if rowNo < 1 || rowNo > len(rows) {
		return nil
	}
	row := rows[rowNo-1]
	if col >= len(row) {
		return nil
	}
	return row[col]
}

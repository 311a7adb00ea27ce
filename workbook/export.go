/*
export.go - Summary workbook writer

PURPOSE:
  Renders the combined N1+N2 totals as a two-column worksheet, one row per
  indicator, for the export endpoint to stream as a download. Consumes a
  TotalsSummary produced by the aggregator; does no arithmetic of its own.
*/
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Tiavinjanahary/STT/stats"
)

// SummarySheet is the name of the single worksheet in the export.
const SummarySheet = "Résumé N1+N2"

// indicatorRows pairs display labels with summary values, in sheet order.
func indicatorRows(t stats.TotalsSummary) []struct {
	Label string
	Value int
} {
	return []struct {
		Label string
		Value int
	}{
		{"Appel", t.Appel},
		{"Jira", t.Jira},
		{"Mail", t.Mail},
		{"Total Global", t.Total},
		{"Escaladé", t.Escalade},
		{"P1", t.P1},
		{"P2", t.P2},
		{"P3", t.P3},
		{"P4", t.P4},
		{"Tickets Traités", t.Traite},
		{"Tickets En Cours", t.EnCours},
	}
}

// WriteSummary writes a summary workbook for the given totals to w.
func WriteSummary(w io.Writer, totals stats.TotalsSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SummarySheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 15); err != nil {
		return err
	}

	if err := f.SetCellValue(SummarySheet, "A1", "Indicateur"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B1", "Total"); err != nil {
		return err
	}

	rows := indicatorRows(totals)
	for i, row := range rows {
		n := i + 2
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", n), row.Label); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", n), row.Value); err != nil {
			return err
		}
	}

	// Bold header, right-aligned values.
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", bold); err != nil {
		return err
	}
	right, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B2", fmt.Sprintf("B%d", len(rows)+1), right); err != nil {
		return err
	}

	return f.Write(w)
}

// SummaryFileName builds the download name: STT_N1_N2_<start>_<end>.xlsx
// for a range export, STT_N1_N2_all_time.xlsx otherwise.
func SummaryFileName(rng *stats.DateRange) string {
	if rng != nil {
		return fmt.Sprintf("STT_N1_N2_%s_%s.xlsx", rng.Start, rng.End)
	}
	return "STT_N1_N2_all_time.xlsx"
}

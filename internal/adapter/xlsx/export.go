// Package xlsx writes a filtered tree subset as an Excel workbook.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
)

// Sheet names in the exported workbook.
const (
	TreesSheet   = "Trees"
	SummarySheet = "Summary"
)

var treeHeaders = []any{
	"tree_id", "health", "spc_common", "steward", "borough",
	"latitude", "longitude", "x_sp", "y_sp",
}

// Export writes rows to w as a workbook with a Trees sheet (one line per
// tree) and a Summary sheet (selection, bar counts and health proportions).
func Export(w io.Writer, sel domain.Selection, rows []domain.Tree) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TreesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeTrees(f, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, sel, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTrees(f *excelize.File, rows []domain.Tree) error {
	sw, err := f.NewStreamWriter(TreesSheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", treeHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			t.ID, string(t.Health), t.Species, t.Steward.String(), t.Borough,
			t.Lat, t.Lon, t.XSP, t.YSP,
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush trees: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, sel domain.Selection, rows []domain.Tree) error {
	lines := [][]any{
		{"Species", strings.Join(sel.Species, ", ")},
		{"Borough", strings.Join(sel.Boroughs, ", ")},
		{"Steward Values Up to", sel.StewardCeiling().String()},
		{"Trees", len(rows)},
		{},
		{"steward", "health", "count"},
	}
	for _, g := range domain.CountByStewardHealth(rows) {
		lines = append(lines, []any{g.Steward.String(), string(g.Health), g.Count})
	}
	lines = append(lines, []any{}, []any{"health", "proportion"})
	for _, p := range domain.HealthProportions(rows) {
		lines = append(lines, []any{string(p.Health), p.Fraction})
	}

	for i, line := range lines {
		for j, v := range line {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(SummarySheet, cell, v); err != nil {
				return fmt.Errorf("write summary %s: %w", cell, err)
			}
		}
	}
	return nil
}

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/borate/internal/batch"
)

// IntegralsSheet names the summary sheet.
const IntegralsSheet = "integrals"

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// SeriesHeader is the header row of every concentration sheet.
var SeriesHeader = []string{
	"pH", "x_solved",
	"k1", "k2", "k3", "k4", "k5",
	"Y1", "Y2", "Y3", "Y4", "Y5",
}

// IntegralsHeader is the header row of the integrals sheet.
var IntegralsHeader = []string{
	"Concentration",
	"∫k1 dpH", "∫k2 dpH", "∫k3 dpH", "∫k4 dpH", "∫k5 dpH",
	"pH_min", "pH_max", "points",
}

// WriteWorkbook writes res as an xlsx workbook to w. Series sheets come
// first in ascending concentration order, followed by the integrals sheet.
func WriteWorkbook(w io.Writer, res *batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	names := SheetNames(res.Concentrations)
	for i, s := range res.Series {
		if err := writeSeriesSheet(f, names[i], s); err != nil {
			return err
		}
	}
	if err := writeIntegralsSheet(f, res.Integrals); err != nil {
		return err
	}

	// NewFile starts with a default sheet we never fill.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SheetNames returns one unique sheet name per concentration: "C=" plus the
// value to six significant digits, truncated to Excel's 31 characters.
// Values that print identically get a " (n)" suffix.
func SheetNames(concs []float64) []string {
	names := make([]string, len(concs))
	seen := make(map[string]int, len(concs))
	for i, c := range concs {
		name := truncate(fmt.Sprintf("C=%.6g", c), maxSheetName)
		seen[name]++
		if n := seen[name]; n > 1 {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(name, maxSheetName-len(suffix)) + suffix
		}
		names[i] = name
	}
	return names
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func writeSeriesSheet(f *excelize.File, name string, s batch.Series) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	if err := setRow(f, name, 1, header(SeriesHeader)); err != nil {
		return err
	}
	for i, r := range s.Rows {
		row := make([]any, 0, len(SeriesHeader))
		row = append(row, r.PH, r.X)
		for _, k := range r.K {
			row = append(row, k)
		}
		for _, y := range r.Y {
			row = append(row, y)
		}
		if err := setRow(f, name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeIntegralsSheet(f *excelize.File, rows []batch.IntegralRow) error {
	if _, err := f.NewSheet(IntegralsSheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", IntegralsSheet, err)
	}
	if err := setRow(f, IntegralsSheet, 1, header(IntegralsHeader)); err != nil {
		return err
	}
	for i, r := range rows {
		row := make([]any, 0, len(IntegralsHeader))
		row = append(row, r.Concentration)
		for _, v := range r.Integrals {
			row = append(row, v)
		}
		row = append(row, r.PHMin, r.PHMax, r.Points)
		if err := setRow(f, IntegralsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func header(cols []string) []any {
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	return row
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("sheet %q row %d: %w", sheet, row, err)
	}
	return nil
}

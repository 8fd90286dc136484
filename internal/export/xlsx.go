package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary   = "通勤費集計"
	SheetDetails   = "明細"
	SheetLocations = "出勤先別"
)

// Workbook builds a three-sheet xlsx: per-person totals, every fact, and
// fact counts per location.
func Workbook(summary []SummaryRow, details []DetailRow, locations []LocationRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDetails, SheetLocations} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	w := sheetWriter{f: f, header: header}
	w.row(SheetSummary, 1, toCells(summaryHeader), true)
	for i, r := range SortSummary(summary) {
		w.row(SheetSummary, i+2, []interface{}{r.Name, r.TotalCost, r.WorkDays}, false)
	}

	w.row(SheetDetails, 1, toCells(detailHeader), true)
	for i, r := range details {
		rec := detailRecord(r)
		cells := toCells(rec)
		cells[0] = r.SourceRow
		cells[9] = r.Cost
		w.row(SheetDetails, i+2, cells, false)
	}

	w.row(SheetLocations, 1, []interface{}{"出勤場所", "件数"}, true)
	for i, r := range locations {
		w.row(SheetLocations, i+2, []interface{}{r.Location, r.Count}, false)
	}
	if w.err != nil {
		return nil, w.err
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 18)
	_ = f.SetColWidth(SheetDetails, "B", "C", 16)
	_ = f.SetColWidth(SheetDetails, "I", "I", 36)
	_ = f.SetColWidth(SheetLocations, "A", "A", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the row loop stays flat.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, row int, cells []interface{}, isHeader bool) {
	if w.err != nil {
		return
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, start, &cells); err != nil {
		w.err = fmt.Errorf("%s row %d: %w", sheet, row, err)
		return
	}
	if isHeader {
		end, _ := excelize.CoordinatesToCellName(len(cells), row)
		w.err = w.f.SetCellStyle(sheet, start, end, w.header)
	}
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

package workbook

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/grid"
	workbookerrors "github.com/ishiyama1989/koutuhi/internal/workbook/errors"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct {
	f *excelize.File
}

func openXLSX(data []byte) (*xlsxReader, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &xlsxReader{f: f}, nil
}

func (x *xlsxReader) ListSheets() []string {
	return x.f.GetSheetList()
}

func (x *xlsxReader) Close() error {
	return x.f.Close()
}

// ReadGrid reads raw values so date-formatted cells keep their serial number.
func (x *xlsxReader) ReadGrid(sheet string) (grid.Grid, error) {
	if !hasSheet(x.ListSheets(), sheet) {
		return nil, workbookerrors.ErrSheetNotFound
	}
	rows, err := x.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	g := make(grid.Grid, len(rows))
	for r, row := range rows {
		g[r] = make([]grid.Cell, len(row))
		for c, v := range row {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := x.f.GetCellType(sheet, axis)
			if err != nil {
				return nil, err
			}
			g[r][c] = typedCell(typ, v)
		}
	}
	return dropBlankRows(g), nil
}

func typedCell(typ excelize.CellType, v string) grid.Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeBool, excelize.CellTypeError:
		return grid.Text(v)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return grid.At(t)
		}
		return grid.Text(v)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return grid.Num(f)
	}
	return grid.Text(v)
}

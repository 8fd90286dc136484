package workbook

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/grid"
	workbookerrors "github.com/ishiyama1989/koutuhi/internal/workbook/errors"

	"github.com/extrame/xls"
)

type xlsReader struct {
	wb *xls.WorkBook
}

func openXLS(data []byte) (*xlsReader, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	return &xlsReader{wb: wb}, nil
}

func (x *xlsReader) ListSheets() []string {
	out := make([]string, 0, x.wb.NumSheets())
	for i := 0; i < x.wb.NumSheets(); i++ {
		if s := x.wb.GetSheet(i); s != nil {
			out = append(out, s.Name)
		}
	}
	return out
}

func (x *xlsReader) Close() error { return nil }

// ReadGrid only sees formatted text, so numeric-looking cells are parsed
// back into numbers.
func (x *xlsReader) ReadGrid(sheet string) (grid.Grid, error) {
	var ws *xls.WorkSheet
	for i := 0; i < x.wb.NumSheets(); i++ {
		if s := x.wb.GetSheet(i); s != nil && s.Name == sheet {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, workbookerrors.ErrSheetNotFound
	}

	g := make(grid.Grid, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			g = append(g, nil)
			continue
		}
		cells := make([]grid.Cell, row.LastCol()+1)
		for c := row.FirstCol(); c <= row.LastCol(); c++ {
			cells[c] = textCell(row.Col(c))
		}
		g = append(g, cells)
	}
	return dropBlankRows(g), nil
}

func textCell(v string) grid.Cell {
	s := strings.TrimSpace(v)
	if s == "" {
		return grid.Cell{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return grid.Num(f)
	}
	return grid.Text(v)
}

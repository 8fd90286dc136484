// Package workbook reads spreadsheets into typed cell grids.
package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/grid"
	workbookerrors "github.com/ishiyama1989/koutuhi/internal/workbook/errors"
)

// Reader exposes the sheets of one opened workbook.
type Reader interface {
	ListSheets() []string
	ReadGrid(sheet string) (grid.Grid, error)
	Close() error
}

var (
	zipMagic = []byte("PK\x03\x04")
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Open detects the format from the file signature, falling back to the file
// extension, and opens the workbook.
func Open(data []byte, filename string) (Reader, error) {
	if len(data) == 0 {
		return nil, workbookerrors.ErrUnreadable
	}

	var (
		r   Reader
		err error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		r, err = openXLSX(data)
	case bytes.HasPrefix(data, cfbMagic):
		r, err = openXLS(data)
	case strings.EqualFold(filepath.Ext(filename), ".xls"):
		r, err = openXLS(data)
	default:
		r, err = openXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", workbookerrors.ErrUnreadable, err)
	}
	if len(r.ListSheets()) == 0 {
		_ = r.Close()
		return nil, workbookerrors.ErrNoSheets
	}
	return r, nil
}

// ReadFirstOr reads the named sheet, or the first one when name is empty.
func ReadFirstOr(r Reader, name string) (string, grid.Grid, error) {
	if name == "" {
		name = r.ListSheets()[0]
	}
	g, err := r.ReadGrid(name)
	return name, g, err
}

// dropBlankRows removes rows without any value and trims trailing blank cells.
func dropBlankRows(g grid.Grid) grid.Grid {
	out := make(grid.Grid, 0, len(g))
	for _, row := range g {
		last := -1
		for i, c := range row {
			if !c.IsBlank() {
				last = i
			}
		}
		if last < 0 {
			continue
		}
		out = append(out, row[:last+1])
	}
	return out
}

func hasSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

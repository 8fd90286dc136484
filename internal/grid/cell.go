package grid

import (
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	Blank Kind = iota
	String
	Number
	Date
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	default:
		return "blank"
	}
}

// Cell is one typed spreadsheet value. Only the field matching Kind is meaningful.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
	Time time.Time
}

func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: String, Str: s}
}

func Num(f float64) Cell {
	return Cell{Kind: Number, Num: f}
}

func At(t time.Time) Cell {
	return Cell{Kind: Date, Time: t}
}

// String renders the cell the way a spreadsheet would show its raw value.
func (c Cell) String() string {
	switch c.Kind {
	case String:
		return c.Str
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Date:
		return c.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

func (c Cell) IsBlank() bool {
	return c.Kind == Blank || strings.TrimSpace(c.String()) == ""
}

// Grid is a row-major sheet. Rows may be ragged.
type Grid [][]Cell

// At returns the cell at (r, c) or a blank cell when out of range.
func (g Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g) || c < 0 || c >= len(g[r]) {
		return Cell{}
	}
	return g[r][c]
}

func (g Grid) Row(r int) []Cell {
	if r < 0 || r >= len(g) {
		return nil
	}
	return g[r]
}

// FromStrings builds a grid of string cells; empty strings become blank cells.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		g[i] = make([]Cell, len(row))
		for j, v := range row {
			g[i][j] = Text(v)
		}
	}
	return g
}

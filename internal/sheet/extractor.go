// Package sheet extracts draft attendance facts from a raw cell grid.
package sheet

import (
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/dateresolve"
	"github.com/ishiyama1989/koutuhi/internal/grid"
	"github.com/ishiyama1989/koutuhi/internal/location"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/normalize"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	sheeterrors "github.com/ishiyama1989/koutuhi/internal/sheet/errors"

	"github.com/xuri/excelize/v2"
)

const (
	HeaderSentinel = "氏名"

	dateHeaderRow = 3
	weekdayRow    = 4
)

// Draft is one extracted (person, date, location) tuple before matching.
type Draft struct {
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	Date         string `json:"date"`
	DayOfWeek    string `json:"dayOfWeek"`
	Location     string `json:"location"`
	OriginalCell string `json:"originalCell"`
	SourceRow    int    `json:"sourceRow"`
}

type Extractor struct {
	snap      registry.Snapshot
	dates     *dateresolve.Resolver
	locations *location.Estimator
}

func NewExtractor(snap registry.Snapshot, dates *dateresolve.Resolver) *Extractor {
	if dates == nil {
		dates = dateresolve.New()
	}
	return &Extractor{snap: snap, dates: dates, locations: location.NewEstimator(snap)}
}

// DetectHeaderRow returns 4 for grids longer than four rows, otherwise the
// first of the first five rows holding any value.
func DetectHeaderRow(g grid.Grid) (int, bool) {
	if len(g) > weekdayRow {
		return weekdayRow, true
	}
	for i := 0; i < len(g) && i < 5; i++ {
		for _, c := range g[i] {
			if !c.IsBlank() {
				return i, true
			}
		}
	}
	return 0, false
}

func (e *Extractor) Extract(g grid.Grid, m Mapping) ([]Draft, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	header, ok := DetectHeaderRow(g)
	if !ok {
		return nil, sheeterrors.ErrEmptySheet
	}

	start := m.StartRow - 1
	if start < header+1 {
		start = header + 1
	}

	if m.Layout == LayoutRow {
		return e.extractRows(g, m, start), nil
	}
	return e.extractTable(g, m, start), nil
}

func (e *Extractor) extractTable(g grid.Grid, m Mapping, start int) []Draft {
	out := []Draft{}
	end := m.EndColumn()
	if len(g) <= dateHeaderRow {
		return out
	}

	for r := start; r < len(g); r++ {
		rawName := strings.TrimSpace(g.At(r, m.NameColumn).String())
		if rawName == "" || rawName == HeaderSentinel {
			continue
		}
		name := normalize.Name(rawName)

		for col := m.DateStartColumn; col <= end; col++ {
			cell := g.At(r, col)
			if cell.IsBlank() {
				continue
			}
			loc, ok := e.locations.Estimate(cell.String(), name)
			if !ok {
				continue
			}
			date := e.dates.Resolve(g.At(dateHeaderRow, col), g.At(weekdayRow, col))
			out = append(out, Draft{
				Name:         name,
				OriginalName: rawName,
				Date:         date.ISODate,
				DayOfWeek:    date.DayOfWeek,
				Location:     loc,
				OriginalCell: cell.String(),
				SourceRow:    r + 1,
			})
		}
	}
	return out
}

// extractRows reads one fact per row. The work code lives in the date cell,
// so the location is estimated from that same cell.
func (e *Extractor) extractRows(g grid.Grid, m Mapping, start int) []Draft {
	out := []Draft{}
	for r := start; r < len(g); r++ {
		nameCell := g.At(r, m.NameColumn)
		dateCell := g.At(r, m.DateStartColumn)
		if nameCell.IsBlank() && dateCell.IsBlank() {
			continue
		}
		rawName := strings.TrimSpace(nameCell.String())
		if rawName == HeaderSentinel {
			continue
		}
		name := normalize.Name(rawName)

		loc, ok := e.locations.Estimate(dateCell.String(), rawName)
		if !ok {
			continue
		}
		if p := matcher.FindPerson(e.snap, rawName); p != nil && p.NearestStation != "" {
			if wp := matcher.FindWorkPattern(e.snap, loc, dateCell.String()); wp.TrainPossible() {
				loc = p.NearestStation
			}
		}

		date := e.dates.ResolveValue(dateCell)
		out = append(out, Draft{
			Name:         name,
			OriginalName: rawName,
			Date:         date.ISODate,
			DayOfWeek:    date.DayOfWeek,
			Location:     loc,
			OriginalCell: dateCell.String(),
			SourceRow:    r + 1,
		})
	}
	return out
}

type Column struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	Label  string `json:"label"`
}

// Columns lists selectable columns labelled from the detected header row,
// at least minColumns of them so wide sheets stay selectable.
func Columns(g grid.Grid, minColumns int) []Column {
	header, _ := DetectHeaderRow(g)
	row := g.Row(header)
	n := len(row)
	if n < minColumns {
		n = minColumns
	}
	out := make([]Column, 0, n)
	for i := 0; i < n; i++ {
		letter, _ := excelize.ColumnNumberToName(i + 1)
		label := strings.TrimSpace(g.At(header, i).String())
		if label == "" {
			label = "空欄"
		}
		out = append(out, Column{Index: i, Letter: letter, Label: label})
	}
	return out
}

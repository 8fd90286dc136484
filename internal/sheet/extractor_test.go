package sheet_test

import (
	"testing"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/dateresolve"
	"github.com/ishiyama1989/koutuhi/internal/grid"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/sheet"
	sheeterrors "github.com/ishiyama1989/koutuhi/internal/sheet/errors"
	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func km(v float64) *float64 { return &v }
func col(v int) *int        { return &v }

func fixedDates() *dateresolve.Resolver {
	return &dateresolve.Resolver{Now: func() time.Time {
		return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	}}
}

func testSnapshot() registry.Snapshot {
	return registry.NewSnapshot(
		[]registry.Person{
			{Name: "山田太郎", NearestStation: station.Fujisan, NearestStationDistance: km(4)},
			{Name: "田中", HasPrivateCar: true, Distances: map[string]float64{station.Otsuki: 6}},
		},
		[]registry.WorkPattern{
			{Name: "早出", WorkLocation: station.Kawaguchiko, TrainCommute: registry.TrainPossible, TripType: registry.TripRoundTrip},
		},
		registry.DefaultSettings(),
	)
}

func TestExtract_Table(t *testing.T) {
	g := grid.FromStrings([][]string{
		{"勤務表"},
		{},
		{},
		{"", "", "", "2025-06-02", "2025-06-03"},
		{"", "", "", "月", "火"},
		{"", "田中", "", "出張", ""},
	})
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	drafts, err := ex.Extract(g, sheet.Mapping{
		Layout:          sheet.LayoutTable,
		NameColumn:      1,
		DateStartColumn: 3,
		DateEndColumn:   col(4),
		StartRow:        1,
	})
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "田中", d.Name)
	assert.Equal(t, "2025-06-02", d.Date)
	assert.Equal(t, "月", d.DayOfWeek)
	assert.Equal(t, "出張", d.Location)
	assert.Equal(t, "出張", d.OriginalCell)
	assert.Equal(t, 6, d.SourceRow)
}

func TestExtract_TableKeepsUnresolvedText(t *testing.T) {
	g := grid.FromStrings([][]string{
		{}, {}, {},
		{"", "", "", "2025-06-02", "2025-06-03"},
		{"", "", "", "月", "火"},
		{"", "田中", "", "出張", "公休"},
	})
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	drafts, err := ex.Extract(g, sheet.Mapping{Layout: sheet.LayoutTable, NameColumn: 1, DateStartColumn: 3, DateEndColumn: col(4), StartRow: 6})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "公休", drafts[1].Location)
	assert.Equal(t, "2025-06-03", drafts[1].Date)
}

func TestExtract_TableSerialHeadersAndRedirect(t *testing.T) {
	g := grid.Grid{
		{}, {}, {},
		{grid.Cell{}, grid.Num(45800), grid.Num(45801)},
		{grid.Cell{}, grid.Text("Fri"), grid.Cell{}},
		{grid.Text("氏名"), grid.Text("早出"), grid.Text("早出")},
		{grid.Text("山田　太郎"), grid.Text("早出"), grid.Text("大月")},
		{grid.Text("  "), grid.Text("早出"), grid.Text("早出")},
	}
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	drafts, err := ex.Extract(g, sheet.Mapping{Layout: sheet.LayoutTable, NameColumn: 0, DateStartColumn: 1, DateEndColumn: col(2), StartRow: 1})
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "山田 太郎", drafts[0].Name)
	assert.Equal(t, "山田　太郎", drafts[0].OriginalName)
	assert.Equal(t, "2025-05-23", drafts[0].Date)
	assert.Equal(t, "金", drafts[0].DayOfWeek)
	assert.Equal(t, station.Kawaguchiko, drafts[0].Location, "name variant does not resolve, so no redirect")

	assert.Equal(t, "2025-05-24", drafts[1].Date)
	assert.Equal(t, "土", drafts[1].DayOfWeek)
	assert.Equal(t, station.Otsuki, drafts[1].Location)
	assert.Equal(t, 7, drafts[1].SourceRow)
}

func TestExtract_TableRedirectsTrainPattern(t *testing.T) {
	g := grid.FromStrings([][]string{
		{}, {}, {},
		{"", "2025-06-02"},
		{"", "月"},
		{"山田太郎", "早出"},
	})
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	drafts, err := ex.Extract(g, sheet.Mapping{Layout: sheet.LayoutTable, NameColumn: 0, DateStartColumn: 1, StartRow: 1})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, station.Fujisan, drafts[0].Location)
}

func TestExtract_Row(t *testing.T) {
	g := grid.Grid{
		{grid.Text("一覧")},
		{},
		{},
		{},
		{grid.Text("氏名"), grid.Text("勤務")},
		{grid.Text("山田太郎"), grid.Text("早出")},
		{grid.Text("田中"), grid.Text("大月")},
		{grid.Cell{}, grid.Cell{}},
		{grid.Text("氏名"), grid.Text("勤務")},
		{grid.Text("田中"), grid.Num(45800)},
	}
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	drafts, err := ex.Extract(g, sheet.Mapping{Layout: sheet.LayoutRow, NameColumn: 0, DateStartColumn: 1, StartRow: 2})
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, station.Fujisan, drafts[0].Location)
	assert.Equal(t, "早出", drafts[0].Date)
	assert.Equal(t, "", drafts[0].DayOfWeek)
	assert.Equal(t, 6, drafts[0].SourceRow)

	assert.Equal(t, station.Otsuki, drafts[1].Location)

	assert.Equal(t, "2025-05-23", drafts[2].Date)
	assert.Equal(t, "金", drafts[2].DayOfWeek)
	assert.Equal(t, "45800", drafts[2].Location)
	assert.Equal(t, 10, drafts[2].SourceRow)
}

func TestExtract_InvalidMapping(t *testing.T) {
	g := grid.FromStrings([][]string{{"a"}})
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())

	tests := []struct {
		name    string
		mapping sheet.Mapping
		want    error
	}{
		{"layout", sheet.Mapping{Layout: "grid", StartRow: 1}, sheeterrors.ErrInvalidLayout},
		{"name column", sheet.Mapping{Layout: sheet.LayoutTable, NameColumn: -1, StartRow: 1}, sheeterrors.ErrInvalidNameColumn},
		{"date column", sheet.Mapping{Layout: sheet.LayoutRow, DateStartColumn: -1, StartRow: 1}, sheeterrors.ErrInvalidDateColumn},
		{"start row", sheet.Mapping{Layout: sheet.LayoutTable, StartRow: 0}, sheeterrors.ErrInvalidStartRow},
		{"reversed range", sheet.Mapping{Layout: sheet.LayoutTable, DateStartColumn: 5, DateEndColumn: col(3), StartRow: 1}, sheeterrors.ErrDateRangeReversed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts, err := ex.Extract(g, tt.mapping)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, drafts)
		})
	}

	t.Run("row layout ignores end column", func(t *testing.T) {
		m := sheet.Mapping{Layout: sheet.LayoutRow, DateStartColumn: 5, DateEndColumn: col(3), StartRow: 1}
		assert.NoError(t, m.Validate())
	})
}

func TestExtract_EmptySheet(t *testing.T) {
	ex := sheet.NewExtractor(testSnapshot(), fixedDates())
	_, err := ex.Extract(grid.Grid{{}, {}}, sheet.Mapping{Layout: sheet.LayoutTable, StartRow: 1})
	assert.ErrorIs(t, err, sheeterrors.ErrEmptySheet)
}

func TestDetectHeaderRow(t *testing.T) {
	row, ok := sheet.DetectHeaderRow(grid.FromStrings([][]string{{}, {"", "氏名"}, {"x"}}))
	assert.True(t, ok)
	assert.Equal(t, 1, row)

	row, ok = sheet.DetectHeaderRow(grid.FromStrings([][]string{{}, {}, {}, {}, {}, {}}))
	assert.True(t, ok)
	assert.Equal(t, 4, row)
}

func TestColumns(t *testing.T) {
	g := grid.FromStrings([][]string{{"氏名", "", "1日"}})
	cols := sheet.Columns(g, 28)
	require.Len(t, cols, 28)
	assert.Equal(t, sheet.Column{Index: 0, Letter: "A", Label: "氏名"}, cols[0])
	assert.Equal(t, "空欄", cols[1].Label)
	assert.Equal(t, "AB", cols[27].Letter)
}

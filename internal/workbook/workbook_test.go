package workbook_test

import (
	"testing"

	"github.com/ishiyama1989/koutuhi/internal/grid"
	"github.com/ishiyama1989/koutuhi/internal/workbook"
	workbookerrors "github.com/ishiyama1989/koutuhi/internal/workbook/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "6月"))
	_, err := f.NewSheet("メモ")
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue("6月", "A1", "勤務表"))
	require.NoError(t, f.SetCellValue("6月", "D4", 45800))
	require.NoError(t, f.SetCellValue("6月", "E4", "2025-06-03"))
	require.NoError(t, f.SetCellValue("6月", "D5", "金"))
	require.NoError(t, f.SetCellValue("6月", "B7", "田中"))
	require.NoError(t, f.SetCellValue("6月", "D7", "出張"))
	require.NoError(t, f.SetCellValue("6月", "E7", 1.5))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestOpenXLSX(t *testing.T) {
	r, err := workbook.Open(buildXLSX(t), "attendance.xlsx")
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"6月", "メモ"}, r.ListSheets())

	g, err := r.ReadGrid("6月")
	require.NoError(t, err)

	// rows 2, 3 and 6 are blank and suppressed
	require.Len(t, g, 4)
	assert.Equal(t, grid.Text("勤務表"), g.At(0, 0))
	assert.Equal(t, grid.Num(45800), g.At(1, 3))
	assert.Equal(t, grid.Text("2025-06-03"), g.At(1, 4))
	assert.Equal(t, grid.Text("金"), g.At(2, 3))
	assert.Equal(t, grid.Text("田中"), g.At(3, 1))
	assert.Equal(t, grid.Num(1.5), g.At(3, 4))
	assert.True(t, g.At(3, 0).IsBlank())
	assert.True(t, g.At(3, 10).IsBlank())
}

func TestReadGrid_UnknownSheet(t *testing.T) {
	r, err := workbook.Open(buildXLSX(t), "attendance.xlsx")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadGrid("7月")
	assert.ErrorIs(t, err, workbookerrors.ErrSheetNotFound)
}

func TestReadFirstOr(t *testing.T) {
	r, err := workbook.Open(buildXLSX(t), "")
	require.NoError(t, err)
	defer r.Close()

	name, g, err := workbook.ReadFirstOr(r, "")
	require.NoError(t, err)
	assert.Equal(t, "6月", name)
	assert.NotEmpty(t, g)
}

func TestOpen_Unreadable(t *testing.T) {
	_, err := workbook.Open([]byte("not a spreadsheet"), "data.xlsx")
	assert.ErrorIs(t, err, workbookerrors.ErrUnreadable)

	_, err = workbook.Open(nil, "data.xlsx")
	assert.ErrorIs(t, err, workbookerrors.ErrUnreadable)
}

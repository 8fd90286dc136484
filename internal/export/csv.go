// Package export renders preview results as spreadsheet-friendly files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/patternmatch"
)

const bom = "\ufeff"

type SummaryRow struct {
	Name      string
	TotalCost float64
	WorkDays  int
}

type DetailRow struct {
	Name         string
	OriginalName string
	Date         string
	DayOfWeek    string
	Location     string
	OriginalCell string
	Status       string
	Method       string
	Cost         float64
	SourceRow    int
	NameModified bool
}

type LocationRow struct {
	Location string
	Count    int
}

var (
	summaryHeader = []string{"名前", "合計通勤費(円)", "出勤日数"}
	detailHeader  = []string{"行", "名前", "元の名前", "日付", "曜日", "出勤場所", "勤務", "状態", "通勤方法", "通勤費(円)", "修正"}
	patternHeader = []string{"氏名", "ステータス", "一致度", "実勤務日数", "パターン名", "出勤場所", "電車通勤"}
)

// SortSummary orders rows by total cost, highest first. Equal costs keep
// their first-appearance order.
func SortSummary(rows []SummaryRow) []SummaryRow {
	out := append([]SummaryRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCost > out[j].TotalCost })
	return out
}

// SummaryCSV writes the per-person totals with a UTF-8 BOM.
func SummaryCSV(rows []SummaryRow) ([]byte, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, summaryHeader)
	for _, r := range SortSummary(rows) {
		records = append(records, []string{r.Name, Amount(r.TotalCost), strconv.Itoa(r.WorkDays)})
	}
	return writeCSV(records)
}

func DetailCSV(rows []DetailRow) ([]byte, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, detailHeader)
	for _, r := range rows {
		records = append(records, detailRecord(r))
	}
	return writeCSV(records)
}

func detailRecord(r DetailRow) []string {
	modified := ""
	if r.NameModified {
		modified = "修正済み"
	}
	return []string{
		strconv.Itoa(r.SourceRow),
		r.Name,
		r.OriginalName,
		r.Date,
		r.DayOfWeek,
		r.Location,
		r.OriginalCell,
		r.Status,
		r.Method,
		Amount(r.Cost),
		modified,
	}
}

// PatternCSV writes pattern-match results with every cell quoted.
func PatternCSV(results []patternmatch.Result) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)
	writeQuoted(&buf, patternHeader)
	for _, r := range results {
		buf.WriteByte('\n')
		writeQuoted(&buf, patternRecord(r))
	}
	return buf.Bytes()
}

func patternRecord(r patternmatch.Result) []string {
	rec := []string{
		r.PersonName,
		r.Message,
		fmt.Sprintf("%d%%", int(math.Round(r.MatchScore*100))),
		strconv.Itoa(len(r.ActualDays)),
		"", "", "",
	}
	if p := r.BestPattern; p != nil {
		rec[4] = p.Name
		rec[5] = p.WorkLocation
		rec[6] = "不可"
		if p.TrainPossible() {
			rec[6] = "可能"
		}
	}
	return rec
}

func writeQuoted(buf *bytes.Buffer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		buf.WriteByte('"')
	}
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Amount prints a currency value without a trailing ".0".
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

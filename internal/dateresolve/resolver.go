package dateresolve

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/grid"
)

const (
	// serialEpochOffset is the number of days between the spreadsheet epoch
	// (serial 0 = 1899-12-30) and the Unix epoch.
	serialEpochOffset = 25569
	isoLayout         = "2006-01-02"
)

var WeekdayNames = []string{"日", "月", "火", "水", "木", "金", "土"}

var englishWeekdays = []struct {
	abbr string
	name string
}{
	{"sun", "日"}, {"mon", "月"}, {"tue", "火"}, {"wed", "水"},
	{"thu", "木"}, {"fri", "金"}, {"sat", "土"},
}

var (
	isoPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	dayPattern = regexp.MustCompile(`(\d{1,2})日?`)
)

// genericLayouts are tried in order for strings that carry no ISO date.
var genericLayouts = []string{
	"2006/01/02",
	"2006/1/2",
	"2006.1.2",
	"2006年1月2日",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"01/02/2006",
}

type Result struct {
	ISODate   string `json:"isoDate"`
	DayOfWeek string `json:"dayOfWeek"`
}

// Resolver turns heterogeneous date cells into calendar dates. Now supplies
// the month used by the bare day-of-month heuristic.
type Resolver struct {
	Now func() time.Time
}

func New() *Resolver {
	return &Resolver{Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r == nil || r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Resolve converts a date header cell, letting a non-blank weekday header
// override the computed weekday. It never fails: unresolvable input comes back
// as its raw text with an empty weekday.
func (r *Resolver) Resolve(cell, dayHeader grid.Cell) Result {
	res := r.resolveDate(cell)
	if wd, ok := WeekdayFromHeader(dayHeader); ok {
		res.DayOfWeek = wd
	}
	return res
}

// ResolveValue handles the row layout, where the date cell is converted only
// when it is a serial, a native date or an ISO string.
func (r *Resolver) ResolveValue(cell grid.Cell) Result {
	switch cell.Kind {
	case grid.Number:
		return fromTime(FromSerial(cell.Num))
	case grid.Date:
		return fromTime(cell.Time.UTC())
	}
	raw := cell.String()
	res := Result{ISODate: raw}
	if m := isoPattern.FindString(raw); m != "" {
		if t, err := time.Parse(isoLayout, m); err == nil {
			res.DayOfWeek = weekdayName(t)
		}
	}
	return res
}

func (r *Resolver) resolveDate(cell grid.Cell) Result {
	switch cell.Kind {
	case grid.Number:
		return fromTime(FromSerial(cell.Num))
	case grid.Date:
		return fromTime(cell.Time.UTC())
	}

	raw := strings.TrimSpace(cell.String())
	if m := isoPattern.FindString(raw); m != "" {
		res := Result{ISODate: raw}
		if t, err := time.Parse(isoLayout, m); err == nil {
			res.DayOfWeek = weekdayName(t)
		}
		return res
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return fromTime(t)
		}
	}

	if m := dayPattern.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		if day >= 1 && day <= 31 {
			now := r.now()
			t := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, time.UTC)
			return fromTime(t)
		}
	}

	return Result{ISODate: raw}
}

// FromSerial converts a spreadsheet date serial to a UTC instant.
func FromSerial(serial float64) time.Time {
	ms := (serial - serialEpochOffset) * 86400 * 1000
	return time.UnixMilli(int64(ms)).UTC()
}

// WeekdayFromHeader extracts a weekday label from a header cell holding a
// Japanese weekday character or an English three-letter abbreviation.
func WeekdayFromHeader(header grid.Cell) (string, bool) {
	s := strings.TrimSpace(header.String())
	if s == "" {
		return "", false
	}
	for _, r := range s {
		for _, name := range WeekdayNames {
			if string(r) == name {
				return name, true
			}
		}
	}
	lower := strings.ToLower(s)
	for _, e := range englishWeekdays {
		if strings.Contains(lower, e.abbr) {
			return e.name, true
		}
	}
	return "", false
}

func fromTime(t time.Time) Result {
	return Result{ISODate: t.Format(isoLayout), DayOfWeek: weekdayName(t)}
}

func weekdayName(t time.Time) string {
	return WeekdayNames[int(t.Weekday())]
}

package attendance

import (
	"mime/multipart"

	"github.com/ishiyama1989/koutuhi/internal/cost"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/patternmatch"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/sheet"
)

type SheetsRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

type PreviewRequest struct {
	File            *multipart.FileHeader `form:"file" binding:"required"`
	Sheet           string                `form:"sheet"`
	Layout          string                `form:"layout" binding:"required,oneof=table row"`
	NameColumn      *int                  `form:"name_column" binding:"required,min=0"`
	DateStartColumn *int                  `form:"date_start_column" binding:"required,min=0"`
	DateEndColumn   *int                  `form:"date_end_column" binding:"omitempty,min=0"`
	StartRow        int                   `form:"start_row" binding:"omitempty,min=1"`
}

// Mapping applies the form defaults: start row 6 for tables, 2 for rows.
func (r PreviewRequest) Mapping() sheet.Mapping {
	m := sheet.Mapping{
		Layout:        sheet.Layout(r.Layout),
		DateEndColumn: r.DateEndColumn,
		StartRow:      r.StartRow,
	}
	if r.NameColumn != nil {
		m.NameColumn = *r.NameColumn
	}
	if r.DateStartColumn != nil {
		m.DateStartColumn = *r.DateStartColumn
	}
	if m.StartRow == 0 {
		m.StartRow = 6
		if m.Layout == sheet.LayoutRow {
			m.StartRow = 2
		}
	}
	return m
}

// Upload is a workbook already read from the request, so the service never
// touches multipart state.
type Upload struct {
	FileName string
	Data     []byte
}

type CorrectNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type FactFilter struct {
	Person string
	Status matcher.Status
}

type SheetInfo struct {
	Name    string         `json:"name"`
	Rows    int            `json:"rows"`
	Columns []sheet.Column `json:"columns"`
}

type SheetsResponse struct {
	FileName string      `json:"fileName"`
	Sheets   []SheetInfo `json:"sheets"`
}

type IndexedFact struct {
	Index int `json:"index"`
	Fact
}

type PreviewResponse struct {
	ID       string        `json:"id"`
	FileName string        `json:"fileName"`
	Sheet    string        `json:"sheet"`
	Mapping  sheet.Mapping `json:"mapping"`
	Total    int           `json:"total"`
	Summary  Summary       `json:"summary"`
	Facts    []IndexedFact `json:"facts"`
}

type PersonCount struct {
	Name   string         `json:"name"`
	Status matcher.Status `json:"status"`
	Count  int            `json:"count"`
}

type PersonStat struct {
	WorkDays  int            `json:"workDays"`
	TotalCost float64        `json:"totalCost"`
	Status    matcher.Status `json:"status"`
}

type PersonTotal struct {
	Name string `json:"name"`
	PersonStat
}

type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Summary is what a saved month carries. PeopleStats and LocationStats are
// keyed maps for storage; the ordered slices are for display.
type Summary struct {
	TotalRecords      int                   `json:"totalRecords"`
	RegisteredCount   int                   `json:"registeredCount"`
	UnregisteredCount int                   `json:"unregisteredCount"`
	NoCarCount        int                   `json:"noCarCount"`
	ModifiedCount     int                   `json:"modifiedCount"`
	TotalCost         float64               `json:"totalCost"`
	PeopleStats       map[string]PersonStat `json:"peopleStats"`
	LocationStats     map[string]int        `json:"locationStats"`
	People            []PersonTotal         `json:"people,omitempty"`
	Locations         []CountEntry          `json:"locations,omitempty"`
	WorkCodes         []CountEntry          `json:"workCodes,omitempty"`
}

type LocationBreakdown struct {
	Location  string         `json:"location"`
	Days      int            `json:"days"`
	Pattern   string         `json:"pattern,omitempty"`
	UnitCost  float64        `json:"unitCost"`
	Cost      float64        `json:"cost"`
	Breakdown cost.Breakdown `json:"breakdown"`
}

type WorkDay struct {
	Date         string `json:"date"`
	DayOfWeek    string `json:"dayOfWeek"`
	Location     string `json:"location"`
	OriginalCell string `json:"originalCell"`
}

type PersonAnalysis struct {
	Name          string              `json:"name"`
	Status        matcher.Status      `json:"status"`
	Person        *registry.Person    `json:"person"`
	WorkDays      int                 `json:"workDays"`
	LocationCount int                 `json:"locationCount"`
	MostFrequent  *CountEntry         `json:"mostFrequent,omitempty"`
	Locations     []LocationBreakdown `json:"locations"`
	TotalCost     float64             `json:"totalCost"`
	ExpectedCost  float64             `json:"expectedCost"`
	Days          []WorkDay           `json:"days"`
}

type BulkSummary struct {
	TotalPeople        int     `json:"totalPeople"`
	RegisteredPeople   int     `json:"registeredPeople"`
	UnregisteredPeople int     `json:"unregisteredPeople"`
	NoCarPeople        int     `json:"noCarPeople"`
	TotalWorkDays      int     `json:"totalWorkDays"`
	TotalCost          float64 `json:"totalCost"`
}

type AnalysisResponse struct {
	Summary BulkSummary      `json:"summary"`
	People  []PersonAnalysis `json:"people"`
}

type PatternMatchResponse struct {
	Summary patternmatch.Summary  `json:"summary"`
	Results []patternmatch.Result `json:"results"`
}

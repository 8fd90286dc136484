package monthly

import (
	"time"

	"github.com/ishiyama1989/koutuhi/internal/attendance"
)

// Record is one saved month of attendance facts with the summary taken at
// save time.
type Record struct {
	Month        string            `json:"month"`
	Data         []attendance.Fact `json:"data"`
	SavedAt      time.Time         `json:"savedAt"`
	TotalRecords int               `json:"totalRecords"`
	Summary      Summary           `json:"summary"`
}

type Summary struct {
	TotalRecords      int                              `json:"totalRecords"`
	RegisteredCount   int                              `json:"registeredCount"`
	UnregisteredCount int                              `json:"unregisteredCount"`
	NoCarCount        int                              `json:"noCarCount"`
	TotalCost         float64                          `json:"totalCost"`
	PeopleStats       map[string]attendance.PersonStat `json:"peopleStats"`
	LocationStats     map[string]int                   `json:"locationStats"`
}

func summaryOf(facts []attendance.Fact) Summary {
	s := attendance.Summarize(facts)
	return Summary{
		TotalRecords:      s.TotalRecords,
		RegisteredCount:   s.RegisteredCount,
		UnregisteredCount: s.UnregisteredCount,
		NoCarCount:        s.NoCarCount,
		TotalCost:         s.TotalCost,
		PeopleStats:       s.PeopleStats,
		LocationStats:     s.LocationStats,
	}
}

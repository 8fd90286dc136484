package attendance

import (
	"time"

	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/sheet"

	"github.com/google/uuid"
)

// Fact is one matched and priced attendance day.
type Fact struct {
	Name         string           `json:"name"`
	OriginalName string           `json:"originalName"`
	Date         string           `json:"date"`
	DayOfWeek    string           `json:"dayOfWeek"`
	Location     string           `json:"location"`
	OriginalCell string           `json:"originalCell"`
	SourceRow    int              `json:"sourceRow"`
	Person       *registry.Person `json:"person"`
	Status       matcher.Status   `json:"status"`
	NameModified bool             `json:"nameModified"`
	Cost         float64          `json:"cost"`
	Method       string           `json:"method"`
}

// Preview is an uploaded sheet after one pipeline pass. Baseline holds the
// facts as first matched so corrections can be reset.
type Preview struct {
	ID         uuid.UUID         `json:"id"`
	FileName   string            `json:"fileName"`
	Sheet      string            `json:"sheet"`
	Mapping    sheet.Mapping     `json:"mapping"`
	Facts      []Fact            `json:"facts"`
	Baseline   []Fact            `json:"-"`
	Snapshot   registry.Snapshot `json:"-"`
	CreatedAt  time.Time         `json:"createdAt"`
	AccessedAt time.Time         `json:"-"`
}

func (p *Preview) clone() *Preview {
	out := *p
	out.Facts = cloneFacts(p.Facts)
	out.Baseline = cloneFacts(p.Baseline)
	return &out
}

func cloneFacts(facts []Fact) []Fact {
	if facts == nil {
		return nil
	}
	out := make([]Fact, len(facts))
	for i, f := range facts {
		out[i] = f
		if f.Person != nil {
			p := f.Person.Clone()
			out[i].Person = &p
		}
	}
	return out
}

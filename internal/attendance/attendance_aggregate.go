package attendance

import (
	"sort"
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/cost"
	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/patternmatch"
	"github.com/ishiyama1989/koutuhi/internal/registry"
)

// counter tallies keys in first-seen order.
type counter struct {
	keys   []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// sorted returns entries by count, highest first; ties keep first-seen order.
func (c *counter) sorted() []CountEntry {
	out := make([]CountEntry, len(c.keys))
	for i, k := range c.keys {
		out[i] = CountEntry{Key: k, Count: c.counts[k]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Summarize aggregates facts. Costs count for every fact with a matched
// person, so people without a car still add their train costs.
func Summarize(facts []Fact) Summary {
	s := Summary{
		TotalRecords:  len(facts),
		PeopleStats:   map[string]PersonStat{},
		LocationStats: map[string]int{},
	}
	locations := newCounter()
	codes := newCounter()

	for _, f := range facts {
		switch f.Status {
		case matcher.StatusOK:
			s.RegisteredCount++
		case matcher.StatusNoCar:
			s.NoCarCount++
		default:
			s.UnregisteredCount++
		}
		if f.NameModified {
			s.ModifiedCount++
		}
		s.TotalCost += f.Cost
		if f.Location != "" {
			locations.add(f.Location)
			s.LocationStats[f.Location]++
		}
		if code := strings.TrimSpace(f.OriginalCell); code != "" {
			codes.add(code)
		}
	}

	s.People = personTotals(facts)
	for _, p := range s.People {
		s.PeopleStats[p.Name] = p.PersonStat
	}
	s.Locations = locations.sorted()
	s.WorkCodes = codes.sorted()
	return s
}

// personTotals groups by normalized name, sorted by total cost descending.
// The status shown is the one of the person's first fact.
func personTotals(facts []Fact) []PersonTotal {
	out := []PersonTotal{}
	pos := map[string]int{}
	for _, f := range facts {
		i, ok := pos[f.Name]
		if !ok {
			i = len(out)
			pos[f.Name] = i
			out = append(out, PersonTotal{Name: f.Name, PersonStat: PersonStat{Status: f.Status}})
		}
		out[i].WorkDays++
		out[i].TotalCost += f.Cost
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCost > out[j].TotalCost })
	return out
}

type personGroup struct {
	name   string
	person *registry.Person
	status matcher.Status
	facts  []Fact
}

func groupByPerson(facts []Fact) []*personGroup {
	var out []*personGroup
	idx := map[string]*personGroup{}
	for _, f := range facts {
		g, ok := idx[f.Name]
		if !ok {
			g = &personGroup{name: f.Name, person: f.Person, status: f.Status}
			idx[f.Name] = g
			out = append(out, g)
		}
		g.facts = append(g.facts, f)
	}
	return out
}

// Analyze builds the per-person work analysis. The expected cost prices each
// location once, using the work code of the first day seen there, and
// multiplies by the day count.
func Analyze(snap registry.Snapshot, facts []Fact) AnalysisResponse {
	resolver := cost.NewResolver(snap.Settings)
	resp := AnalysisResponse{People: []PersonAnalysis{}}

	for _, g := range groupByPerson(facts) {
		a := PersonAnalysis{
			Name:      g.name,
			Status:    g.status,
			Person:    g.person,
			WorkDays:  len(g.facts),
			Locations: []LocationBreakdown{},
			Days:      make([]WorkDay, len(g.facts)),
		}

		locations := newCounter()
		firstCode := map[string]string{}
		for i, f := range g.facts {
			a.Days[i] = WorkDay{Date: f.Date, DayOfWeek: f.DayOfWeek, Location: f.Location, OriginalCell: f.OriginalCell}
			a.TotalCost += f.Cost
			if _, ok := firstCode[f.Location]; !ok {
				firstCode[f.Location] = f.OriginalCell
			}
			locations.add(f.Location)
		}

		a.LocationCount = len(locations.keys)
		if ranked := locations.sorted(); len(ranked) > 0 {
			top := ranked[0]
			a.MostFrequent = &top
		}

		for _, loc := range locations.keys {
			days := locations.counts[loc]
			lb := LocationBreakdown{Location: loc, Days: days}
			if g.person != nil {
				wp := matcher.FindWorkPattern(snap, loc, firstCode[loc])
				if wp != nil {
					lb.Pattern = wp.Name
				}
				lb.Breakdown = resolver.Resolve(g.person, loc, wp)
				lb.UnitCost = lb.Breakdown.Amount
				lb.Cost = float64(days) * lb.UnitCost
				a.ExpectedCost += lb.Cost
			}
			a.Locations = append(a.Locations, lb)
		}

		resp.People = append(resp.People, a)
		resp.Summary.TotalPeople++
		resp.Summary.TotalWorkDays += a.WorkDays
		resp.Summary.TotalCost += a.TotalCost
		switch g.status {
		case matcher.StatusOK:
			resp.Summary.RegisteredPeople++
		case matcher.StatusNoCar:
			resp.Summary.NoCarPeople++
		default:
			resp.Summary.UnregisteredPeople++
		}
	}
	return resp
}

// MatchPatterns scores each person's days against every registered pattern,
// in order of first appearance in the sheet.
func MatchPatterns(snap registry.Snapshot, facts []Fact) []patternmatch.Result {
	results := []patternmatch.Result{}
	for _, g := range groupByPerson(facts) {
		person := matcher.FindPerson(snap, g.name)
		days := make([]patternmatch.Day, len(g.facts))
		for i, f := range g.facts {
			days[i] = patternmatch.Day{Date: f.Date, DayOfWeek: f.DayOfWeek, Location: f.Location, Code: f.OriginalCell}
		}
		results = append(results, patternmatch.Match(g.name, person, days, snap.Patterns))
	}
	return results
}

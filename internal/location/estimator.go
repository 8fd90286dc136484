// Package location turns a raw work-code cell into a canonical work location.
package location

import (
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/matcher"
	"github.com/ishiyama1989/koutuhi/internal/registry"
	"github.com/ishiyama1989/koutuhi/internal/station"
)

type Estimator struct {
	snap registry.Snapshot
}

func NewEstimator(snap registry.Snapshot) *Estimator {
	return &Estimator{snap: snap}
}

// Estimate resolves cell to a location. It reports false only for a blank
// cell; text that matches nothing comes back trimmed so it can be corrected
// by hand later.
//
// Order: exact station, exact pattern name, partial pattern name, partial
// station name, abbreviation, raw text. A matched train-commute pattern
// redirects to the nearest station of personName when that person has one.
func (e *Estimator) Estimate(cell, personName string) (string, bool) {
	text := strings.TrimSpace(cell)
	if text == "" {
		return "", false
	}

	if station.IsCanonical(text) {
		return text, true
	}

	for i := range e.snap.Patterns {
		if e.snap.Patterns[i].Name == text {
			return e.patternLocation(&e.snap.Patterns[i], personName), true
		}
	}
	for i := range e.snap.Patterns {
		name := e.snap.Patterns[i].Name
		if name != "" && (strings.Contains(text, name) || strings.Contains(name, text)) {
			return e.patternLocation(&e.snap.Patterns[i], personName), true
		}
	}

	for _, loc := range station.All {
		if strings.Contains(text, strings.Replace(loc, "駅", "", 1)) || strings.Contains(loc, text) {
			return loc, true
		}
	}

	if loc, ok := station.Abbreviate(text); ok {
		return loc, true
	}
	return text, true
}

func (e *Estimator) patternLocation(p *registry.WorkPattern, personName string) string {
	if p.TrainPossible() && personName != "" {
		if person := matcher.FindPerson(e.snap, personName); person != nil && person.NearestStation != "" {
			return person.NearestStation
		}
	}
	return p.WorkLocation
}

// Package patternmatch scores a person's observed month against every
// registered work pattern.
package patternmatch

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ishiyama1989/koutuhi/internal/registry"
)

type Status string

const (
	StatusMatched        Status = "matched"
	StatusPartialMatch   Status = "partial-match"
	StatusNoMatch        Status = "no-match"
	StatusNoRegistration Status = "no-registration"
)

const (
	MatchedThreshold = 0.8
	PartialThreshold = 0.5
)

// Day is one observed attendance day of a person.
type Day struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"dayOfWeek"`
	Location  string `json:"location"`
	Code      string `json:"originalPattern"`
}

type PatternScore struct {
	Pattern registry.WorkPattern `json:"pattern"`
	Score   float64              `json:"score"`
}

type Result struct {
	PersonName  string                `json:"personName"`
	Person      *registry.Person      `json:"person"`
	Status      Status                `json:"status"`
	Message     string                `json:"message"`
	ActualDays  []Day                 `json:"actualDays"`
	Patterns    []PatternScore        `json:"patterns"`
	MatchScore  float64               `json:"matchScore"`
	BestPattern *registry.WorkPattern `json:"bestPattern,omitempty"`
}

// ScoreDay awards 1.0 for an exact code match, 0.8 for a code substring in
// either direction, 0.6 for an exact location and 0.4 for a location
// substring. An empty code never counts as a code match.
func ScoreDay(d Day, p registry.WorkPattern) float64 {
	if d.Code != "" && p.Name != "" {
		if d.Code == p.Name {
			return 1.0
		}
		if strings.Contains(d.Code, p.Name) || strings.Contains(p.Name, d.Code) {
			return 0.8
		}
	}
	if d.Location == p.WorkLocation {
		return 0.6
	}
	if d.Location != "" && p.WorkLocation != "" &&
		(strings.Contains(d.Location, p.WorkLocation) || strings.Contains(p.WorkLocation, d.Location)) {
		return 0.4
	}
	return 0
}

// Score is the mean day score, 0 for no days.
func Score(days []Day, p registry.WorkPattern) float64 {
	if len(days) == 0 {
		return 0
	}
	var sum float64
	for _, d := range days {
		sum += ScoreDay(d, p)
	}
	return sum / float64(len(days))
}

func Classify(score float64) Status {
	switch {
	case score >= MatchedThreshold:
		return StatusMatched
	case score >= PartialThreshold:
		return StatusPartialMatch
	default:
		return StatusNoMatch
	}
}

func Message(status Status, score float64) string {
	pct := int(math.Round(score * 100))
	switch status {
	case StatusMatched:
		return fmt.Sprintf("高い一致度 (%d%%)", pct)
	case StatusPartialMatch:
		return fmt.Sprintf("部分的一致 (%d%%)", pct)
	case StatusNoMatch:
		return fmt.Sprintf("パターン不一致 (%d%%)", pct)
	default:
		return "照合不可"
	}
}

// Match picks the best pattern by strictly greater score, so equal scores
// keep the earliest registered pattern.
func Match(personName string, person *registry.Person, days []Day, patterns []registry.WorkPattern) Result {
	if person == nil || len(days) == 0 {
		return Result{
			PersonName: personName,
			Person:     person,
			Status:     StatusNoRegistration,
			Message:    "人員登録なし",
			ActualDays: []Day{},
			Patterns:   []PatternScore{},
		}
	}

	scores := make([]PatternScore, 0, len(patterns))
	var best *registry.WorkPattern
	bestScore := 0.0
	for i := range patterns {
		s := Score(days, patterns[i])
		scores = append(scores, PatternScore{Pattern: patterns[i], Score: s})
		if s > bestScore {
			best = &patterns[i]
			bestScore = s
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	status := Classify(bestScore)
	return Result{
		PersonName:  personName,
		Person:      person,
		Status:      status,
		Message:     Message(status, bestScore),
		ActualDays:  days,
		Patterns:    scores,
		MatchScore:  bestScore,
		BestPattern: best,
	}
}

type Summary struct {
	Matched        int `json:"matched"`
	PartialMatch   int `json:"partialMatch"`
	NoMatch        int `json:"noMatch"`
	NoRegistration int `json:"noRegistration"`
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusMatched:
			s.Matched++
		case StatusPartialMatch:
			s.PartialMatch++
		case StatusNoMatch:
			s.NoMatch++
		default:
			s.NoRegistration++
		}
	}
	return s
}

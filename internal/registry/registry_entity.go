package registry

import (
	"time"

	"github.com/google/uuid"
)

const DefaultUnitRate = 10.0

type TrainCommute string

const (
	TrainPossible   TrainCommute = "possible"
	TrainImpossible TrainCommute = "impossible"
	TrainUnset      TrainCommute = ""
)

type TripType string

const (
	TripRoundTrip TripType = "roundtrip"
	TripOneWay    TripType = "oneway"
	TripNone      TripType = "none"
)

type Person struct {
	ID                     uuid.UUID          `json:"id"`
	Name                   string             `json:"name"`
	JobTypes               []string           `json:"jobTypes"`
	NearestStation         string             `json:"nearestStation,omitempty"`
	NearestStationDistance *float64           `json:"nearestStationDistance,omitempty"`
	HasPrivateCar          bool               `json:"hasPrivateCar"`
	Distances              map[string]float64 `json:"distances,omitempty"`
}

// NearestDistance reports the nearest-station distance when it is positive.
func (p *Person) NearestDistance() (float64, bool) {
	if p == nil || p.NearestStationDistance == nil {
		return 0, false
	}
	d := *p.NearestStationDistance
	return d, d > 0
}

// Clone returns a deep copy of p.
func (p Person) Clone() Person {
	out := p
	if p.JobTypes != nil {
		out.JobTypes = append([]string(nil), p.JobTypes...)
	}
	if p.NearestStationDistance != nil {
		d := *p.NearestStationDistance
		out.NearestStationDistance = &d
	}
	if p.Distances != nil {
		out.Distances = make(map[string]float64, len(p.Distances))
		for k, v := range p.Distances {
			out.Distances[k] = v
		}
	}
	return out
}

type WorkPattern struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	WorkLocation string       `json:"workLocation"`
	TrainCommute TrainCommute `json:"trainCommute"`
	TripType     TripType     `json:"tripType"`
	CreatedAt    time.Time    `json:"createdAt"`
}

func (w *WorkPattern) TrainPossible() bool {
	return w != nil && w.TrainCommute == TrainPossible
}

type Settings struct {
	UnitRate float64 `json:"unitRate"`
}

func DefaultSettings() Settings {
	return Settings{UnitRate: DefaultUnitRate}
}

// Snapshot is an immutable copy of the registry taken at the start of a
// pipeline pass. Slices keep registration order.
type Snapshot struct {
	People   []Person
	Patterns []WorkPattern
	Settings Settings
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		People:   make([]Person, len(s.People)),
		Patterns: append([]WorkPattern(nil), s.Patterns...),
		Settings: s.Settings,
	}
	for i, p := range s.People {
		out.People[i] = p.Clone()
	}
	return out
}

// NewSnapshot builds a snapshot directly, mostly for tests and offline tools.
func NewSnapshot(people []Person, patterns []WorkPattern, settings Settings) Snapshot {
	return Snapshot{People: people, Patterns: patterns, Settings: settings}.clone()
}

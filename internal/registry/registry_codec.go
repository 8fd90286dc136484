package registry

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/google/uuid"
)

// Records as found in stored or imported JSON. Older exports carry numeric
// ids, distances keyed by form field ids and patterns without a trip type.
type personRecord struct {
	ID                     json.RawMessage    `json:"id"`
	Name                   string             `json:"name"`
	JobTypes               []string           `json:"jobTypes"`
	NearestStation         string             `json:"nearestStation"`
	NearestStationDistance *float64           `json:"nearestStationDistance"`
	HasPrivateCar          bool               `json:"hasPrivateCar"`
	Distances              map[string]float64 `json:"distances"`
}

type patternRecord struct {
	ID           json.RawMessage `json:"id"`
	Name         string          `json:"name"`
	WorkLocation string          `json:"workLocation"`
	TrainCommute TrainCommute    `json:"trainCommute"`
	TripType     TripType        `json:"tripType"`
	CreatedAt    *time.Time      `json:"createdAt"`
}

type settingsRecord struct {
	UnitRate *float64 `json:"unitRate"`
}

func decodePeople(data []byte) ([]Person, error) {
	var recs []personRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	out := make([]Person, 0, len(recs))
	for _, r := range recs {
		out = append(out, normalizePerson(Person{
			ID:                     decodeID(r.ID),
			Name:                   r.Name,
			JobTypes:               r.JobTypes,
			NearestStation:         r.NearestStation,
			NearestStationDistance: r.NearestStationDistance,
			HasPrivateCar:          r.HasPrivateCar,
			Distances:              canonicalDistances(r.Distances),
		}))
	}
	return out, nil
}

func decodePatterns(data []byte) ([]WorkPattern, error) {
	var recs []patternRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	out := make([]WorkPattern, 0, len(recs))
	for _, r := range recs {
		p := WorkPattern{
			ID:           decodeID(r.ID),
			Name:         r.Name,
			WorkLocation: r.WorkLocation,
			TrainCommute: r.TrainCommute,
			TripType:     r.TripType,
		}
		if r.CreatedAt != nil {
			p.CreatedAt = r.CreatedAt.UTC()
		}
		out = append(out, normalizePattern(p))
	}
	return out, nil
}

func decodeSettings(data []byte) (Settings, error) {
	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Settings{}, err
	}
	s := DefaultSettings()
	if rec.UnitRate != nil {
		s.UnitRate = *rec.UnitRate
	}
	return s, nil
}

// decodeID keeps uuid ids and replaces anything else, such as the
// millisecond timestamps used by older exports.
func decodeID(raw json.RawMessage) uuid.UUID {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	return uuid.New()
}

// canonicalDistances rewrites legacy field-id keys to station names. Keys
// that resolve to nothing are kept so validation can report them.
func canonicalDistances(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if s, ok := station.FromLegacyKey(k); ok {
			out[s] = v
			continue
		}
		out[k] = v
	}
	return out
}

// normalizePerson applies the registry invariants that do not depend on
// validation: trimmed name, no distances without a car, no dangling distance.
func normalizePerson(p Person) Person {
	p.Name = strings.TrimSpace(p.Name)
	p.NearestStation = strings.TrimSpace(p.NearestStation)
	if p.NearestStation == "" {
		p.NearestStationDistance = nil
	}
	if !p.HasPrivateCar || len(p.Distances) == 0 {
		p.Distances = nil
	}
	return p
}

// normalizePattern applies the round-trip default once, at the boundary.
func normalizePattern(p WorkPattern) WorkPattern {
	p.Name = strings.TrimSpace(p.Name)
	if p.TripType == "" {
		p.TripType = TripRoundTrip
	}
	return p
}

package registry

import "encoding/json"

type PersonRequest struct {
	Name                   string             `json:"name" binding:"required"`
	JobTypes               []string           `json:"jobTypes" binding:"required,min=1"`
	NearestStation         string             `json:"nearestStation"`
	NearestStationDistance *float64           `json:"nearestStationDistance"`
	HasPrivateCar          bool               `json:"hasPrivateCar"`
	Distances              map[string]float64 `json:"distances"`
}

type PatternRequest struct {
	Name         string       `json:"name" binding:"required"`
	WorkLocation string       `json:"workLocation" binding:"required"`
	TrainCommute TrainCommute `json:"trainCommute"`
	TripType     TripType     `json:"tripType"`
}

type SettingsRequest struct {
	UnitRate *float64 `json:"unitRate" binding:"required"`
}

// Document is the whole-registry JSON exchanged by export and import.
type Document struct {
	People   []Person      `json:"people"`
	Patterns []WorkPattern `json:"patterns"`
	Settings Settings      `json:"settings"`
}

// importDocument leaves absent sections nil so an import only replaces what
// the file carries.
type importDocument struct {
	People   json.RawMessage `json:"people"`
	Patterns json.RawMessage `json:"patterns"`
	Settings json.RawMessage `json:"settings"`
}

type ImportResult struct {
	People   int  `json:"people"`
	Patterns int  `json:"patterns"`
	Settings bool `json:"settings"`
}

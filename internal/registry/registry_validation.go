package registry

import (
	"fmt"
	"math"

	registryerrors "github.com/ishiyama1989/koutuhi/internal/registry/errors"
	"github.com/ishiyama1989/koutuhi/internal/station"

	"github.com/google/uuid"
)

const maxDistanceKM = 50

func validDistance(d float64) bool {
	return !math.IsNaN(d) && d >= 0 && d <= maxDistanceKM
}

func validatePerson(p Person) error {
	if p.Name == "" || len(p.JobTypes) == 0 {
		return registryerrors.ErrMissingRequiredFields
	}
	for _, jt := range p.JobTypes {
		if !station.IsJobType(jt) {
			return fmt.Errorf("%w: %s", registryerrors.ErrInvalidJobType, jt)
		}
	}

	if p.NearestStation != "" {
		if !station.IsCanonical(p.NearestStation) {
			return fmt.Errorf("%w: %s", registryerrors.ErrUnknownStation, p.NearestStation)
		}
		if p.NearestStationDistance == nil {
			return registryerrors.ErrNearestDistanceRequired
		}
		if !validDistance(*p.NearestStationDistance) {
			return registryerrors.ErrDistanceOutOfRange
		}
	}

	if !p.HasPrivateCar {
		return nil
	}
	if len(p.Distances) == 0 {
		return registryerrors.ErrDistanceRequired
	}
	for st, d := range p.Distances {
		if !station.IsCanonical(st) {
			return fmt.Errorf("%w: %s", registryerrors.ErrUnknownStation, st)
		}
		if !station.StationAllowed(p.JobTypes, st) {
			return fmt.Errorf("%w: %s", registryerrors.ErrDistanceNotAllowed, st)
		}
		if !validDistance(d) {
			return fmt.Errorf("%w: %s", registryerrors.ErrDistanceOutOfRange, st)
		}
	}
	return nil
}

// checkPersonUnique compares raw names. Whitespace variants of a registered
// name are distinct registrations.
func checkPersonUnique(people []Person, p Person) error {
	for _, existing := range people {
		if existing.ID != p.ID && existing.Name == p.Name {
			return registryerrors.ErrPersonAlreadyExists
		}
	}
	return nil
}

func validatePattern(p WorkPattern) error {
	if p.Name == "" || p.WorkLocation == "" {
		return registryerrors.ErrMissingRequiredFields
	}
	if !station.IsCanonical(p.WorkLocation) {
		return fmt.Errorf("%w: %s", registryerrors.ErrUnknownStation, p.WorkLocation)
	}
	switch p.TrainCommute {
	case TrainPossible, TrainImpossible, TrainUnset:
	default:
		return registryerrors.ErrInvalidTrainCommute
	}
	switch p.TripType {
	case TripRoundTrip, TripOneWay, TripNone:
	default:
		return registryerrors.ErrInvalidTripType
	}
	return nil
}

func checkPatternUnique(patterns []WorkPattern, p WorkPattern) error {
	for _, existing := range patterns {
		if existing.ID != p.ID && existing.Name == p.Name && existing.WorkLocation == p.WorkLocation {
			return registryerrors.ErrPatternAlreadyExists
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	if math.IsNaN(s.UnitRate) || math.IsInf(s.UnitRate, 0) || s.UnitRate < 0 {
		return registryerrors.ErrInvalidUnitRate
	}
	return nil
}

// validateAll checks a full replacement set, as used by import. Uniqueness
// is checked within the set itself.
func validateAll(people []Person, patterns []WorkPattern) error {
	names := make(map[string]bool, len(people))
	for _, p := range people {
		if err := validatePerson(p); err != nil {
			return fmt.Errorf("person %q: %w", p.Name, err)
		}
		if names[p.Name] {
			return fmt.Errorf("person %q: %w", p.Name, registryerrors.ErrPersonAlreadyExists)
		}
		names[p.Name] = true
	}

	type patternKey struct{ name, location string }
	keys := make(map[patternKey]bool, len(patterns))
	for _, p := range patterns {
		if err := validatePattern(p); err != nil {
			return fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		k := patternKey{p.Name, p.WorkLocation}
		if keys[k] {
			return fmt.Errorf("pattern %q: %w", p.Name, registryerrors.ErrPatternAlreadyExists)
		}
		keys[k] = true
	}
	return nil
}

// ensureUniqueIDs replaces repeated ids, which older exports can contain
// when two records were created within the same millisecond.
func ensureUniqueIDs(people []Person, patterns []WorkPattern) {
	seen := make(map[uuid.UUID]bool, len(people)+len(patterns))
	for i := range people {
		if seen[people[i].ID] {
			people[i].ID = uuid.New()
		}
		seen[people[i].ID] = true
	}
	for i := range patterns {
		if seen[patterns[i].ID] {
			patterns[i].ID = uuid.New()
		}
		seen[patterns[i].ID] = true
	}
}

// Package cost computes the commute cost of one attendance day.
package cost

import (
	"fmt"
	"strconv"

	"github.com/ishiyama1989/koutuhi/internal/registry"
)

type Branch int

const (
	BranchNone Branch = iota
	BranchTrainPattern
	BranchNearestStation
	BranchPrivateCar
)

func (b Branch) String() string {
	switch b {
	case BranchTrainPattern:
		return "train-pattern"
	case BranchNearestStation:
		return "nearest-station"
	case BranchPrivateCar:
		return "private-car"
	default:
		return "none"
	}
}

func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Branch) UnmarshalText(text []byte) error {
	for _, c := range []Branch{BranchNone, BranchTrainPattern, BranchNearestStation, BranchPrivateCar} {
		if c.String() == string(text) {
			*b = c
			return nil
		}
	}
	return fmt.Errorf("unknown cost branch %q", text)
}

const MethodUnavailable = "計算不可"

// Breakdown records which rule fired and with what inputs. Amount and Method
// are both derived from it.
type Breakdown struct {
	Branch     Branch  `json:"branch"`
	Distance   float64 `json:"distance"`
	Multiplier int     `json:"multiplier"`
	UnitRate   float64 `json:"unitRate"`
	Amount     float64 `json:"amount"`
	Target     string  `json:"target"`
	TripLabel  string  `json:"tripLabel"`
}

type Resolver struct {
	UnitRate float64
}

func NewResolver(settings registry.Settings) Resolver {
	return Resolver{UnitRate: settings.UnitRate}
}

// Resolve applies, in order: the train-commute pattern override, the direct
// nearest-station rule, the private-car distance table. The nearest-station
// rule is always a round trip; it never consults the pattern trip type.
func (r Resolver) Resolve(p *registry.Person, workLocation string, pattern *registry.WorkPattern) Breakdown {
	if p == nil || workLocation == "" {
		return Breakdown{UnitRate: r.UnitRate}
	}

	if d, ok := p.NearestDistance(); ok && pattern.TrainPossible() {
		return r.build(BranchTrainPattern, d, multiplier(pattern), p.NearestStation)
	}

	if d, ok := p.NearestDistance(); ok && workLocation == p.NearestStation {
		return r.build(BranchNearestStation, d, 2, p.NearestStation)
	}

	if p.HasPrivateCar {
		if d, ok := p.Distances[workLocation]; ok && d > 0 {
			return r.build(BranchPrivateCar, d, multiplier(pattern), workLocation)
		}
	}

	return Breakdown{UnitRate: r.UnitRate}
}

func (r Resolver) Cost(p *registry.Person, workLocation string, pattern *registry.WorkPattern) float64 {
	return r.Resolve(p, workLocation, pattern).Amount
}

func (r Resolver) Explain(p *registry.Person, workLocation string, pattern *registry.WorkPattern) string {
	return r.Resolve(p, workLocation, pattern).Method()
}

func (r Resolver) build(branch Branch, distance float64, mult int, target string) Breakdown {
	return Breakdown{
		Branch:     branch,
		Distance:   distance,
		Multiplier: mult,
		UnitRate:   r.UnitRate,
		Amount:     distance * float64(mult) * r.UnitRate,
		Target:     target,
		TripLabel:  tripLabel(mult),
	}
}

// multiplier is 0 for "none", 1 for one way and 2 otherwise, including when
// no pattern matched.
func multiplier(p *registry.WorkPattern) int {
	if p == nil {
		return 2
	}
	switch p.TripType {
	case registry.TripNone:
		return 0
	case registry.TripOneWay:
		return 1
	default:
		return 2
	}
}

func tripLabel(mult int) string {
	switch mult {
	case 0:
		return "なし"
	case 1:
		return "片道"
	default:
		return "往復"
	}
}

// Method renders the human-readable description shown next to a cost.
func (b Breakdown) Method() string {
	km := strconv.FormatFloat(b.Distance, 'f', -1, 64)
	switch b.Branch {
	case BranchTrainPattern, BranchNearestStation:
		return fmt.Sprintf("電車通勤%s (最寄駅%sまで%skm)", b.TripLabel, b.Target, km)
	case BranchPrivateCar:
		return fmt.Sprintf("自家用車%s (%sまで%skm)", b.TripLabel, b.Target, km)
	default:
		return MethodUnavailable
	}
}

// Package savings produces the per-run outcome figures (time, fuel and carbon
// saved) reported for each scheduling strategy.
//
// The figures are placeholders drawn from fixed ranges per strategy; they are
// not derived from the simulated traffic. Generator isolates that policy so a
// real cost model can replace it without touching the scheduler.
package savings

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// Savings holds the outcome figures for one strategy run.
type Savings struct {
	TimeMinutes int `json:"time_saved_minutes"`
	FuelLiters  int `json:"fuel_saved_liters"`
	CarbonKg    int `json:"carbon_saved_kg"`
}

// Generator produces savings figures for a strategy.
type Generator interface {
	Generate(strategy scheduler.Strategy) Savings
}

// Range is an inclusive integer range.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds the draw range of each figure for one strategy.
type Ranges struct {
	Time   Range
	Fuel   Range
	Carbon Range
}

// DefaultRanges are biased so Quantum always reports at least as much as Normal.
var DefaultRanges = map[scheduler.Strategy]Ranges{
	scheduler.Normal: {
		Time:   Range{0, 5},
		Fuel:   Range{0, 10},
		Carbon: Range{0, 12},
	},
	scheduler.Quantum: {
		Time:   Range{5, 15},
		Fuel:   Range{10, 20},
		Carbon: Range{15, 25},
	},
}

// RandomGenerator draws each figure independently and uniformly from its
// strategy's range.
type RandomGenerator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges map[scheduler.Strategy]Ranges
}

// NewRandomGenerator creates a generator using rng and DefaultRanges.
// A nil rng uses a randomly seeded source.
func NewRandomGenerator(rng *rand.Rand) *RandomGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomGenerator{rng: rng, ranges: DefaultRanges}
}

// withRanges overrides the draw ranges. Strategies missing from ranges keep
// their default.
func (g *RandomGenerator) withRanges(ranges map[scheduler.Strategy]Ranges) *RandomGenerator {
	merged := make(map[scheduler.Strategy]Ranges, len(DefaultRanges))
	for k, v := range DefaultRanges {
		merged[k] = v
	}
	for k, v := range ranges {
		merged[k] = v
	}
	g.ranges = merged
	return g
}

// Generate implements Generator. Unknown strategies get zero savings.
func (g *RandomGenerator) Generate(strategy scheduler.Strategy) Savings {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.ranges[strategy]
	if !ok {
		return Savings{}
	}
	return Savings{
		TimeMinutes: g.draw(r.Time),
		FuelLiters:  g.draw(r.Fuel),
		CarbonKg:    g.draw(r.Carbon),
	}
}

func (g *RandomGenerator) draw(r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}

// validate checks that every range is well formed.
func (r Ranges) validate() error {
	for name, rg := range map[string]Range{"time": r.Time, "fuel": r.Fuel, "carbon": r.Carbon} {
		if rg.Min < 0 || rg.Max < rg.Min {
			return fmt.Errorf("%s range must satisfy 0 <= min <= max, got [%d, %d]", name, rg.Min, rg.Max)
		}
	}
	return nil
}

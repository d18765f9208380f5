package savings

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

func TestGenerateStaysWithinRanges(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator(rand.New(rand.NewPCG(1, 2)))
	for _, strategy := range scheduler.Strategies {
		r := DefaultRanges[strategy]
		for i := 0; i < 500; i++ {
			s := g.Generate(strategy)
			require.True(t, r.Time.Contains(s.TimeMinutes), "%s time %d", strategy, s.TimeMinutes)
			require.True(t, r.Fuel.Contains(s.FuelLiters), "%s fuel %d", strategy, s.FuelLiters)
			require.True(t, r.Carbon.Contains(s.CarbonKg), "%s carbon %d", strategy, s.CarbonKg)
		}
	}
}

func TestGenerateCoversRangeEndpoints(t *testing.T) {
	g := NewRandomGenerator(rand.New(rand.NewPCG(3, 4)))

	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		seen[g.Generate(scheduler.Quantum).TimeMinutes] = true
	}
	for v := 5; v <= 15; v++ {
		assert.True(t, seen[v], "value %d never drawn", v)
	}
}

func TestQuantumRangesDominateNormal(t *testing.T) {
	n, q := DefaultRanges[scheduler.Normal], DefaultRanges[scheduler.Quantum]
	assert.GreaterOrEqual(t, q.Time.Min, n.Time.Max)
	assert.GreaterOrEqual(t, q.Fuel.Min, n.Fuel.Max)
	assert.GreaterOrEqual(t, q.Carbon.Min, n.Carbon.Max)

	require.NoError(t, n.validate())
	require.NoError(t, q.validate())
}

func TestRangeOverrideKeepsOtherStrategies(t *testing.T) {
	g := NewRandomGenerator(nil).withRanges(map[scheduler.Strategy]Ranges{
		scheduler.Normal: {Time: Range{2, 2}, Fuel: Range{3, 3}, Carbon: Range{4, 4}},
	})

	assert.Equal(t, Savings{TimeMinutes: 2, FuelLiters: 3, CarbonKg: 4}, g.Generate(scheduler.Normal))
	q := g.Generate(scheduler.Quantum)
	assert.True(t, DefaultRanges[scheduler.Quantum].Time.Contains(q.TimeMinutes))
	assert.Equal(t, Savings{}, g.Generate(scheduler.Strategy(7)))
}

func TestRangesValidate(t *testing.T) {
	bad := Ranges{Time: Range{5, 1}}
	assert.Error(t, bad.validate())
	assert.Error(t, Ranges{Fuel: Range{-1, 3}}.validate())
}

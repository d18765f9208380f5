// Package round runs comparison rounds: one randomly generated junction state
// drained once by each scheduling strategy, with every step rendered and paced.
package round

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/monitoring"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/render"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/savings"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/timeutil"
)

// Config holds the settings for a run of comparison rounds.
type Config struct {
	Rounds        int
	StepDelay     time.Duration
	Priority      junction.Lane
	StepsPerVisit int
	// MinCars and MaxCars bound each lane's initial count, inclusive.
	MinCars int
	MaxCars int
}

// DefaultConfig returns the reference settings: one round, 500ms per step,
// no priority lane, 3 vehicles per visit, 3 to 8 vehicles per lane.
func DefaultConfig() Config {
	return Config{
		Rounds:        1,
		StepDelay:     500 * time.Millisecond,
		Priority:      junction.NoLane,
		StepsPerVisit: scheduler.DefaultStepsPerVisit,
		MinCars:       3,
		MaxCars:       8,
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.StepDelay < 0 {
		return fmt.Errorf("step delay must be non-negative, got %s", c.StepDelay)
	}
	if c.Priority != junction.NoLane && !c.Priority.Valid() {
		return fmt.Errorf("invalid priority lane %d", int(c.Priority))
	}
	if c.StepsPerVisit < 1 {
		return fmt.Errorf("steps per visit must be at least 1, got %d", c.StepsPerVisit)
	}
	if c.MinCars < 0 || c.MaxCars < c.MinCars {
		return fmt.Errorf("car range must satisfy 0 <= min <= max, got [%d, %d]", c.MinCars, c.MaxCars)
	}
	return nil
}

// Stats are the figures recorded for one strategy in one round.
type Stats struct {
	Strategy scheduler.Strategy `json:"strategy"`
	savings.Savings
	// PriorityClearanceMinutes is nil when no priority lane cleared.
	PriorityClearanceMinutes *float64 `json:"priority_clearance_minutes"`
	Steps                    int      `json:"steps"`
	Visits                   int      `json:"visits"`
}

// Result holds both strategies' stats for one round.
type Result struct {
	Round    int            `json:"round"`
	Priority junction.Lane  `json:"priority"`
	Initial  junction.State `json:"initial"`
	Normal   Stats          `json:"normal"`
	Quantum  Stats          `json:"quantum"`
}

// ByStrategy returns the stats recorded for strategy s.
func (r Result) ByStrategy(s scheduler.Strategy) Stats {
	if s == scheduler.Quantum {
		return r.Quantum
	}
	return r.Normal
}

// Runner executes rounds. Its dependencies are injected so tests can run
// without real time passing or randomness.
type Runner struct {
	cfg      Config
	clock    timeutil.Clock
	renderer render.Renderer
	savings  savings.Generator
	rng      *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock sets the clock used for pacing.
func WithClock(c timeutil.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithRenderer sets the renderer that receives every frame.
func WithRenderer(rd render.Renderer) Option {
	return func(r *Runner) { r.renderer = rd }
}

// WithSavings sets the savings generator.
func WithSavings(g savings.Generator) Option {
	return func(r *Runner) { r.savings = g }
}

// WithRand sets the random source used to generate initial lane states.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) { r.rng = rng }
}

// NewRunner creates a Runner. Unset dependencies default to the real clock,
// a no-op renderer, and randomly seeded generators.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid round config: %w", err)
	}
	r := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = timeutil.RealClock{}
	}
	if r.renderer == nil {
		r.renderer = render.Nop{}
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if r.savings == nil {
		r.savings = savings.NewRandomGenerator(rand.New(rand.NewPCG(r.rng.Uint64(), r.rng.Uint64())))
	}
	return r, nil
}

// NewInitialState draws each lane's count uniformly from [MinCars, MaxCars]
// and adds one vehicle to the priority lane, if any.
func (r *Runner) NewInitialState() junction.State {
	var s junction.State
	span := r.cfg.MaxCars - r.cfg.MinCars + 1
	for _, l := range junction.Lanes {
		s.Add(l, r.cfg.MinCars+r.rng.IntN(span))
	}
	s.Add(r.cfg.Priority, 1)
	return s
}

// Run executes all configured rounds in sequence.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, r.cfg.Rounds)
	for n := 1; n <= r.cfg.Rounds; n++ {
		res, err := r.RunRound(ctx, n)
		if err != nil {
			return results, fmt.Errorf("round %d: %w", n, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunRound generates one initial state and drains a copy of it with each
// strategy, Normal first.
func (r *Runner) RunRound(ctx context.Context, n int) (Result, error) {
	initial := r.NewInitialState()
	monitoring.Logf("round %d: initial lanes %s (priority %s)", n, initial, r.cfg.Priority)
	return r.RunRoundFrom(ctx, n, initial)
}

// RunRoundFrom runs round n from a given initial state.
func (r *Runner) RunRoundFrom(ctx context.Context, n int, initial junction.State) (Result, error) {
	res := Result{Round: n, Priority: r.cfg.Priority, Initial: initial}

	var err error
	if res.Normal, err = r.RunStrategy(ctx, n, scheduler.Normal, initial); err != nil {
		return res, err
	}
	if res.Quantum, err = r.RunStrategy(ctx, n, scheduler.Quantum, initial); err != nil {
		return res, err
	}
	return res, nil
}

// RunStrategy drains initial with one strategy, rendering and pacing every
// step, and records the resulting stats.
func (r *Runner) RunStrategy(ctx context.Context, n int, strategy scheduler.Strategy, initial junction.State) (Stats, error) {
	sched := scheduler.New(scheduler.Config{
		Strategy:      strategy,
		StepsPerVisit: r.cfg.StepsPerVisit,
		Priority:      r.cfg.Priority,
	})
	system := strategy.Title() + " Simulation"

	out, err := sched.Drain(initial, func(st scheduler.Step) error {
		frame := render.Frame{
			System:   system,
			Round:    n,
			Strategy: strategy,
			Step:     st,
			Priority: r.cfg.Priority,
		}
		if err := r.renderer.Render(frame); err != nil {
			return fmt.Errorf("render step %d: %w", st.Index, err)
		}
		if st.PriorityCleared {
			monitoring.Debugf("%s: priority lane %s cleared at step %d", system, st.Lane, st.Index)
		}
		return r.clock.Sleep(ctx, r.cfg.StepDelay)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", strategy, err)
	}
	for i, v := range out.Visits {
		monitoring.Debugf("round %d %s visit %d: %s lane released %d", n, strategy, i+1, v.Lane, v.Released)
	}

	stats := Stats{
		Strategy: strategy,
		Savings:  r.savings.Generate(strategy),
		Steps:    out.Steps,
		Visits:   len(out.Visits),
	}
	if minutes, ok := out.ClearanceMinutes(r.cfg.StepDelay); ok {
		stats.PriorityClearanceMinutes = &minutes
	}

	clearance := "n/a"
	if stats.PriorityClearanceMinutes != nil {
		clearance = fmt.Sprintf("%.2f min", *stats.PriorityClearanceMinutes)
	}
	monitoring.Logf("round %d %s: %d steps over %d visits, priority clearance %s", n, strategy, out.Steps, len(out.Visits), clearance)
	return stats, nil
}

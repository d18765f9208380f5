// Package scheduler drains the waiting traffic at a junction one vehicle at a
// time, under either a round-robin or a greedy-priority signal policy.
//
// The scheduler is free of rendering and pacing concerns: it yields a lazy
// sequence of Steps that callers consume however they like.
package scheduler

import (
	"iter"
	"time"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
)

// DefaultStepsPerVisit is the number of vehicles a green phase releases from a
// lane before the signal moves on.
const DefaultStepsPerVisit = 3

// Config selects the strategy and per-visit quota for a scheduling run.
type Config struct {
	Strategy      Strategy
	StepsPerVisit int
	// Priority is the emergency-vehicle lane, or junction.NoLane.
	Priority junction.Lane
}

// Step describes a single vehicle leaving the junction.
type Step struct {
	// Index is the 1-based running step count.
	Index int
	// Visit is the 1-based number of the green phase this step belongs to.
	Visit int
	Lane  junction.Lane
	// Counts is the lane state after this vehicle has left.
	Counts junction.State
	// PriorityCleared is set on the step that first empties the priority lane.
	PriorityCleared bool
}

// Visit summarises one green phase.
type Visit struct {
	Lane     junction.Lane
	Released int
}

// Outcome summarises a fully drained run.
type Outcome struct {
	Steps  int
	Visits []Visit
	// ClearedAtStep is the step index at which the priority lane emptied, or 0.
	ClearedAtStep int
}

// PriorityCleared reports whether a clearance step was recorded.
func (o Outcome) PriorityCleared() bool {
	return o.ClearedAtStep > 0
}

// ClearanceMinutes converts the clearance step into elapsed minutes given the
// per-step delay. The second result is false when no clearance was recorded.
func (o Outcome) ClearanceMinutes(stepDelay time.Duration) (float64, bool) {
	if !o.PriorityCleared() {
		return 0, false
	}
	return float64(o.ClearedAtStep) * stepDelay.Seconds() / 60.0, true
}

// Scheduler produces step sequences for a fixed Config.
type Scheduler struct {
	cfg Config
}

// New creates a Scheduler. A non-positive StepsPerVisit falls back to
// DefaultStepsPerVisit, and an out-of-range priority lane is treated as none.
func New(cfg Config) *Scheduler {
	if cfg.StepsPerVisit <= 0 {
		cfg.StepsPerVisit = DefaultStepsPerVisit
	}
	if !cfg.Priority.Valid() {
		cfg.Priority = junction.NoLane
	}
	return &Scheduler{cfg: cfg}
}

// Steps returns the lazy sequence of single-vehicle departures that drains
// initial. initial is copied; the caller's state is never modified. The
// sequence has one element per waiting vehicle, initial.Total() for any valid
// state, unless the consumer stops early. Negative counts are treated as empty.
func (s *Scheduler) Steps(initial junction.State) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		lanes := junction.NewState(initial[junction.Up], initial[junction.Right], initial[junction.Down], initial[junction.Left])
		step, visit := 0, 0
		cleared := false

		// service releases up to the quota from lane l. It returns false when
		// the consumer has stopped.
		service := func(l junction.Lane) bool {
			visit++
			for range s.cfg.StepsPerVisit {
				if !lanes.Decrement(l) {
					break
				}
				step++
				ev := Step{Index: step, Visit: visit, Lane: l, Counts: lanes}
				if l == s.cfg.Priority && !cleared && lanes.Count(l) == 0 {
					cleared = true
					ev.PriorityCleared = true
				}
				if !yield(ev) {
					return false
				}
			}
			return true
		}

		for !lanes.Empty() {
			switch s.cfg.Strategy {
			case Quantum:
				if !service(s.nextQuantumLane(&lanes)) {
					return
				}
			default:
				for _, l := range junction.Lanes {
					if lanes.Count(l) <= 0 {
						continue
					}
					if !service(l) {
						return
					}
				}
			}
		}
	}
}

// nextQuantumLane picks the lane for the next quantum visit: the priority lane
// while it still holds vehicles, otherwise the fullest lane.
func (s *Scheduler) nextQuantumLane(lanes *junction.State) junction.Lane {
	if s.cfg.Priority.Valid() && lanes.Count(s.cfg.Priority) > 0 {
		return s.cfg.Priority
	}
	return lanes.MaxLane()
}

// Drain runs the step sequence to completion, calling fn for every step. It
// stops at the first error from fn and returns the partial outcome with it.
func (s *Scheduler) Drain(initial junction.State, fn func(Step) error) (Outcome, error) {
	var out Outcome
	var err error
	for st := range s.Steps(initial) {
		out.Steps = st.Index
		if n := len(out.Visits); n == 0 || st.Visit > n {
			out.Visits = append(out.Visits, Visit{Lane: st.Lane})
		}
		out.Visits[len(out.Visits)-1].Released++
		if st.PriorityCleared {
			out.ClearedAtStep = st.Index
		}
		if fn == nil {
			continue
		}
		if err = fn(st); err != nil {
			break
		}
	}
	return out, err
}

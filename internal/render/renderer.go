// Package render turns scheduler steps into visual frames. Renderers are
// display-only: nothing they do feeds back into scheduling.
package render

import (
	"errors"
	"fmt"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// Frame is one rendered view of the junction, produced after a single step.
type Frame struct {
	// System labels the simulation, e.g. "Normal Simulation".
	System   string
	Round    int
	Strategy scheduler.Strategy
	Step     scheduler.Step
	// Priority is the ambulance lane, or junction.NoLane.
	Priority junction.Lane
}

// Title returns the frame caption, e.g. "Quantum Simulation - Step 4 (UP lane moving)".
func (f Frame) Title() string {
	return fmt.Sprintf("%s - Step %d (%s lane moving)", f.System, f.Step.Index, f.Step.Lane)
}

// ShowAmbulance reports whether the priority marker should be drawn, i.e. a
// priority lane is configured and still holds vehicles.
func (f Frame) ShowAmbulance() bool {
	return f.Priority.Valid() && f.Step.Counts.Count(f.Priority) > 0
}

// Renderer displays frames.
type Renderer interface {
	Render(f Frame) error
}

// Func adapts an ordinary function to a Renderer.
type Func func(f Frame) error

// Render calls fn(f).
func (fn Func) Render(f Frame) error {
	return fn(f)
}

// Nop discards every frame.
type Nop struct{}

// Render does nothing.
func (Nop) Render(Frame) error { return nil }

// Multi fans each frame out to every renderer, in order. All renderers see
// the frame even if an earlier one fails; the errors are joined.
type Multi []Renderer

// Render implements Renderer.
func (m Multi) Render(f Frame) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

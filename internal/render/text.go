package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
)

const clearScreen = "\033[H\033[2J"

// TextRenderer writes a compact text view of each frame, one bar per lane.
type TextRenderer struct {
	w io.Writer
	// Clear redraws in place by clearing the terminal before each frame.
	Clear bool
}

// NewTextRenderer creates a TextRenderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Render implements Renderer.
func (r *TextRenderer) Render(f Frame) error {
	var b strings.Builder
	if r.Clear {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "Round %d | %s\n", f.Round, f.Title())
	for _, l := range junction.Lanes {
		n := f.Step.Counts.Count(l)
		moving := "  "
		if l == f.Step.Lane {
			moving = "->"
		}
		amb := ""
		if f.ShowAmbulance() && l == f.Priority {
			amb = " [AMBULANCE]"
		}
		fmt.Fprintf(&b, "%s %-5s %-10s %2d%s\n", moving, l, strings.Repeat("#", n), n, amb)
	}
	if f.Step.PriorityCleared {
		fmt.Fprintf(&b, "   %s lane cleared for the ambulance at step %d\n", f.Priority, f.Step.Index)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/fsutil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
)

// Junction geometry in plot units. The view spans [-extent, extent] on both axes.
const (
	extent      = 5.0
	roadHalf    = 0.2
	carSize     = 0.4
	carSpacing  = 0.5
	queueStart  = 4.0
	markerReach = 4.5
)

var (
	roadColour      = color.NRGBA{R: 211, G: 211, B: 211, A: 77}
	ambulanceColour = color.RGBA{R: 255, A: 255}
	laneRGBA        = map[string]color.RGBA{
		"blue":   {B: 255, A: 255},
		"orange": {R: 255, G: 165, A: 255},
		"green":  {G: 128, A: 255},
		"purple": {R: 128, B: 128, A: 255},
		"gray":   {R: 128, G: 128, B: 128, A: 255},
	}
)

// PlotRenderer draws each frame with gonum/plot and writes it as a PNG under
// <dir>/round-NN/<strategy>/step-NNNN.png.
type PlotRenderer struct {
	mu      sync.Mutex
	fs      fsutil.FileSystem
	dir     string
	size    vg.Length
	written int
}

// NewPlotRenderer creates a renderer writing square 5 inch frames into dir.
func NewPlotRenderer(fs fsutil.FileSystem, dir string) *PlotRenderer {
	return &PlotRenderer{fs: fs, dir: dir, size: 5 * vg.Inch}
}

// FramePath returns the file a frame is written to.
func FramePath(dir string, f Frame) string {
	return filepath.Join(dir,
		fmt.Sprintf("round-%02d", f.Round),
		f.Strategy.String(),
		fmt.Sprintf("step-%04d.png", f.Step.Index))
}

// Render implements Renderer.
func (r *PlotRenderer) Render(f Frame) error {
	p, err := DrawJunction(f)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(r.size, r.size, "png")
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	path := FramePath(r.dir, f)
	if err := r.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create frame dir: %w", err)
	}
	w, err := r.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("write frame %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close frame %s: %w", path, err)
	}

	r.mu.Lock()
	r.written++
	r.mu.Unlock()
	return nil
}

// Written returns the number of frames saved so far.
func (r *PlotRenderer) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// DrawJunction builds the plot for a frame: the crossing roads, one square per
// waiting vehicle queued back from the junction centre, and a red marker at
// the head of the ambulance lane while it still holds vehicles.
func DrawJunction(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title()
	p.X.Min, p.X.Max = -extent, extent
	p.Y.Min, p.Y.Max = -extent, extent
	p.HideAxes()

	roads := []plotter.XYs{
		rect(-roadHalf, -extent, 2*roadHalf, 2*extent),
		rect(-extent, -roadHalf, 2*extent, 2*roadHalf),
	}
	for _, road := range roads {
		poly, err := plotter.NewPolygon(road)
		if err != nil {
			return nil, fmt.Errorf("road polygon: %w", err)
		}
		poly.Color = roadColour
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	for _, l := range junction.Lanes {
		fill := laneRGBA[l.Colour()]
		for i := 0; i < f.Step.Counts.Count(l); i++ {
			x, y := carOrigin(l, i)
			poly, err := plotter.NewPolygon(rect(x, y, carSize, carSize))
			if err != nil {
				return nil, fmt.Errorf("car polygon: %w", err)
			}
			poly.Color = fill
			poly.LineStyle.Width = 0
			p.Add(poly)
		}
	}

	if f.ShowAmbulance() {
		x, y := markerPosition(f.Priority)
		marker, err := plotter.NewScatter(plotter.XYs{{X: x, Y: y}})
		if err != nil {
			return nil, fmt.Errorf("ambulance marker: %w", err)
		}
		marker.GlyphStyle.Shape = draw.CircleGlyph{}
		marker.GlyphStyle.Color = ambulanceColour
		marker.GlyphStyle.Radius = vg.Points(9)
		p.Add(marker)
	}

	return p, nil
}

// carOrigin returns the lower-left corner of the i-th vehicle queued in lane l.
func carOrigin(l junction.Lane, i int) (float64, float64) {
	offset := float64(i) * carSpacing
	switch l {
	case junction.Up:
		return -0.5, queueStart - offset
	case junction.Right:
		return -queueStart + offset, 0.1
	case junction.Down:
		return 0.1, -queueStart + offset
	default:
		return queueStart - offset, -0.5
	}
}

// markerPosition returns where the ambulance marker sits for lane l.
func markerPosition(l junction.Lane) (float64, float64) {
	switch l {
	case junction.Up:
		return 0, markerReach
	case junction.Right:
		return -markerReach, 0
	case junction.Down:
		return 0, -markerReach
	default:
		return markerReach, 0
	}
}

func rect(x, y, w, h float64) plotter.XYs {
	return plotter.XYs{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

// Package report aggregates round results into the comparison summary and
// writes it out as a text table, CSV, JSON and an HTML chart page.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"gonum.org/v1/gonum/stat"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/fsutil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/round"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/savings"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// Output file names written by Save.
const (
	TableFile = "summary.txt"
	CSVFile   = "summary.csv"
	JSONFile  = "summary.json"
	ChartFile = "report.html"
)

// Average is a mean over the samples that were present. OK is false when
// there were none, in which case Value is meaningless.
type Average struct {
	Value   float64 `json:"value"`
	Samples int     `json:"samples"`
	OK      bool    `json:"ok"`
}

// String formats the average in minutes to two decimals, or "not computed".
func (a Average) String() string {
	if !a.OK {
		return "not computed"
	}
	return fmt.Sprintf("%.2f minutes", a.Value)
}

// Pair holds one value per strategy.
type Pair[T any] struct {
	Normal  T `json:"normal"`
	Quantum T `json:"quantum"`
}

// Get returns the value for strategy s.
func (p Pair[T]) Get(s scheduler.Strategy) T {
	if s == scheduler.Quantum {
		return p.Quantum
	}
	return p.Normal
}

// Summary is the aggregate over all executed rounds.
type Summary struct {
	RunID     string                `json:"run_id,omitempty"`
	Priority  junction.Lane         `json:"priority"`
	Rounds    []round.Result        `json:"rounds"`
	Totals    Pair[savings.Savings] `json:"totals"`
	Clearance Pair[Average]         `json:"clearance"`
}

// PriorityConfigured reports whether the run used an ambulance lane.
func (s *Summary) PriorityConfigured() bool {
	return s.Priority.Valid()
}

// Build sums savings per strategy across results and averages the clearance
// times that were recorded.
func Build(results []round.Result) Summary {
	sum := Summary{Priority: junction.NoLane, Rounds: results}
	if len(results) > 0 {
		sum.Priority = results[0].Priority
	}

	var normal, quantum []float64
	for _, r := range results {
		addSavings(&sum.Totals.Normal, r.Normal.Savings)
		addSavings(&sum.Totals.Quantum, r.Quantum.Savings)
		if c := r.Normal.PriorityClearanceMinutes; c != nil {
			normal = append(normal, *c)
		}
		if c := r.Quantum.PriorityClearanceMinutes; c != nil {
			quantum = append(quantum, *c)
		}
	}
	sum.Clearance.Normal = average(normal)
	sum.Clearance.Quantum = average(quantum)
	return sum
}

func addSavings(dst *savings.Savings, s savings.Savings) {
	dst.TimeMinutes += s.TimeMinutes
	dst.FuelLiters += s.FuelLiters
	dst.CarbonKg += s.CarbonKg
}

func average(xs []float64) Average {
	if len(xs) == 0 {
		return Average{}
	}
	return Average{Value: stat.Mean(xs, nil), Samples: len(xs), OK: true}
}

// Save writes every report format into dir.
func (s *Summary) Save(fs fsutil.FileSystem, dir string) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	outputs := []struct {
		name  string
		write func(io.Writer) error
	}{
		{TableFile, s.WriteTable},
		{CSVFile, s.WriteCSV},
		{JSONFile, s.WriteJSON},
		{ChartFile, s.RenderChart},
	}
	for _, o := range outputs {
		var buf bytes.Buffer
		if err := o.write(&buf); err != nil {
			return fmt.Errorf("render %s: %w", o.name, err)
		}
		if err := fs.WriteFile(filepath.Join(dir, o.name), buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("write %s: %w", o.name, err)
		}
	}
	return nil
}

package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/round"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/savings"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// metric is one row of the comparison: a label and how to read it from Savings.
type metric struct {
	Label string
	Value func(savings.Savings) int
}

var metrics = []metric{
	{"Time Saved (minutes)", func(s savings.Savings) int { return s.TimeMinutes }},
	{"Fuel Saved (liters)", func(s savings.Savings) int { return s.FuelLiters }},
	{"Carbon Saved (kg)", func(s savings.Savings) int { return s.CarbonKg }},
}

// WriteTable writes the totals table and, when a priority lane was used, the
// average clearance times.
func (s *Summary) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tNormal\tQuantum\n")
	for _, m := range metrics {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", m.Label, m.Value(s.Totals.Normal), m.Value(s.Totals.Quantum))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !s.PriorityConfigured() {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nAverage Priority Clearance Time (%s lane)\nNormal System Avg: %s\nQuantum System Avg: %s\n",
		s.Priority, s.Clearance.Normal, s.Clearance.Quantum)
	return err
}

var csvHeader = []string{
	"round", "strategy", "time_saved_minutes", "fuel_saved_liters", "carbon_saved_kg",
	"priority_clearance_minutes", "steps", "visits",
}

// WriteCSV writes one row per round and strategy followed by a "total" row
// per strategy. Absent clearance values are left empty.
func (s *Summary) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write(csvHeader)
	for _, r := range s.Rounds {
		for _, st := range scheduler.Strategies {
			cw.Write(roundRow(r, r.ByStrategy(st)))
		}
	}
	for _, st := range scheduler.Strategies {
		tot := s.Totals.Get(st)
		avg := s.Clearance.Get(st)
		clearance := ""
		if avg.OK {
			clearance = strconv.FormatFloat(avg.Value, 'f', 4, 64)
		}
		cw.Write([]string{
			"total", st.String(),
			strconv.Itoa(tot.TimeMinutes), strconv.Itoa(tot.FuelLiters), strconv.Itoa(tot.CarbonKg),
			clearance, "", "",
		})
	}
	cw.Flush()
	return cw.Error()
}

func roundRow(r round.Result, st round.Stats) []string {
	clearance := ""
	if st.PriorityClearanceMinutes != nil {
		clearance = strconv.FormatFloat(*st.PriorityClearanceMinutes, 'f', 4, 64)
	}
	return []string{
		strconv.Itoa(r.Round), st.Strategy.String(),
		strconv.Itoa(st.TimeMinutes), strconv.Itoa(st.FuelLiters), strconv.Itoa(st.CarbonKg),
		clearance, strconv.Itoa(st.Steps), strconv.Itoa(st.Visits),
	}
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

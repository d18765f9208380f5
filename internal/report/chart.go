package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/scheduler"
)

// Series colours of the two strategies: Normal gray, Quantum purple.
var strategyColours = map[scheduler.Strategy]string{
	scheduler.Normal:  "#808080",
	scheduler.Quantum: "#800080",
}

// ComparisonChart builds the grouped bar chart of total savings per metric.
func (s *Summary) ComparisonChart() *charts.Bar {
	x := make([]string, 0, len(metrics))
	for _, m := range metrics {
		x = append(x, m.Label)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Normal vs Quantum Comparison", Subtitle: fmt.Sprintf("%d round(s)", len(s.Rounds))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Values"}),
	)
	bar.SetXAxis(x)
	for _, st := range scheduler.Strategies {
		tot := s.Totals.Get(st)
		data := make([]opts.BarData, 0, len(metrics))
		for _, m := range metrics {
			data = append(data, opts.BarData{Value: m.Value(tot)})
		}
		bar.AddSeries(st.Title(), data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: strategyColours[st]}),
		)
	}
	return bar
}

// ClearanceChart builds a bar chart of the average clearance time per
// strategy. It returns nil when no strategy has a clearance sample.
func (s *Summary) ClearanceChart() *charts.Bar {
	if !s.Clearance.Normal.OK && !s.Clearance.Quantum.OK {
		return nil
	}

	x := make([]string, 0, len(scheduler.Strategies))
	data := make([]opts.BarData, 0, len(scheduler.Strategies))
	for _, st := range scheduler.Strategies {
		x = append(x, st.Title())
		avg := s.Clearance.Get(st)
		if !avg.OK {
			data = append(data, opts.BarData{Value: "-"})
			continue
		}
		data = append(data, opts.BarData{
			Value:     math.Round(avg.Value*100) / 100,
			ItemStyle: &opts.ItemStyle{Color: strategyColours[st]},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Average Priority Clearance Time", Subtitle: fmt.Sprintf("%s lane", s.Priority)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "minutes"}),
	)
	bar.SetXAxis(x).
		AddSeries("clearance", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)
	return bar
}

// RenderChart writes an HTML page holding the comparison chart and, when
// available, the clearance chart.
func (s *Summary) RenderChart(w io.Writer) error {
	page := components.NewPage()
	page.SetPageTitle("Traffic Q Report")
	page.AddCharts(s.ComparisonChart())
	if c := s.ClearanceChart(); c != nil {
		page.AddCharts(c)
	}
	return page.Render(w)
}

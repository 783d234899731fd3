package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"bordersentry/pkg/models"
)

// Render writes a static HTML dashboard for a recorded event stream:
// per-cycle detections, final label distribution, and mean confidence per
// cycle. The report layer only consumes events; it feeds nothing back into
// the simulation.
func Render(events []*models.DetectionEvent, path string) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to report on")
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	page := components.NewPage()
	page.AddCharts(
		labelDistribution(events),
		detectionsPerCycle(events),
		confidencePerCycle(events),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func labelDistribution(events []*models.DetectionEvent) *charts.Bar {
	counts := make(map[models.Label]int)
	verified := 0
	for _, ev := range events {
		counts[ev.FinalLabel]++
		if ev.Verified {
			verified++
		}
	}

	labels := models.Labels()
	xs := make([]string, 0, len(labels))
	data := make([]opts.BarData, 0, len(labels))
	for _, label := range labels {
		xs = append(xs, string(label))
		data = append(data, opts.BarData{Value: counts[label]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "BorderSentry Simulation Report"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Final label distribution",
			Subtitle: fmt.Sprintf("events=%d verified=%d", len(events), verified),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xs).AddSeries("events", data)
	return bar
}

func detectionsPerCycle(events []*models.DetectionEvent) *charts.Bar {
	perCycle := make(map[int]int)
	maxCycle := 0
	for _, ev := range events {
		if ev.FinalLabel.Intrusion() {
			perCycle[ev.Cycle]++
		}
		if ev.Cycle > maxCycle {
			maxCycle = ev.Cycle
		}
	}

	xs := make([]string, 0, maxCycle+1)
	data := make([]opts.BarData, 0, maxCycle+1)
	for c := 0; c <= maxCycle; c++ {
		xs = append(xs, fmt.Sprintf("%d", c))
		data = append(data, opts.BarData{Value: perCycle[c]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Confirmed detections per cycle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xs).AddSeries("detections", data)
	return bar
}

func confidencePerCycle(events []*models.DetectionEvent) *charts.Line {
	byCycle := make(map[int][]float64)
	for _, ev := range events {
		byCycle[ev.Cycle] = append(byCycle[ev.Cycle], ev.Confidence)
	}

	cycles := make([]int, 0, len(byCycle))
	for c := range byCycle {
		cycles = append(cycles, c)
	}
	sort.Ints(cycles)

	xs := make([]string, 0, len(cycles))
	data := make([]opts.LineData, 0, len(cycles))
	for _, c := range cycles {
		xs = append(xs, fmt.Sprintf("%d", c))
		data = append(data, opts.LineData{Value: stat.Mean(byCycle[c], nil)})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean classifier confidence per cycle"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xs).AddSeries("confidence", data)
	return line
}

package render

import (
	"fmt"
	"strings"
	"time"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"
)

// Legend names of the chart series.
const (
	SeriesPreheat  = "Vorheizen"
	SeriesRuntime  = "Laufzeit"
	SeriesActual   = "Ist °C"
	SeriesSetpoint = "Soll °C"
)

// echartsTimeLayout is a naive wall-clock form; ECharts reads it as local time.
const echartsTimeLayout = "2006-01-02 15:04:05"

// ChartBuilder draws one device as a go-echarts line chart.
type ChartBuilder struct {
	cfg config.Chart
}

func NewChartBuilder(cfg config.Chart) *ChartBuilder {
	return &ChartBuilder{cfg: cfg}
}

// Build never fails; a device without intervals and samples yields a chart
// with axes only.
func (b *ChartBuilder) Build(dc models.DeviceChart) *charts.Line {
	line := charts.NewLine()

	xAxis := opts.XAxis{
		Name: "Zeit",
		Type: "time",
	}
	if !dc.WindowStart.IsZero() {
		xAxis.Min = timeValue(dc.WindowStart)
		xAxis.Max = timeValue(dc.WindowEnd)
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  dc.Device,
			Width:      "100%",
			Height:     b.cfg.Height,
			ChartID:    chartID(),
			AssetsHost: b.cfg.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    dc.Device,
			Subtitle: subtitle(dc.Stats),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Temperatur °C",
			Type: "value",
			Min:  b.cfg.YMin,
			Max:  b.cfg.YMax,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "inside",
			Start: 0,
			End:   100,
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "60",
			Right:  "40",
			Top:    "70",
			Bottom: "60",
		}),
	)

	b.addPhase(line, dc, models.PhasePreheat, SeriesPreheat, b.cfg.PreheatColor)
	b.addPhase(line, dc, models.PhaseRuntime, SeriesRuntime, b.cfg.RuntimeColor)

	if dc.HasActual() {
		line.AddSeries(SeriesActual, lineData(dc.Samples, func(s models.Sample) *float64 { return s.Actual }),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: b.cfg.ActualColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: b.cfg.ActualColor, Width: 2}),
		)
	}
	if dc.HasSetpoint() {
		line.AddSeries(SeriesSetpoint, lineData(dc.Samples, func(s models.Sample) *float64 { return s.Setpoint }),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: b.cfg.SetpointColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: b.cfg.SetpointColor, Width: 1.5, Type: "dotted"}),
		)
	}
	return line
}

// addPhase adds a legend-only series whose mark areas are the phase bars.
// Each bar spans the whole temperature axis.
func (b *ChartBuilder) addPhase(line *charts.Line, dc models.DeviceChart, phase models.Phase, name, color string) {
	var areas []opts.MarkAreaNameCoordItem
	for _, iv := range dc.Intervals {
		if iv.Phase != phase {
			continue
		}
		areas = append(areas, opts.MarkAreaNameCoordItem{
			Name:        iv.Program,
			Coordinate0: []interface{}{timeValue(iv.Start), b.cfg.YMin},
			Coordinate1: []interface{}{timeValue(iv.End), b.cfg.YMax},
			ItemStyle:   &opts.ItemStyle{Color: color},
		})
	}
	if len(areas) == 0 {
		return
	}

	// two empty points so the series exists on the time axis
	carrier := []opts.LineData{
		{Value: []interface{}{timeValue(dc.WindowStart), nil}},
		{Value: []interface{}{timeValue(dc.WindowEnd), nil}},
	}
	line.AddSeries(name, carrier,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithMarkAreaNameCoordItemOpts(areas...),
		// per-item labels are not emitted; an empty name shows no text
		charts.WithMarkAreaStyleOpts(opts.MarkAreaStyle{
			Label: &opts.Label{Show: opts.Bool(true), Position: "insideTop"},
		}),
	)
}

func lineData(samples []models.Sample, value func(models.Sample) *float64) []opts.LineData {
	out := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		var y interface{}
		if v := value(s); v != nil {
			y = *v
		}
		out = append(out, opts.LineData{Value: []interface{}{timeValue(s.Timestamp), y}})
	}
	return out
}

func timeValue(t time.Time) string {
	return t.Format(echartsTimeLayout)
}

// chartID is used by go-echarts inside JS identifiers, so no dashes.
func chartID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func subtitle(s models.DeviceStats) string {
	parts := []string{fmt.Sprintf("%d Datensätze", s.Records)}
	if s.Actual.Count > 0 {
		parts = append(parts, fmt.Sprintf("Ist %.1f…%.1f °C (Ø %.1f)", s.Actual.Min, s.Actual.Max, s.Actual.Mean))
	}
	if s.Setpoint.Count > 0 {
		parts = append(parts, fmt.Sprintf("Soll %.1f…%.1f °C", s.Setpoint.Min, s.Setpoint.Max))
	}
	if s.Preheat > 0 {
		parts = append(parts, "Vorheizen "+formatDuration(s.Preheat))
	}
	if s.Runtime > 0 {
		parts = append(parts, "Laufzeit "+formatDuration(s.Runtime))
	}
	return strings.Join(parts, " | ")
}

// formatDuration renders d as "1h05m", or "12m" below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

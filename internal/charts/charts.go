package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"FXDashboard/internal/model"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart is asked to draw a nil table or instrument.
var ErrNoData = errors.New("no data to plot")

// Format selects the output encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat maps a request value to a Format; empty means SVG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q", s)
	}
}

// ContentType is the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

var (
	primaryLine   = drawing.ColorFromHex("636efa")
	secondaryLine = drawing.ColorFromHex("ef553b")
)

// Renderer draws the dashboard charts at a fixed size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a Renderer; non-positive sizes fall back to 1024x480.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 480
	}
	return &Renderer{Width: width, Height: height}
}

func (r *Renderer) base() chart.Chart {
	return chart.Chart{
		Width:  r.Width,
		Height: r.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
	}
}

// PriceChart renders the daily candlestick chart of an instrument.
// An instrument without bars still gets its axes.
func (r *Renderer) PriceChart(w io.Writer, f Format, inst *model.Instrument) error {
	if inst == nil {
		return ErrNoData
	}
	bounds := make([]float64, 0, 2*len(inst.Bars))
	for _, b := range inst.Bars {
		bounds = append(bounds, b.Low, b.High)
	}
	xr := timeSpan(inst.Dates())

	graph := r.base()
	graph.XAxis = chart.XAxis{ValueFormatter: chart.TimeValueFormatter, Range: xr}
	graph.YAxis = chart.YAxis{Name: inst.Label, Range: valueSpan(bounds)}
	if len(inst.Bars) == 0 {
		graph.Series = []chart.Series{placeholder(inst.Label, chart.YAxisPrimary, xr, chart.Style{})}
	} else {
		graph.Series = []chart.Series{
			CandlestickSeries{Name: inst.Label, Bars: inst.Bars},
		}
	}
	return render(graph, f, w)
}

// RangeChart renders one rolling-range column as a line in pips. Missing values
// are skipped; a column with no values left plots empty axes over the table's dates.
func (r *Renderer) RangeChart(w io.Writer, f Format, table *model.RangeTable, window string) error {
	if table == nil {
		return ErrNoData
	}
	dates, values, ok := table.Column(window)
	if !ok {
		return fmt.Errorf("unknown window %q", window)
	}
	xs, ys := dropMissing(dates, values)
	style := lineStyle(primaryLine, len(xs))

	graph := r.base()
	var series chart.Series
	if len(xs) == 0 {
		xr := timeSpan(dates)
		graph.XAxis = chart.XAxis{ValueFormatter: chart.TimeValueFormatter, Range: xr}
		series = placeholder(window, chart.YAxisPrimary, xr, style)
	} else {
		graph.XAxis = chart.XAxis{ValueFormatter: chart.TimeValueFormatter, Range: timeSpan(xs)}
		series = chart.TimeSeries{Name: window, XValues: xs, YValues: ys, Style: style}
	}
	graph.YAxis = chart.YAxis{Name: "Pips", Range: valueSpan(ys)}
	graph.Series = []chart.Series{series}
	return render(graph, f, w)
}

// DualAxisChart plots the closes of primary on the left axis and of secondary on the right.
func (r *Renderer) DualAxisChart(w io.Writer, f Format, primary, secondary *model.Instrument) error {
	if primary == nil || secondary == nil {
		return ErrNoData
	}
	xr := timeSpan(append(primary.Dates(), secondary.Dates()...))

	graph := r.base()
	graph.Background.Padding.Top = 50
	graph.XAxis = chart.XAxis{Name: "Date", ValueFormatter: chart.TimeValueFormatter, Range: xr}
	graph.YAxis = chart.YAxis{Name: primary.Label, Range: valueSpan(primary.Closes())}
	graph.YAxisSecondary = chart.YAxis{Name: secondary.Label, Range: valueSpan(secondary.Closes())}
	graph.Series = []chart.Series{
		closeSeries(primary, chart.YAxisPrimary, primaryLine, xr),
		closeSeries(secondary, chart.YAxisSecondary, secondaryLine, xr),
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(graph, f, w)
}

func closeSeries(inst *model.Instrument, axis chart.YAxisType, color drawing.Color, xr *chart.ContinuousRange) chart.Series {
	style := lineStyle(color, len(inst.Bars))
	if len(inst.Bars) == 0 {
		return placeholder(inst.Label, axis, xr, style)
	}
	return chart.TimeSeries{
		Name:    inst.Label,
		YAxis:   axis,
		XValues: inst.Dates(),
		YValues: inst.Closes(),
		Style:   style,
	}
}

// lineStyle marks a lone point with a dot, since a one-point line draws nothing.
func lineStyle(color drawing.Color, n int) chart.Style {
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if n == 1 {
		style.DotColor = color
		style.DotWidth = 4
	}
	return style
}

// placeholder is a single invisible point at the centre of xr. go-chart refuses
// to draw axes without a series, so empty charts carry one of these.
func placeholder(name string, axis chart.YAxisType, xr *chart.ContinuousRange, style chart.Style) chart.Series {
	style.DotWidth = 0
	return chart.TimeSeries{
		Name:    name,
		YAxis:   axis,
		XValues: []time.Time{time.Unix(0, int64((xr.Min+xr.Max)/2)).UTC()},
		YValues: []float64{0},
		Style:   style,
	}
}

// timeSpan is the x range covering xs. go-chart rejects a zero-width range, so
// a single date is padded by half a day on each side; no dates centre on now.
func timeSpan(xs []time.Time) *chart.ContinuousRange {
	if len(xs) == 0 {
		return padTime(time.Now().UTC())
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x.Before(lo) {
			lo = x
		}
		if x.After(hi) {
			hi = x
		}
	}
	if !hi.After(lo) {
		return padTime(lo)
	}
	return &chart.ContinuousRange{Min: float64(lo.UnixNano()), Max: float64(hi.UnixNano())}
}

func padTime(t time.Time) *chart.ContinuousRange {
	return &chart.ContinuousRange{
		Min: float64(t.Add(-singleDatePadding).UnixNano()),
		Max: float64(t.Add(singleDatePadding).UnixNano()),
	}
}

const singleDatePadding = 12 * time.Hour

// valueSpan returns a manual y range when ys is empty or flat, and nil when
// go-chart can range the values itself.
func valueSpan(ys []float64) chart.Range {
	if len(ys) == 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if hi > lo {
		return nil
	}
	pad := math.Abs(lo) * 0.01
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func render(graph chart.Chart, f Format, w io.Writer) error {
	if err := graph.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render %s chart: %w", f, err)
	}
	return nil
}

func dropMissing(dates []time.Time, values []float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(dates))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, v)
	}
	return xs, ys
}

package charts

import (
	"errors"
	"math"

	"FXDashboard/internal/model"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const maxCandleHalfWidth = 12

var (
	risingColor  = drawing.ColorFromHex("26a69a")
	fallingColor = drawing.ColorFromHex("ef5350")
)

// CandlestickSeries draws OHLC bars as candles. It satisfies chart.Series and
// chart.BoundedValuesProvider so the chart ranges over the full high-low span.
type CandlestickSeries struct {
	Name  string
	Style chart.Style
	YAxis chart.YAxisType
	Bars  []model.OHLCV
}

func (cs CandlestickSeries) GetName() string           { return cs.Name }
func (cs CandlestickSeries) GetStyle() chart.Style     { return cs.Style }
func (cs CandlestickSeries) GetYAxis() chart.YAxisType { return cs.YAxis }
func (cs CandlestickSeries) Len() int                  { return len(cs.Bars) }

// GetBoundedValues returns the bar date with its low and high.
func (cs CandlestickSeries) GetBoundedValues(index int) (x, low, high float64) {
	b := cs.Bars[index]
	return timeToFloat(b), b.Low, b.High
}

func (cs CandlestickSeries) Validate() error {
	if len(cs.Bars) == 0 {
		return errors.New("candlestick series must have bars")
	}
	return nil
}

func (cs CandlestickSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, _ chart.Style) {
	if len(cs.Bars) == 0 {
		return
	}
	slot := float64(canvasBox.Width()) / float64(len(cs.Bars))
	half := int(math.Max(1, math.Min(maxCandleHalfWidth, slot*0.35)))
	cb, cl := canvasBox.Bottom, canvasBox.Left

	for _, b := range cs.Bars {
		x := cl + xrange.Translate(timeToFloat(b))
		yHigh := cb - yrange.Translate(b.High)
		yLow := cb - yrange.Translate(b.Low)
		yOpen := cb - yrange.Translate(b.Open)
		yClose := cb - yrange.Translate(b.Close)

		color := risingColor
		if b.Close < b.Open {
			color = fallingColor
		}
		r.SetStrokeColor(color)
		r.SetFillColor(color)
		r.SetStrokeWidth(1)

		r.MoveTo(x, yHigh)
		r.LineTo(x, yLow)
		r.Stroke()

		if yOpen == yClose {
			r.MoveTo(x-half, yOpen)
			r.LineTo(x+half, yOpen)
			r.Stroke()
			continue
		}
		r.MoveTo(x-half, yOpen)
		r.LineTo(x+half, yOpen)
		r.LineTo(x+half, yClose)
		r.LineTo(x-half, yClose)
		r.Close()
		r.FillStroke()
	}
}

func timeToFloat(b model.OHLCV) float64 {
	return float64(b.Time.UnixNano())
}

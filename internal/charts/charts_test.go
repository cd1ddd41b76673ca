package charts

import (
	"bytes"
	"math"
	"testing"
	"time"

	"FXDashboard/internal/calculator"
	"FXDashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstrument(key, label string, base float64, n int) *model.Instrument {
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	inst := &model.Instrument{Key: key, Symbol: key, Label: label}
	for i := 0; i < n; i++ {
		p := base + float64(i%7) - 3
		inst.Bars = append(inst.Bars, model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  p,
			High:  p + 1.5,
			Low:   p - 1.2,
			Close: p + float64(i%3) - 1,
		})
	}
	return inst
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestPriceChart_SVG(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(800, 400).PriceChart(&buf, SVG, testInstrument("usdjpy", "USD/JPY rate", 115, 30))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
}

func TestPriceChart_PNG(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(800, 400).PriceChart(&buf, PNG, testInstrument("usdjpy", "USD/JPY rate", 115, 30))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestPriceChart_NoBars(t *testing.T) {
	r := NewRenderer(0, 0)

	var buf bytes.Buffer
	require.NoError(t, r.PriceChart(&buf, SVG, &model.Instrument{Key: "x", Label: "Empty"}))
	assert.Contains(t, buf.String(), "Empty")

	assert.ErrorIs(t, r.PriceChart(&buf, SVG, nil), ErrNoData)
}

func TestPriceChart_FewBars(t *testing.T) {
	r := NewRenderer(800, 400)
	for _, n := range []int{1, 2} {
		for _, f := range []Format{SVG, PNG} {
			var buf bytes.Buffer
			assert.NoError(t, r.PriceChart(&buf, f, testInstrument("usdjpy", "USD/JPY rate", 115, n)), "%d bars as %s", n, f)
		}
	}

	flat := &model.Instrument{Key: "flat", Label: "Flat", Bars: []model.OHLCV{
		{Time: time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC), Open: 115, High: 115, Low: 115, Close: 115},
	}}
	var buf bytes.Buffer
	assert.NoError(t, r.PriceChart(&buf, SVG, flat))
}

func TestRangeChart(t *testing.T) {
	inst := testInstrument("usdjpy", "USD/JPY rate", 115, 40)
	table, err := calculator.BuildRangeTable(inst.Symbol, inst.Bars, []int{1, 2, 5, 10}, calculator.DefaultPipFactor)
	require.NoError(t, err)

	r := NewRenderer(800, 400)
	for _, w := range table.Windows {
		var buf bytes.Buffer
		require.NoError(t, r.RangeChart(&buf, SVG, table, w), w)
		assert.Contains(t, buf.String(), "Pips")
	}

	var buf bytes.Buffer
	assert.Error(t, r.RangeChart(&buf, SVG, table, "3-day"))
}

func TestRangeChart_AllMissing(t *testing.T) {
	inst := testInstrument("usdjpy", "USD/JPY rate", 115, 4)
	table, err := calculator.BuildRangeTable(inst.Symbol, inst.Bars, []int{10}, calculator.DefaultPipFactor)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(800, 400).RangeChart(&buf, SVG, table, "10-day"))
	assert.Contains(t, buf.String(), "Pips")
}

func TestRangeChart_SparseColumns(t *testing.T) {
	// 10 bars give the 10-day column one value and the 9-day column two.
	inst := testInstrument("usdjpy", "USD/JPY rate", 115, 10)
	table, err := calculator.BuildRangeTable(inst.Symbol, inst.Bars, []int{1, 9, 10, 20}, calculator.DefaultPipFactor)
	require.NoError(t, err)

	r := NewRenderer(800, 400)
	for _, w := range table.Windows {
		for _, f := range []Format{SVG, PNG} {
			var buf bytes.Buffer
			assert.NoError(t, r.RangeChart(&buf, f, table, w), "%s as %s", w, f)
		}
	}
}

func TestRangeChart_EmptyTable(t *testing.T) {
	table := &model.RangeTable{Symbol: "USDJPY=X", Windows: []string{"10-day"}}
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(800, 400).RangeChart(&buf, SVG, table, "10-day"))
	assert.Contains(t, buf.String(), "<svg")
}

func TestDualAxisChart(t *testing.T) {
	nikkei := testInstrument("nikkei", "Nikkei", 27000, 30)
	usd := testInstrument("usdjpy", "USD/JPY rate", 115, 30)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(800, 400).DualAxisChart(&buf, SVG, nikkei, usd))
	out := buf.String()
	assert.Contains(t, out, "Nikkei")
	assert.Contains(t, out, "USD/JPY rate")
	assert.Contains(t, out, "Date")
}

func TestDualAxisChart_FewBars(t *testing.T) {
	r := NewRenderer(800, 400)
	for _, n := range []int{0, 1, 2} {
		nikkei := testInstrument("nikkei", "Nikkei", 27000, n)
		usd := testInstrument("usdjpy", "USD/JPY rate", 115, n)
		var buf bytes.Buffer
		require.NoError(t, r.DualAxisChart(&buf, SVG, nikkei, usd), "%d bars", n)
		assert.Contains(t, buf.String(), "Nikkei")
	}

	var buf bytes.Buffer
	assert.NoError(t, r.DualAxisChart(&buf, PNG, testInstrument("sp", "S&P", 4700, 30), testInstrument("usdjpy", "USD/JPY rate", 115, 1)))
	assert.ErrorIs(t, r.DualAxisChart(&buf, SVG, nil, testInstrument("usdjpy", "USD/JPY rate", 115, 1)), ErrNoData)
}

func TestTimeSpan(t *testing.T) {
	day := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

	r := timeSpan([]time.Time{day})
	assert.Equal(t, float64(day.Add(-12*time.Hour).UnixNano()), r.Min)
	assert.Equal(t, float64(day.Add(12*time.Hour).UnixNano()), r.Max)

	r = timeSpan([]time.Time{day.AddDate(0, 0, 1), day})
	assert.Equal(t, float64(day.UnixNano()), r.Min)
	assert.Equal(t, float64(day.AddDate(0, 0, 1).UnixNano()), r.Max)

	r = timeSpan(nil)
	assert.Greater(t, r.Max, r.Min)
}

func TestValueSpan(t *testing.T) {
	assert.Nil(t, valueSpan([]float64{1, 2}))

	r := valueSpan([]float64{50})
	require.NotNil(t, r)
	assert.Less(t, r.GetMin(), 50.0)
	assert.Greater(t, r.GetMax(), 50.0)

	r = valueSpan([]float64{0})
	assert.Equal(t, -1.0, r.GetMin())
	assert.Equal(t, 1.0, r.GetMax())

	r = valueSpan(nil)
	assert.Equal(t, 0.0, r.GetMin())
	assert.Equal(t, 1.0, r.GetMax())
}

func TestDropMissing(t *testing.T) {
	now := time.Now()
	xs, ys := dropMissing([]time.Time{now, now, now}, []float64{math.NaN(), 1, math.Inf(1)})
	assert.Len(t, xs, 1)
	assert.Equal(t, []float64{1}, ys)
}

package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"FXDashboard/internal/calculator"
	"FXDashboard/internal/charts"
	"FXDashboard/internal/model"

	"github.com/gin-gonic/gin"
)

var errNotLoaded = errors.New("dataset not loaded yet")

type chartQuery struct {
	Symbol    string `form:"symbol"`
	Window    string `form:"window"`
	Benchmark string `form:"benchmark"`
	Format    string `form:"format" binding:"omitempty,oneof=svg png"`
}

// dataset returns the current dataset or aborts with 503.
func (h *Handler) dataset(c *gin.Context) (*model.Dataset, bool) {
	ds := h.store.Load()
	if ds == nil {
		fail(c, http.StatusServiceUnavailable, "Data is not available yet", errNotLoaded)
		return nil, false
	}
	return ds, true
}

func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "healthy", "service": "fx-dashboard"}
	if ds := h.store.Load(); ds != nil {
		body["fetched_at"] = ds.FetchedAt.Format(time.RFC3339)
	} else {
		body["status"] = "loading"
	}
	c.JSON(http.StatusOK, body)
}

type option struct {
	Key   string
	Label string
}

func (h *Handler) Dashboard(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	tickers := make([]option, 0, len(ds.Instruments))
	for _, inst := range ds.Instruments {
		tickers = append(tickers, option{Key: inst.Key, Label: inst.Label})
	}
	benchmarks := make([]option, 0, len(h.opts.Benchmarks))
	for _, key := range h.opts.Benchmarks {
		if inst, ok := ds.Instrument(key); ok {
			benchmarks = append(benchmarks, option{Key: inst.Key, Label: inst.Label})
		}
	}
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":         h.opts.Title,
		"Primary":       ds.Primary,
		"Tickers":       tickers,
		"Windows":       h.opts.Windows,
		"DefaultWindow": h.opts.DefaultWindow,
		"Benchmarks":    benchmarks,
		"FetchedAt":     ds.FetchedAt.Format("2006-01-02 15:04 MST"),
	})
}

func (h *Handler) bindChartQuery(c *gin.Context) (chartQuery, charts.Format, bool) {
	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "Invalid query", err)
		return q, "", false
	}
	f, err := charts.ParseFormat(q.Format)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid query", err)
		return q, "", false
	}
	return q, f, true
}

func (h *Handler) writeChart(c *gin.Context, f charts.Format, draw func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			fail(c, http.StatusNotFound, "Nothing to plot", err)
			return
		}
		fail(c, http.StatusInternalServerError, "Chart rendering failed", err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}

// checkWindow rejects a malformed window label separately from a well-formed
// one the range table does not carry.
func (h *Handler) checkWindow(c *gin.Context, table *model.RangeTable, window string) bool {
	if _, err := calculator.ParseWindowLabel(window); err != nil {
		fail(c, http.StatusBadRequest, "Invalid window", err)
		return false
	}
	if !table.HasWindow(window) {
		fail(c, http.StatusBadRequest, "Unknown window", fmt.Errorf("window %q, expected one of %v", window, table.Windows))
		return false
	}
	return true
}

// PriceChart renders the candlestick chart of ?symbol (default: primary instrument).
func (h *Handler) PriceChart(c *gin.Context) {
	q, f, ok := h.bindChartQuery(c)
	if !ok {
		return
	}
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	key := q.Symbol
	if key == "" {
		key = ds.Primary
	}
	inst, ok := ds.Instrument(key)
	if !ok {
		fail(c, http.StatusBadRequest, "Unknown instrument", fmt.Errorf("instrument %q", key))
		return
	}
	h.writeChart(c, f, func(buf *bytes.Buffer) error {
		return h.renderer.PriceChart(buf, f, inst)
	})
}

// RangeChart renders the rolling daily range selected by ?window.
func (h *Handler) RangeChart(c *gin.Context) {
	q, f, ok := h.bindChartQuery(c)
	if !ok {
		return
	}
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	window := q.Window
	if window == "" {
		window = h.opts.DefaultWindow
	}
	if !h.checkWindow(c, ds.Range, window) {
		return
	}
	h.writeChart(c, f, func(buf *bytes.Buffer) error {
		return h.renderer.RangeChart(buf, f, ds.Range, window)
	})
}

// CorrelationChart plots ?benchmark against the primary instrument on two y axes.
func (h *Handler) CorrelationChart(c *gin.Context) {
	q, f, ok := h.bindChartQuery(c)
	if !ok {
		return
	}
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	key := q.Benchmark
	if key == "" && len(h.opts.Benchmarks) > 0 {
		key = h.opts.Benchmarks[0]
	}
	bench, ok := ds.Instrument(key)
	if !ok || key == ds.Primary {
		fail(c, http.StatusBadRequest, "Unknown benchmark", fmt.Errorf("benchmark %q", key))
		return
	}
	primary, _ := ds.Instrument(ds.Primary)
	h.writeChart(c, f, func(buf *bytes.Buffer) error {
		return h.renderer.DualAxisChart(buf, f, bench, primary)
	})
}

type instrumentSummary struct {
	Key    string    `json:"key"`
	Symbol string    `json:"symbol"`
	Label  string    `json:"label"`
	Bars   int       `json:"bars"`
	First  time.Time `json:"first"`
	Last   time.Time `json:"last"`
}

func (h *Handler) ListInstruments(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	out := make([]instrumentSummary, 0, len(ds.Instruments))
	for _, inst := range ds.Instruments {
		s := instrumentSummary{Key: inst.Key, Symbol: inst.Symbol, Label: inst.Label, Bars: len(inst.Bars)}
		if n := len(inst.Bars); n > 0 {
			s.First = inst.Bars[0].Time
			s.Last = inst.Bars[n-1].Time
		}
		out = append(out, s)
	}
	success(c, gin.H{"primary": ds.Primary, "fetched_at": ds.FetchedAt, "instruments": out})
}

func (h *Handler) InstrumentBars(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	inst, ok := ds.Instrument(c.Param("key"))
	if !ok {
		fail(c, http.StatusNotFound, "Unknown instrument", fmt.Errorf("instrument %q", c.Param("key")))
		return
	}
	success(c, inst)
}

// RangeSeries returns one rolling-range column; missing values are null.
func (h *Handler) RangeSeries(c *gin.Context) {
	ds, ok := h.dataset(c)
	if !ok {
		return
	}
	window := c.DefaultQuery("window", h.opts.DefaultWindow)
	if !h.checkWindow(c, ds.Range, window) {
		return
	}
	points, _ := ds.Range.Points(window)
	success(c, gin.H{
		"symbol":  ds.Range.Symbol,
		"window":  window,
		"windows": ds.Range.Windows,
		"unit":    "pips",
		"points":  points,
	})
}

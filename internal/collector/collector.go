package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"FXDashboard/internal/calculator"
	"FXDashboard/internal/model"

	"golang.org/x/sync/errgroup"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Data  map[string][]model.OHLCV // per-symbol override
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Data[symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

// generateMockBars produces one weekday bar per day in [start, end] following a gentle wave.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	if basePrice == 0 {
		basePrice = 130
	}
	var bars []model.OHLCV
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/20))
		spread := basePrice * (0.003 + 0.002*math.Abs(math.Cos(float64(i)/7)))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p - spread/4,
			High:   p + spread/2,
			Low:    p - spread/2,
			Close:  p + spread/4,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// Collector orchestrates data fetching and range table computation.
type Collector struct {
	Fetcher     Fetcher
	Instruments []model.Instrument // Key, Symbol and Label; Bars is ignored
	Primary     string
	Windows     []int
	PipFactor   float64
	Start       time.Time
	Now         func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, instruments []model.Instrument, primary string, windows []int, pipFactor float64, start time.Time) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Instruments: instruments,
		Primary:     primary,
		Windows:     windows,
		PipFactor:   pipFactor,
		Start:       start,
		Now:         time.Now,
	}
}

// Collect downloads every instrument and derives the range table from the primary one.
// A failure on any instrument fails the whole collect.
func (c *Collector) Collect(ctx context.Context) (*model.Dataset, error) {
	end := c.Now()
	if !c.Start.Before(end) {
		return nil, fmt.Errorf("start date %s is not before %s", c.Start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	results := make([]*model.Instrument, len(c.Instruments))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range c.Instruments {
		g.Go(func() error {
			bars, err := c.Fetcher.FetchDailyBars(gctx, spec.Symbol, c.Start, end)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", spec.Symbol, err)
			}
			log.Printf("[INFO] fetched %d daily bars for %s from %s", len(bars), spec.Symbol, c.Fetcher.Name())
			results[i] = &model.Instrument{Key: spec.Key, Symbol: spec.Symbol, Label: spec.Label, Bars: bars}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &model.Dataset{Primary: c.Primary, Instruments: results, FetchedAt: end}
	primary, ok := ds.Instrument(c.Primary)
	if !ok {
		return nil, fmt.Errorf("primary instrument %q not configured", c.Primary)
	}
	table, err := calculator.BuildRangeTable(primary.Symbol, primary.Bars, c.Windows, c.PipFactor)
	if err != nil {
		return nil, fmt.Errorf("build range table: %w", err)
	}
	ds.Range = table
	return ds, nil
}

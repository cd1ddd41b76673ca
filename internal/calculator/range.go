package calculator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"FXDashboard/internal/model"
)

// DefaultPipFactor converts a JPY-quoted high-low spread into pips.
const DefaultPipFactor = 100.0

// DailyRange returns (High - Low) * factor for every bar.
func DailyRange(bars []model.OHLCV, factor float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High - b.Low) * factor
	}
	return out
}

// WindowLabel names the column for a window of n days.
func WindowLabel(n int) string {
	return fmt.Sprintf("%d-day", n)
}

// ParseWindowLabel is the inverse of WindowLabel.
func ParseWindowLabel(label string) (int, error) {
	s, ok := strings.CutSuffix(label, "-day")
	if !ok {
		return 0, fmt.Errorf("invalid window label %q", label)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid window label %q", label)
	}
	return n, nil
}

// BuildRangeTable derives the daily range column and one rolling average per window.
// A window of 1 is the raw daily range.
func BuildRangeTable(symbol string, bars []model.OHLCV, windows []int, factor float64) (*model.RangeTable, error) {
	if len(windows) == 0 {
		return nil, errors.New("no windows provided")
	}
	windows = slices.Compact(slices.Sorted(slices.Values(windows)))
	daily := DailyRange(bars, factor)

	table := &model.RangeTable{
		Symbol:  symbol,
		Windows: make([]string, 0, len(windows)),
		Rows:    make([]model.RangeRow, len(bars)),
	}
	for i, b := range bars {
		table.Rows[i] = model.RangeRow{Bar: b, Columns: make(map[string]float64, len(windows))}
	}

	for _, w := range windows {
		sma, err := RollingSMA(daily, w)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", w, err)
		}
		label := WindowLabel(w)
		table.Windows = append(table.Windows, label)
		for i := range table.Rows {
			table.Rows[i].Columns[label] = sma[i]
		}
	}
	return table, nil
}

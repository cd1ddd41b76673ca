package model

import (
	"math"
	"time"
)

// RangeRow is one dated row of the range table. Columns holds the derived
// "N-day" values; a missing value is NaN.
type RangeRow struct {
	Bar     OHLCV
	Columns map[string]float64
}

// RangeTable holds the daily high-low range and its rolling averages.
type RangeTable struct {
	Symbol  string
	Windows []string // column labels in ascending window order
	Rows    []RangeRow
}

// Column returns the dates and values of a derived column.
// ok is false when the column does not exist.
func (t *RangeTable) Column(label string) (dates []time.Time, values []float64, ok bool) {
	if !t.HasWindow(label) {
		return nil, nil, false
	}
	dates = make([]time.Time, len(t.Rows))
	values = make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		dates[i] = r.Bar.Time
		values[i] = r.Columns[label]
	}
	return dates, values, true
}

// HasWindow reports whether label names a derived column.
func (t *RangeTable) HasWindow(label string) bool {
	for _, w := range t.Windows {
		if w == label {
			return true
		}
	}
	return false
}

// Point is a JSON-friendly value; missing values encode as null.
type Point struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// Points converts a column into JSON points.
func (t *RangeTable) Points(label string) ([]Point, bool) {
	dates, values, ok := t.Column(label)
	if !ok {
		return nil, false
	}
	pts := make([]Point, len(dates))
	for i := range dates {
		pts[i].Time = dates[i]
		if !math.IsNaN(values[i]) {
			v := values[i]
			pts[i].Value = &v
		}
	}
	return pts, true
}

// Dataset is the full in-memory state behind the dashboard.
type Dataset struct {
	Primary     string // key of the instrument the range table is derived from
	Instruments []*Instrument
	Range       *RangeTable
	FetchedAt   time.Time
}

// Instrument looks up an instrument by key.
func (d *Dataset) Instrument(key string) (*Instrument, bool) {
	for _, inst := range d.Instruments {
		if inst.Key == key {
			return inst, true
		}
	}
	return nil, false
}

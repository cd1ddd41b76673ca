package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Instrument is one downloaded price history.
type Instrument struct {
	Key    string  `json:"key"`
	Symbol string  `json:"symbol"` // Yahoo ticker
	Label  string  `json:"label"`
	Bars   []OHLCV `json:"bars"`
}

// Closes returns the close column.
func (i *Instrument) Closes() []float64 {
	closes := make([]float64, len(i.Bars))
	for n, b := range i.Bars {
		closes[n] = b.Close
	}
	return closes
}

// Dates returns the bar dates.
func (i *Instrument) Dates() []time.Time {
	dates := make([]time.Time, len(i.Bars))
	for n, b := range i.Bars {
		dates[n] = b.Time
	}
	return dates
}

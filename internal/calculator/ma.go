package calculator

import (
	"errors"
	"math"
)

// CalculateSMA returns the mean of the last period values. A NaN among them
// makes the result NaN.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// RollingSMA slides a fixed window of the given period over values and returns
// one mean per input. The first period-1 outputs are NaN, and any window that
// contains a NaN input yields NaN.
func RollingSMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		sma, err := CalculateSMA(values[:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i] = sma
	}
	return out, nil
}

package calculator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 4.5) {
		t.Errorf("expected 4.5, got %v", got)
	}

	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestRollingSMA_LeadingNaN(t *testing.T) {
	got, err := RollingSMA([]float64{2, 4, 6, 8, 10}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{math.NaN(), math.NaN(), 4, 6, 8}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("index %d: expected NaN, got %v", i, got[i])
			}
			continue
		}
		if !almostEqual(got[i], want[i]) {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRollingSMA_PeriodOneIsIdentity(t *testing.T) {
	in := []float64{3.5, 1.25, 9}
	got, err := RollingSMA(in, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if !almostEqual(got[i], in[i]) {
			t.Errorf("index %d: expected %v, got %v", i, in[i], got[i])
		}
	}
}

func TestRollingSMA_WindowLargerThanHistory(t *testing.T) {
	got, err := RollingSMA([]float64{1, 2, 3}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %v", i, v)
		}
	}
}

func TestRollingSMA_NaNPropagates(t *testing.T) {
	got, err := RollingSMA([]float64{1, math.NaN(), 3, 5, 7}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// windows touching index 1 are missing, the rest recover
	if !math.IsNaN(got[1]) || !math.IsNaN(got[2]) {
		t.Errorf("expected NaN at 1 and 2, got %v", got)
	}
	if !almostEqual(got[3], 4) || !almostEqual(got[4], 6) {
		t.Errorf("expected recovery after NaN leaves window, got %v", got)
	}
}

func TestRollingSMA_InvalidPeriod(t *testing.T) {
	if _, err := RollingSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateSMA_NaNInWindow(t *testing.T) {
	got, err := CalculateSMA([]float64{math.NaN(), 2, 4}, 2)
	if err != nil || !almostEqual(got, 3) {
		t.Errorf("expected 3 when NaN is outside the window, got %v (%v)", got, err)
	}
	got, _ = CalculateSMA([]float64{1, math.NaN(), 4}, 2)
	if !math.IsNaN(got) {
		t.Errorf("expected NaN when window holds NaN, got %v", got)
	}
}

func TestRollingSMA_MatchesCalculateSMA(t *testing.T) {
	values := []float64{80, 95, 60, 120, 75, 90, 110}
	got, err := RollingSMA(values, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 2; i < len(values); i++ {
		want, err := CalculateSMA(values[:i+1], 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !almostEqual(got[i], want) {
			t.Errorf("index %d: expected %v, got %v", i, want, got[i])
		}
	}
}

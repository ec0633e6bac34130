package pricing

import (
	"testing"
	"time"
)

func TestIsPastBeforeHorizon(t *testing.T) {
	t.Parallel()
	horizon := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := Condition{Horizon: horizon}
	if !c.IsPast(horizon.AddDate(0, 0, -1)) {
		t.Fatalf("a date strictly before horizon must be past")
	}
	if c.IsPast(horizon.AddDate(0, 0, 1)) {
		t.Fatalf("a date strictly after horizon must not be past")
	}
}

func TestIsPastAtHorizonDependsOnEstimateFlag(t *testing.T) {
	t.Parallel()
	horizon := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	estimating := Condition{Horizon: horizon, EstimateHorizonIndex: true}
	if estimating.IsPast(horizon) {
		t.Fatalf("EstimateHorizonIndex=true must treat the horizon fixing as still projected")
	}

	settled := Condition{Horizon: horizon, EstimateHorizonIndex: false}
	if !settled.IsPast(horizon) {
		t.Fatalf("EstimateHorizonIndex=false must treat the horizon fixing as already observed")
	}
}

func TestDecimalRoundingTwoPlaces(t *testing.T) {
	t.Parallel()
	r := DecimalRounding{Decimals: 2}
	if got := r.Round(12.3456); got != 12.35 {
		t.Fatalf("Round(12.3456) = %v, want 12.35", got)
	}
}

func TestDecimalRoundingZeroPlacesForJPY(t *testing.T) {
	t.Parallel()
	r := DecimalRounding{Decimals: 0}
	if got := r.Round(999.6); got != 1000 {
		t.Fatalf("Round(999.6) = %v, want 1000", got)
	}
}

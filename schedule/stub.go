package schedule

import "time"

// applyStubConvention post-processes the raw generated period list
// according to gen.StubConvention. A stub can only occur at the
// boundary opposite the anchor: the trailing period for Forward
// generation, the leading period for Backward generation.
func applyStubConvention(gen Generator, periods []CalculationPeriod, startDate, maturityDate time.Time) []CalculationPeriod {
	if len(periods) == 0 {
		return periods
	}

	var stubIdx int
	switch gen.Direction {
	case Forward:
		stubIdx = len(periods) - 1
	case Backward:
		stubIdx = 0
	}
	if !periods[stubIdx].IsStub() {
		return periods
	}

	switch gen.StubConvention {
	case Extend, Retain:
		// Leave the truncated stub period exactly as generated.
		return periods

	case Remove:
		return removeAt(periods, stubIdx)

	case Combine:
		return combineStub(gen.Direction, periods, stubIdx)

	case SmartCombine:
		stub := periods[stubIdx]
		stubDays := stub.End.Sub(stub.Start).Hours() / 24
		if stubDays < 7 {
			return combineStub(gen.Direction, periods, stubIdx)
		}
		return periods

	default:
		return periods
	}
}

func removeAt(periods []CalculationPeriod, idx int) []CalculationPeriod {
	out := make([]CalculationPeriod, 0, len(periods)-1)
	out = append(out, periods[:idx]...)
	out = append(out, periods[idx+1:]...)
	return out
}

// combineStub merges the stub period at stubIdx into its single
// adjacent regular period, producing one longer period expressed as
// regular (no stub flag). With only one period total, there is no
// adjacent period to merge with, so this falls back to leaving the
// stub as Retain would.
func combineStub(dir Direction, periods []CalculationPeriod, stubIdx int) []CalculationPeriod {
	if len(periods) < 2 {
		return periods
	}

	switch dir {
	case Forward:
		adjIdx := stubIdx - 1
		merged := CalculationPeriod{
			Start:        periods[adjIdx].Start,
			End:          periods[stubIdx].End,
			RegularStart: periods[adjIdx].Start,
			RegularEnd:   periods[stubIdx].End,
		}
		out := make([]CalculationPeriod, 0, len(periods)-1)
		out = append(out, periods[:adjIdx]...)
		out = append(out, merged)
		return out

	case Backward:
		adjIdx := stubIdx + 1
		merged := CalculationPeriod{
			Start:        periods[stubIdx].Start,
			End:          periods[adjIdx].End,
			RegularStart: periods[stubIdx].Start,
			RegularEnd:   periods[adjIdx].End,
		}
		out := make([]CalculationPeriod, 0, len(periods)-1)
		out = append(out, merged)
		out = append(out, periods[adjIdx+1:]...)
		return out

	default:
		return periods
	}
}

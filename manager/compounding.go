package manager

import (
	"fmt"

	"github.com/meenmo/ratecore/compounding"
)

func parseCompoundingConvention(s string, perYearN int) (compounding.Convention, error) {
	switch s {
	case "", "Simple":
		return compounding.Simple{}, nil
	case "Continuous":
		return compounding.Continuous{}, nil
	case "PerYear":
		if perYearN <= 0 {
			return nil, fmt.Errorf("%w: per_year_n must be positive, got %d", ErrInvalidValue, perYearN)
		}
		return compounding.PerYear{N: perYearN}, nil
	default:
		return nil, fmt.Errorf("%w: result_compound %q", ErrInvalidValue, s)
	}
}

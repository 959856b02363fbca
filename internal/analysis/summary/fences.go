package summary

import (
	"errors"

	"multistats/domain/core"
	"multistats/domain/sample"

	"github.com/montanaflynn/stats"
)

// Fences are the box-plot bounds derived from the quartiles
type Fences struct {
	Q1    float64
	Q3    float64
	IQR   float64
	Lower float64
	Upper float64
}

func boxFences(sorted []float64, whisker float64) Fences {
	q1 := Percentile(sorted, 25)
	q3 := Percentile(sorted, 75)
	iqr := q3 - q1
	return Fences{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - whisker*iqr,
		Upper: q3 + whisker*iqr,
	}
}

// Outliers returns every value strictly outside the fences: all values
// below the lower fence first, then all values above the upper fence, each
// group in the order of data.
func (f Fences) Outliers(data []float64) sample.OutlierSet {
	out := sample.OutlierSet{}
	for _, v := range data {
		if v < f.Lower {
			out = append(out, v)
		}
	}
	for _, v := range data {
		if v > f.Upper {
			out = append(out, v)
		}
	}
	return out
}

// ComputationError wraps a failure from the underlying statistics routines
type ComputationError struct {
	Statistic string
	Cause     error
}

func (e ComputationError) Error() string {
	if e.Cause != nil {
		return "computing " + e.Statistic + ": " + e.Cause.Error()
	}
	return "computing " + e.Statistic
}

func (e ComputationError) Unwrap() error { return e.Cause }

func computationError(statistic string, cause error) error {
	if errors.Is(cause, stats.ErrEmptyInput) {
		return core.NewInsufficientDataError(statistic, 1, 0)
	}
	return ComputationError{Statistic: statistic, Cause: cause}
}

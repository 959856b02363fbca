package correlation

import (
	"fmt"
	"math"

	"multistats/domain/core"
	"multistats/domain/sample"

	"gonum.org/v1/gonum/stat"
)

// MinColumns is the smallest table a correlation matrix is built for
const MinColumns = 2

// Engine computes pairwise Pearson correlation matrices
type Engine struct{}

// NewEngine creates a new correlation engine
func NewEngine() *Engine {
	return &Engine{}
}

// Matrix computes the Pearson coefficient for every unordered pair of
// columns over the rows where both values are present.
func (e *Engine) Matrix(t *sample.Table) (*sample.CorrelationMatrix, error) {
	if t == nil || t.ColumnCount() < MinColumns {
		got := 0
		if t != nil {
			got = t.ColumnCount()
		}
		return nil, core.NewInvalidInputError("table", -1, "",
			fmt.Sprintf("correlation needs at least %d numeric columns, got %d", MinColumns, got))
	}
	for _, c := range t.Columns {
		for row, v := range c.Values {
			if math.IsInf(v, 0) {
				return nil, core.NewInvalidInputError(c.Name, row, "", "value is not finite")
			}
		}
	}

	m := sample.NewCorrelationMatrix(t.Names())
	for i := 0; i < t.ColumnCount(); i++ {
		for j := i + 1; j < t.ColumnCount(); j++ {
			m.SetPair(i, j, Pearson(t.Columns[i].Values, t.Columns[j].Values))
		}
	}
	return m, nil
}

// Pearson returns the coefficient over pairwise-complete observations. It is
// NaN when fewer than two complete pairs remain or either side is constant.
func Pearson(x, y []float64) float64 {
	xs, ys := CompletePairs(x, y)
	if len(xs) < 2 {
		return math.NaN()
	}
	if isConstant(xs) || isConstant(ys) {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	return math.Max(-1, math.Min(1, r))
}

// CompletePairs drops every row where either value is missing (NaN)
func CompletePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

package summary

import (
	"math"
	"sort"

	"multistats/domain/core"
	"multistats/domain/sample"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// DefaultWhisker is the fence multiplier applied to the interquartile range
const DefaultWhisker = 1.5

// Minimum observations per statistic
const (
	minForStd      = 2
	minForSkewness = 3
)

// Computer builds the descriptive statistics block and the outlier set for a sample
type Computer struct {
	whisker float64
}

// NewComputer creates a computer using the standard 1.5×IQR fences
func NewComputer() *Computer {
	return &Computer{whisker: DefaultWhisker}
}

// NewComputerWithWhisker creates a computer with a custom fence multiplier
func NewComputerWithWhisker(whisker float64) *Computer {
	if whisker <= 0 || math.IsNaN(whisker) {
		whisker = DefaultWhisker
	}
	return &Computer{whisker: whisker}
}

// Compute returns the outliers and the rounded statistics for data.
// The variable name is only used to give errors context.
func (c *Computer) Compute(data sample.Sample, variable string) (sample.OutlierSet, *sample.Statistics, error) {
	if err := data.Validate(variable); err != nil {
		return nil, nil, err
	}
	n := len(data)
	if n < minForStd {
		return nil, nil, core.NewInsufficientDataError(sample.StatStd, minForStd, n)
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	fences := boxFences(sorted, c.whisker)
	outliers := fences.Outliers(data)

	desc, err := describe(data, sorted)
	if err != nil {
		return nil, nil, err
	}

	median, err := stats.Median(stats.Float64Data(data))
	if err != nil {
		return nil, nil, computationError(sample.StatMedian, err)
	}

	skewness, kurtosis, err := shape(data, desc.std)
	if err != nil {
		return nil, nil, err
	}

	out := sample.NewStatistics()
	out.Set(sample.StatCount, float64(n))
	out.Set(sample.StatMean, round2(desc.mean))
	out.Set(sample.StatStd, round2(desc.std))
	out.Set(sample.StatMin, round2(desc.min))
	out.Set(sample.StatP25, round2(desc.q25))
	out.Set(sample.StatP50, round2(desc.q50))
	out.Set(sample.StatP75, round2(desc.q75))
	out.Set(sample.StatMax, round2(desc.max))
	out.Set(sample.StatMedian, round2(median))
	out.Set(sample.StatMode, round2(mode(sorted)))
	out.Set(sample.StatKurtosis, round2(kurtosis))
	out.Set(sample.StatSkewness, round2(skewness))
	out.Set(sample.StatOutliers, float64(len(outliers)))

	return outliers, out, nil
}

// Fences returns the box-plot fences for data without computing the rest
func (c *Computer) Fences(data sample.Sample) (Fences, error) {
	if err := data.Validate("sample"); err != nil {
		return Fences{}, err
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return boxFences(sorted, c.whisker), nil
}

type description struct {
	mean, std, min, max float64
	q25, q50, q75       float64
}

func describe(data, sorted []float64) (description, error) {
	var d description
	var err error
	fd := stats.Float64Data(data)

	if d.mean, err = stats.Mean(fd); err != nil {
		return d, computationError(sample.StatMean, err)
	}
	if d.std, err = stats.StandardDeviationSample(fd); err != nil {
		return d, computationError(sample.StatStd, err)
	}
	if d.min, err = stats.Min(fd); err != nil {
		return d, computationError(sample.StatMin, err)
	}
	if d.max, err = stats.Max(fd); err != nil {
		return d, computationError(sample.StatMax, err)
	}
	d.q25 = Percentile(sorted, 25)
	d.q50 = Percentile(sorted, 50)
	d.q75 = Percentile(sorted, 75)
	return d, nil
}

// shape returns adjusted Fisher-Pearson skewness and the Fisher excess
// kurtosis m4/m2² - 3 from biased central moments. A constant sample has no
// spread to standardize by and reports 0 for both.
func shape(data []float64, std float64) (skewness, kurtosis float64, err error) {
	if std == 0 {
		return 0, 0, nil
	}
	n := len(data)
	if n < minForSkewness {
		return 0, 0, core.NewInsufficientDataError(sample.StatSkewness, minForSkewness, n)
	}
	m2 := stat.Moment(2, data, nil)
	m4 := stat.Moment(4, data, nil)
	return stat.Skew(data, nil), m4/(m2*m2) - 3, nil
}

// mode returns the most frequent value of an ascending slice. Ties go to the
// smallest value.
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if count := j - i; count > bestCount {
			best, bestCount = sorted[i], count
		}
		i = j
	}
	return best
}

// Percentile computes the p-th percentile of an ascending slice by linear
// interpolation between closest ranks.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

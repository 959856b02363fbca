package render

import (
	"math"
	"sort"

	"multistats/internal/analysis/summary"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/plotter"
)

const (
	maxAutoBins   = 50
	densityPoints = 200
	// densityCut extends the curve this many bandwidths past the data
	densityCut = 3.0
)

// freedmanDiaconisBins picks a bin count from the interquartile range,
// falling back to sqrt(n) when the IQR is zero.
func freedmanDiaconisBins(data []float64) int {
	n := len(data)
	if n < 2 {
		return 1
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	iqr := summary.Percentile(sorted, 75) - summary.Percentile(sorted, 25)
	h := 2 * iqr / math.Cbrt(float64(n))
	var bins int
	if h == 0 {
		bins = int(math.Sqrt(float64(n)))
	} else {
		bins = int(math.Ceil((sorted[n-1] - sorted[0]) / h))
	}
	if bins < 1 {
		bins = 1
	}
	if bins > maxAutoBins {
		bins = maxAutoBins
	}
	return bins
}

// histogramBins splits [min, max] into n equal bins. With density set the
// weights integrate to one, otherwise they are counts. A constant sample
// gets a single unit-wide bin centred on its value.
func histogramBins(data []float64, n int, density bool) ([]plotter.HistogramBin, float64) {
	lo, hi := floats.Min(data), floats.Max(data)
	if hi == lo {
		lo, hi, n = lo-0.5, hi+0.5, 1
	}
	if n < 1 {
		n = 1
	}
	width := (hi - lo) / float64(n)
	bins := make([]plotter.HistogramBin, n)
	for i := range bins {
		bins[i].Min = lo + float64(i)*width
		bins[i].Max = lo + float64(i+1)*width
	}
	for _, v := range data {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Weight++
	}
	if density {
		scale := 1 / (float64(len(data)) * width)
		for i := range bins {
			bins[i].Weight *= scale
		}
	}
	return bins, width
}

// scottBandwidth is σ·n^(-1/5) with the sample standard deviation
func scottBandwidth(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil) * math.Pow(float64(len(data)), -0.2)
}

// kernelDensity evaluates a Gaussian kernel density estimate over a grid
// that extends densityCut bandwidths beyond the data. It returns nil when
// the sample has no spread.
func kernelDensity(data []float64) plotter.XYs {
	bw := scottBandwidth(data)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}
	lo := floats.Min(data) - densityCut*bw
	hi := floats.Max(data) + densityCut*bw
	kernels := make([]distuv.Normal, len(data))
	for i, v := range data {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	pts := make(plotter.XYs, densityPoints)
	step := (hi - lo) / float64(densityPoints-1)
	for i := range pts {
		x := lo + float64(i)*step
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		pts[i].X = x
		pts[i].Y = sum / float64(len(data))
	}
	return pts
}

// paddedRange widens [min, max] by frac of its span, split across both ends
func paddedRange(data []float64, frac float64) (float64, float64) {
	lo, hi := floats.Min(data), floats.Max(data)
	span := hi - lo
	if span == 0 {
		return lo - 0.5, hi + 0.5
	}
	ext := span * frac / 2
	return lo - ext, hi + ext
}

package render

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal/analysis/correlation"
	"multistats/internal/analysis/summary"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

var skewed = []float64{1, 5, 3, 74, 52, 8, 2, 8, 2, 85, 2, 5, 5, 2, 2, 16, 185, 62, 2}

func summaryInput(t *testing.T, data []float64) SummaryInput {
	t.Helper()
	c := summary.NewComputer()
	_, stats, err := c.Compute(data, "test1")
	require.NoError(t, err)
	fences, err := c.Fences(data)
	require.NoError(t, err)
	return SummaryInput{Data: data, Variable: "test1", Title: "Chart No 1", Statistics: stats, Fences: fences}
}

func TestClampFigureSize(t *testing.T) {
	tests := []struct {
		w, h         float64
		wantW, wantH float64
	}{
		{17, 7, 17, 7},
		{10, 5, 10, 6},
		{10, 2, 10, 6},
		{10, 5.5, 10, 5.5},
	}
	for _, tt := range tests {
		w, h := ClampFigureSize(tt.w, tt.h)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}

	cfg := DefaultSummaryConfig()
	cfg.Width, cfg.Height = 10, 5
	w, h := cfg.FigureSize()
	assert.Equal(t, 10*vg.Inch, w)
	assert.Equal(t, 6*vg.Inch, h)
}

func TestFormatStatistics(t *testing.T) {
	s := sample.NewStatistics()
	s.Set("count", 19)
	s.Set("mean", 1234.5)
	s.Set("skewness", -0.25)

	assert.Equal(t, []string{"count: 19.00", "mean: 1,234.50", "skewness: -0.25"}, FormatStatistics(s))
}

func TestNewSummaryChart(t *testing.T) {
	in := summaryInput(t, skewed)
	chart, err := NewSummaryChart(in, DefaultSummaryConfig())
	require.NoError(t, err)

	panels := chart.Panels()
	require.Len(t, panels, 2)
	top, bottom := panels[0][0], panels[1][0]
	assert.Equal(t, "Chart No 1", top.Title.Text)
	assert.Equal(t, vg.Points(30), top.Title.TextStyle.Font.Size)
	assert.Equal(t, "test1", bottom.X.Label.Text)
	assert.Equal(t, top.X.Min, bottom.X.Min, "panels share the x range")
	assert.Equal(t, top.X.Max, bottom.X.Max)
	assert.LessOrEqual(t, bottom.X.Min, 1.0)
	assert.GreaterOrEqual(t, bottom.X.Max, 185.0)

	assert.Equal(t, KindSummary, chart.Kind)
	assert.Equal(t, 17*vg.Inch, chart.Width)
	assert.Equal(t, 7*vg.Inch, chart.Height)

	var png bytes.Buffer
	require.NoError(t, chart.Encode(&png, FormatPNG))
	assert.True(t, bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")))

	var svg bytes.Buffer
	require.NoError(t, chart.Encode(&svg, "SVG"))
	assert.Contains(t, svg.String(), "<svg")
}

func TestNewSummaryChart_ConstantSample(t *testing.T) {
	in := summaryInput(t, []float64{4, 4, 4, 4})
	chart, err := NewSummaryChart(in, DefaultSummaryConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, chart.Encode(&buf, FormatPNG))
	assert.NotZero(t, buf.Len())
}

func TestNewSummaryChart_DistinctInstances(t *testing.T) {
	in := summaryInput(t, skewed)
	a, err := NewSummaryChart(in, DefaultSummaryConfig())
	require.NoError(t, err)
	b, err := NewSummaryChart(in, DefaultSummaryConfig())
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewSummaryChart_RejectsEmptyInput(t *testing.T) {
	_, err := NewSummaryChart(SummaryInput{}, DefaultSummaryConfig())
	assert.True(t, core.IsInvalidInput(err))
}

func TestChartSave(t *testing.T) {
	chart, err := NewSummaryChart(summaryInput(t, skewed), DefaultSummaryConfig())
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "summary.png")
	require.NoError(t, chart.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	err = chart.Save(filepath.Join(dir, "summary.bmp"))
	assert.True(t, core.IsInvalidInput(err))
	err = chart.Save(filepath.Join(dir, "summary"))
	assert.True(t, core.IsInvalidInput(err))
}

func TestIsSupportedFormat(t *testing.T) {
	for _, f := range []string{"png", ".PNG", "jpeg", "jpg", "svg", "pdf"} {
		assert.True(t, IsSupportedFormat(f), f)
	}
	assert.False(t, IsSupportedFormat("gif"))
}

func TestNewScatterMatrix(t *testing.T) {
	tbl, err := sample.NewTable(
		sample.Column{Name: "a", Values: []float64{1, 2, 3, 4, 5}},
		sample.Column{Name: "b", Values: []float64{2, 4, 5, 4, 5}},
		sample.Column{Name: "c", Values: []float64{5, 3, math.NaN(), 1, 0}},
	)
	require.NoError(t, err)
	corr, err := correlation.NewEngine().Matrix(tbl)
	require.NoError(t, err)

	chart, err := NewScatterMatrix(tbl, corr, DefaultScatterConfig())
	require.NoError(t, err)

	panels := chart.Panels()
	require.Len(t, panels, 3)
	for _, row := range panels {
		require.Len(t, row, 3)
	}
	assert.Equal(t, "a", panels[2][0].X.Label.Text)
	assert.Equal(t, "c", panels[2][2].X.Label.Text)
	assert.Equal(t, "c", panels[2][0].Y.Label.Text)
	assert.Equal(t, 10*vg.Inch, chart.Height)

	// 5% padding split across both ends of column a's [1, 5] range
	assert.InDelta(t, 0.9, panels[0][0].X.Min, 1e-12)
	assert.InDelta(t, 5.1, panels[0][0].X.Max, 1e-12)

	var buf bytes.Buffer
	require.NoError(t, chart.Encode(&buf, FormatPDF))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestNewScatterMatrix_Errors(t *testing.T) {
	one, err := sample.NewTable(sample.Column{Name: "a", Values: []float64{1, 2}})
	require.NoError(t, err)
	_, err = NewScatterMatrix(one, sample.NewCorrelationMatrix([]string{"a"}), DefaultScatterConfig())
	assert.True(t, core.IsInvalidInput(err))

	two, err := sample.NewTable(
		sample.Column{Name: "a", Values: []float64{1, 2}},
		sample.Column{Name: "b", Values: []float64{math.NaN(), math.NaN()}},
	)
	require.NoError(t, err)
	_, err = NewScatterMatrix(two, sample.NewCorrelationMatrix(two.Names()), DefaultScatterConfig())
	assert.True(t, core.IsInvalidInput(err), "an all-missing column cannot be drawn")
}

func TestFormatCoefficient(t *testing.T) {
	assert.Equal(t, "0.775", FormatCoefficient(0.7745966692))
	assert.Equal(t, "-1.000", FormatCoefficient(-1))
	assert.Equal(t, "nan", FormatCoefficient(math.NaN()))
}

func TestHistogramBins(t *testing.T) {
	bins, width := histogramBins(skewed, 10, true)
	require.Len(t, bins, 10)
	assert.InDelta(t, 18.4, width, 1e-12)

	var area float64
	for _, b := range bins {
		area += b.Weight * width
	}
	assert.InDelta(t, 1.0, area, 1e-9)

	counts, _ := histogramBins([]float64{1, 1, 2, 3}, 2, false)
	assert.Equal(t, 2.0, counts[0].Weight)
	assert.Equal(t, 2.0, counts[1].Weight, "the maximum falls in the last bin")

	single, w := histogramBins([]float64{3, 3}, 5, false)
	require.Len(t, single, 1)
	assert.Equal(t, 1.0, w)
	assert.Equal(t, 2.0, single[0].Weight)
}

func TestFreedmanDiaconisBins(t *testing.T) {
	// IQR 32, n 19: h = 64 / 19^(1/3), range 184
	assert.Equal(t, 8, freedmanDiaconisBins(skewed))
	assert.Equal(t, 2, freedmanDiaconisBins([]float64{5, 5, 5, 5, 9}), "zero IQR falls back to sqrt(n)")
	assert.Equal(t, 1, freedmanDiaconisBins([]float64{5}))
}

func TestKernelDensity(t *testing.T) {
	assert.Nil(t, kernelDensity([]float64{2, 2, 2}))

	pts := kernelDensity(skewed)
	require.Len(t, pts, densityPoints)

	var area float64
	for i := 1; i < len(pts); i++ {
		area += (pts[i].X - pts[i-1].X) * (pts[i].Y + pts[i-1].Y) / 2
	}
	assert.InDelta(t, 1.0, area, 0.01)
}

package app

import (
	"bytes"
	"math"
	"testing"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal"
	"multistats/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

var (
	x1 = []float64{1, 5, 3, 74, 52, 8, 2, 8, 2, 85, 2, 5, 5, 2, 2, 16, 185, 62, 2}
	x2 = []float64{1, 2, 3, 4, 5, 6, 1, 2, 3, 4, 5, 6}
)

func TestSummarize_Examples(t *testing.T) {
	svc := NewSummarizerService(internal.NopLogger())

	r1, err := svc.Summarize(x1, "test1", WithTitle("Chart No 1"), WithTitleFontSize(20), WithFigureSize(10, 5))
	require.NoError(t, err)
	assert.Equal(t, sample.OutlierSet{85, 185}, r1.Outliers)
	assert.Equal(t, 2.0, r1.Statistics.MustGet(sample.StatOutliers))
	assert.Equal(t, 10*vg.Inch, r1.Chart.Width)
	assert.Equal(t, 6*vg.Inch, r1.Chart.Height, "height 5 is raised to 6")
	assert.Equal(t, "Chart No 1", r1.Chart.Panels()[0][0].Title.Text)
	assert.Equal(t, vg.Points(20), r1.Chart.Panels()[0][0].Title.TextStyle.Font.Size)

	r2, err := svc.Summarize(x2, "test2", WithTitle("Second Chart"))
	require.NoError(t, err)
	assert.Empty(t, r2.Outliers)
	assert.Equal(t, 3.5, r2.Statistics.MustGet(sample.StatMean))
	assert.Equal(t, 3.5, r2.Statistics.MustGet(sample.StatMedian))
	assert.Equal(t, 1.0, r2.Statistics.MustGet(sample.StatMode))
	assert.Equal(t, 17*vg.Inch, r2.Chart.Width)
	assert.Equal(t, 7*vg.Inch, r2.Chart.Height)
	assert.Equal(t, vg.Points(30), r2.Chart.Panels()[0][0].Title.TextStyle.Font.Size)
}

func TestSummarize_Idempotent(t *testing.T) {
	svc := NewSummarizerService(nil)

	a, err := svc.Summarize(x1, "x")
	require.NoError(t, err)
	b, err := svc.Summarize(x1, "x")
	require.NoError(t, err)

	assert.Equal(t, a.Outliers, b.Outliers)
	assert.Equal(t, a.Statistics.Entries(), b.Statistics.Entries())
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotSame(t, a.Chart, b.Chart)
	assert.NotEqual(t, a.Chart.ID, b.Chart.ID)
}

func TestSummarize_IdenticalValues(t *testing.T) {
	r, err := NewSummarizerService(nil).Summarize([]float64{9, 9, 9, 9, 9}, "flat")
	require.NoError(t, err)

	for _, name := range []string{sample.StatMean, sample.StatMedian, sample.StatMode} {
		assert.Equal(t, 9.0, r.Statistics.MustGet(name), name)
	}
	assert.Equal(t, 0.0, r.Statistics.MustGet(sample.StatStd))
	assert.Empty(t, r.Outliers)

	var buf bytes.Buffer
	require.NoError(t, r.Chart.Encode(&buf, "png"))
}

func TestSummarize_Errors(t *testing.T) {
	svc := NewSummarizerService(nil)

	_, err := svc.Summarize([]float64{42}, "single")
	require.Error(t, err)
	assert.True(t, core.IsInsufficientData(err))
	assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
	assert.Contains(t, err.Error(), "single")
	assert.Contains(t, err.Error(), "std")

	_, err = svc.Summarize([]float64{1, math.NaN()}, "broken")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestSummarize_ConcurrentCallsAreIndependent(t *testing.T) {
	svc := NewSummarizerService(nil)
	results := make(chan *SummaryResult, 8)
	for i := 0; i < cap(results); i++ {
		go func(i int) {
			title := "odd"
			if i%2 == 0 {
				title = "even"
			}
			r, err := svc.Summarize(x1, "x", WithTitle(title), WithTitleFontSize(float64(10+i)))
			if err != nil {
				results <- nil
				return
			}
			results <- r
		}(i)
	}

	for i := 0; i < cap(results); i++ {
		r := <-results
		require.NotNil(t, r)
		top := r.Chart.Panels()[0][0]
		size := float64(top.Title.TextStyle.Font.Size) - 10
		if int(size)%2 == 0 {
			assert.Equal(t, "even", top.Title.Text)
		} else {
			assert.Equal(t, "odd", top.Title.Text)
		}
	}
}

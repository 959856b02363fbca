package render

import (
	"fmt"
	"math"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal/analysis/correlation"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// KindScatterMatrix identifies the pairwise scatter-matrix chart
const KindScatterMatrix = "scatter_matrix"

const (
	// rangePadding is the share of each axis span added around the data
	rangePadding   = 0.05
	diagonalBins   = 10
	scatterRadius  = 2.5
	annotationFrac = 0.8
)

// NewScatterMatrix draws an N×N grid: histograms on the diagonal, scatter
// plots elsewhere, and the correlation coefficient written over every panel
// above the diagonal.
func NewScatterMatrix(t *sample.Table, corr *sample.CorrelationMatrix, cfg Config) (*Chart, error) {
	if t == nil || t.ColumnCount() < correlation.MinColumns {
		return nil, core.NewInvalidInputError("table", -1, "", "scatter matrix needs at least 2 columns")
	}
	if corr == nil || corr.Size() != t.ColumnCount() {
		return nil, core.NewInvalidInputError("correlation matrix", -1, "", "size does not match the table")
	}

	n := t.ColumnCount()
	ranges := make([][2]float64, n)
	for i, c := range t.Columns {
		present := c.Present()
		if len(present) == 0 {
			return nil, core.NewInvalidInputError(c.Name, -1, "", "column has no values")
		}
		lo, hi := paddedRange(present, rangePadding)
		ranges[i] = [2]float64{lo, hi}
	}

	panels := make([][]*plot.Plot, n)
	for i := 0; i < n; i++ {
		panels[i] = make([]*plot.Plot, n)
		for j := 0; j < n; j++ {
			p, err := matrixPanel(t, corr, i, j, cfg)
			if err != nil {
				return nil, err
			}
			p.X.Min, p.X.Max = ranges[j][0], ranges[j][1]
			if i != j {
				p.Y.Min, p.Y.Max = ranges[i][0], ranges[i][1]
			}
			if i == n-1 {
				p.X.Label.Text = t.Columns[j].Name
				p.X.Label.TextStyle.Font.Size = vg.Points(cfg.LabelFontSize)
			} else {
				p.X.Tick.Marker = unlabeledTicks{}
			}
			if j == 0 {
				p.Y.Label.Text = t.Columns[i].Name
				p.Y.Label.TextStyle.Font.Size = vg.Points(cfg.LabelFontSize)
			} else {
				p.Y.Tick.Marker = unlabeledTicks{}
			}
			panels[i][j] = p
		}
	}

	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}
	layout := func(dc draw.Canvas) [][]draw.Canvas {
		return plot.Align(panels, tiles, dc)
	}
	return newChart(KindScatterMatrix, cfg, panels, layout), nil
}

func matrixPanel(t *sample.Table, corr *sample.CorrelationMatrix, i, j int, cfg Config) (*plot.Plot, error) {
	p := plot.New()
	if cfg.Grid {
		p.Add(plotter.NewGrid())
	}

	if i == j {
		present := t.Columns[i].Present()
		bins, width := histogramBins(present, diagonalBins, false)
		p.Add(&plotter.Histogram{
			Bins:      bins,
			Width:     width,
			FillColor: cfg.HistColor,
			LineStyle: plotter.DefaultLineStyle,
		})
		return p, nil
	}

	xs, ys := correlation.CompletePairs(t.Columns[j].Values, t.Columns[i].Values)
	pts := make(plotter.XYs, len(xs))
	for k := range xs {
		pts[k].X, pts[k].Y = xs[k], ys[k]
	}
	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, core.NewRenderError(KindScatterMatrix, err)
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(scatterRadius)
		s.GlyphStyle.Color = cfg.PointColor
		p.Add(s)
	}

	if j > i {
		p.Add(newAnnotation(FormatCoefficient(corr.AtIndex(i, j)),
			annotationFrac, annotationFrac, cfg.AnnotationFontSize, text.XCenter, text.YCenter))
	}
	return p, nil
}

// FormatCoefficient prints a correlation with three decimals
func FormatCoefficient(r float64) string {
	if math.IsNaN(r) {
		return "nan"
	}
	return fmt.Sprintf("%.3f", r)
}

package render

import (
	"strings"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal/analysis/summary"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// KindSummary identifies the two-panel box plot / distribution chart
const KindSummary = "summary"

// Panel height ratio of the box plot to the distribution plot
var summaryRatios = []float64{0.2, 1}

// Legend labels for the reference lines
const (
	LegendMean   = "Mean"
	LegendMedian = "Median"
)

// SummaryInput is everything the summary chart displays
type SummaryInput struct {
	Data       []float64
	Variable   string
	Title      string
	Statistics *sample.Statistics
	Fences     summary.Fences
}

// NewSummaryChart builds a box plot above a density histogram, both marking
// the mean (dashed) and median (solid), with every statistic listed in a
// text box on the lower panel.
func NewSummaryChart(in SummaryInput, cfg Config) (*Chart, error) {
	if len(in.Data) == 0 || in.Statistics == nil {
		return nil, core.NewInvalidInputError("summary chart", -1, "", "no data to plot")
	}
	mean := in.Statistics.MustGet(sample.StatMean)
	median := in.Statistics.MustGet(sample.StatMedian)

	top := plot.New()
	top.Title.Text = in.Title
	top.Title.TextStyle.Font.Size = vg.Points(cfg.TitleFontSize)
	top.HideY()
	top.X.Tick.Marker = unlabeledTicks{}

	_, h := cfg.FigureSize()
	boxWidth := h * vg.Length(summaryRatios[0]/(summaryRatios[0]+summaryRatios[1])) * 0.45
	box, err := plotter.NewBoxPlot(boxWidth, 0, plotter.Values(in.Data))
	if err != nil {
		return nil, core.NewRenderError(KindSummary, err)
	}
	box.Horizontal = true
	box.FillColor = cfg.HistColor
	box.BoxStyle.Color = cfg.BoxColor
	box.WhiskerStyle.Color = cfg.BoxColor
	applyFences(box, in.Data, in.Fences, median)

	if cfg.Grid {
		top.Add(plotter.NewGrid())
	}
	top.Add(box, newRefLine(mean, cfg.MeanColor, true), newRefLine(median, cfg.MedianColor, false))

	bottom := plot.New()
	bottom.X.Label.Text = in.Variable
	bottom.X.Label.TextStyle.Font.Size = vg.Points(cfg.LabelFontSize)
	bottom.Y.Label.Text = "Density"
	if cfg.Grid {
		bottom.Add(plotter.NewGrid())
	}

	bins, width := histogramBins(in.Data, freedmanDiaconisBins(in.Data), true)
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: cfg.HistColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	bottom.Add(hist)

	if curve := kernelDensity(in.Data); curve != nil {
		kde, err := plotter.NewLine(curve)
		if err != nil {
			return nil, core.NewRenderError(KindSummary, err)
		}
		kde.LineStyle.Color = cfg.DensityColor
		kde.LineStyle.Width = vg.Points(2)
		bottom.Add(kde)
	}

	meanLine := newRefLine(mean, cfg.MeanColor, true)
	medianLine := newRefLine(median, cfg.MedianColor, false)
	bottom.Add(meanLine, medianLine)
	bottom.Legend.Add(LegendMean, meanLine)
	bottom.Legend.Add(LegendMedian, medianLine)
	bottom.Legend.Top = true
	bottom.Legend.TextStyle.Font.Size = vg.Points(cfg.LabelFontSize)

	statsBox := newAnnotation(strings.Join(FormatStatistics(in.Statistics), "\n"),
		0.05, 0.95, cfg.AnnotationFontSize, text.XLeft, text.YTop)
	statsBox.Background = cfg.TextBoxColor
	bottom.Add(statsBox)

	shareX(top, bottom)

	panels := [][]*plot.Plot{{top}, {bottom}}
	return newChart(KindSummary, cfg, panels, stackedLayout([]*plot.Plot{top, bottom}, summaryRatios)), nil
}

// FormatStatistics renders each statistic as "name: value" with thousands
// separators and two decimals, in insertion order.
func FormatStatistics(s *sample.Statistics) []string {
	p := message.NewPrinter(language.English)
	lines := make([]string, 0, s.Len())
	for _, e := range s.Entries() {
		lines = append(lines, p.Sprintf("%s: %.2f", e.Name, e.Value))
	}
	return lines
}

// applyFences makes the drawn box agree with the computed statistics rather
// than the box plotter's own quantile estimate.
func applyFences(b *plotter.BoxPlot, data []float64, f summary.Fences, median float64) {
	b.Median = median
	b.Quartile1 = f.Q1
	b.Quartile3 = f.Q3
	b.AdjLow, b.AdjHigh = f.Q1, f.Q3
	b.Outside = b.Outside[:0]
	for i, v := range data {
		if v < f.Lower || v > f.Upper {
			b.Outside = append(b.Outside, i)
			continue
		}
		if v < b.AdjLow {
			b.AdjLow = v
		}
		if v > b.AdjHigh {
			b.AdjHigh = v
		}
	}
}

func shareX(plots ...*plot.Plot) {
	lo, hi := plots[0].X.Min, plots[0].X.Max
	for _, p := range plots[1:] {
		if p.X.Min < lo {
			lo = p.X.Min
		}
		if p.X.Max > hi {
			hi = p.X.Max
		}
	}
	for _, p := range plots {
		p.X.Min, p.X.Max = lo, hi
	}
}

// stackedLayout splits the canvas into rows by height ratio and lines up
// the data areas so the rows share one x scale.
func stackedLayout(plots []*plot.Plot, ratios []float64) func(draw.Canvas) [][]draw.Canvas {
	return func(dc draw.Canvas) [][]draw.Canvas {
		var total float64
		for _, r := range ratios {
			total += r
		}
		out := make([][]draw.Canvas, len(plots))
		height := dc.Max.Y - dc.Min.Y
		y := dc.Max.Y
		for i := range plots {
			h := height * vg.Length(ratios[i]/total)
			c := dc
			c.Rectangle = vg.Rectangle{
				Min: vg.Point{X: dc.Min.X, Y: y - h},
				Max: vg.Point{X: dc.Max.X, Y: y},
			}
			out[i] = []draw.Canvas{c}
			y -= h
		}

		var left, right vg.Length
		for i, p := range plots {
			c := out[i][0]
			da := p.DataCanvas(c)
			left = maxLength(left, da.Min.X-c.Min.X)
			right = maxLength(right, c.Max.X-da.Max.X)
		}
		for i, p := range plots {
			c := &out[i][0]
			da := p.DataCanvas(*c)
			c.Min.X += left - (da.Min.X - c.Min.X)
			c.Max.X -= right - (c.Max.X - da.Max.X)
		}
		return out
	}
}

func maxLength(a, b vg.Length) vg.Length {
	if a > b {
		return a
	}
	return b
}

// unlabeledTicks keeps the default tick positions (and so the grid) but
// drops the labels, for a panel sharing its x axis with the one below.
type unlabeledTicks struct{}

func (unlabeledTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}

package render

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// MinFigureHeight replaces any requested figure height of 5 inches or less
const MinFigureHeight = 6.0

// Config is the rendering configuration for one chart. It is passed to every
// constructor instead of living in package state, so charts built
// concurrently never influence each other.
type Config struct {
	// Width and Height are the figure size in inches
	Width  float64
	Height float64
	DPI    int

	TitleFontSize      float64
	AnnotationFontSize float64
	LabelFontSize      float64

	Grid bool

	MeanColor    color.Color
	MedianColor  color.Color
	BoxColor     color.Color
	HistColor    color.Color
	DensityColor color.Color
	PointColor   color.Color
	TextBoxColor color.Color
}

// DefaultSummaryConfig matches the two-panel summary chart defaults: a 17×7
// inch figure with a 30pt title.
func DefaultSummaryConfig() Config {
	return Config{
		Width:              17,
		Height:             7,
		DPI:                96,
		TitleFontSize:      30,
		AnnotationFontSize: 14,
		LabelFontSize:      14,
		Grid:               true,
		MeanColor:          color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		MedianColor:        color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		BoxColor:           color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
		HistColor:          color.NRGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0x66},
		DensityColor:       color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
		PointColor:         color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
		TextBoxColor:       color.NRGBA{R: 0xea, G: 0xff, B: 0xf5, A: 0x80},
	}
}

// DefaultScatterConfig matches the scatter-matrix defaults: a 17×10 inch
// figure with 20pt correlation annotations.
func DefaultScatterConfig() Config {
	c := DefaultSummaryConfig()
	c.Width = 17
	c.Height = 10
	c.TitleFontSize = 20
	c.AnnotationFontSize = 20
	c.LabelFontSize = 12
	return c
}

// FigureSize returns the canvas size, substituting MinFigureHeight for a
// height of 5 inches or less while keeping the requested width.
func (c Config) FigureSize() (vg.Length, vg.Length) {
	w, h := ClampFigureSize(c.Width, c.Height)
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// ClampFigureSize applies the minimum height rule to a size in inches
func ClampFigureSize(width, height float64) (float64, float64) {
	if height <= 5 {
		height = MinFigureHeight
	}
	return width, height
}

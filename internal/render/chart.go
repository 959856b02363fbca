package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"multistats/domain/core"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Supported export formats
const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
)

// Chart is a rendered figure made of one or more plot panels. It is never
// drawn or written until the caller asks for it.
type Chart struct {
	ID     core.ChartID
	Kind   string
	Width  vg.Length
	Height vg.Length
	DPI    int

	panels [][]*plot.Plot
	layout func(dc draw.Canvas) [][]draw.Canvas
}

func newChart(kind string, cfg Config, panels [][]*plot.Plot, layout func(draw.Canvas) [][]draw.Canvas) *Chart {
	w, h := cfg.FigureSize()
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	return &Chart{
		ID:     core.NewChartID(),
		Kind:   kind,
		Width:  w,
		Height: h,
		DPI:    dpi,
		panels: panels,
		layout: layout,
	}
}

// Panels returns the plot grid in row-major order
func (c *Chart) Panels() [][]*plot.Plot {
	return c.panels
}

// Draw renders every panel onto dc
func (c *Chart) Draw(dc draw.Canvas) {
	canvases := c.layout(dc)
	for i, row := range c.panels {
		for j, p := range row {
			if p == nil {
				continue
			}
			p.Draw(canvases[i][j])
		}
	}
}

// WriterTo renders the chart into an in-memory canvas of the given format
func (c *Chart) WriterTo(format string) (io.WriterTo, error) {
	switch normalizeFormat(format) {
	case FormatPNG:
		img := vgimg.NewWith(vgimg.UseWH(c.Width, c.Height), vgimg.UseDPI(c.DPI))
		c.Draw(draw.New(img))
		return vgimg.PngCanvas{Canvas: img}, nil
	case FormatJPEG:
		img := vgimg.NewWith(vgimg.UseWH(c.Width, c.Height), vgimg.UseDPI(c.DPI))
		c.Draw(draw.New(img))
		return vgimg.JpegCanvas{Canvas: img}, nil
	case FormatSVG:
		svg := vgsvg.New(c.Width, c.Height)
		c.Draw(draw.New(svg))
		return svg, nil
	case FormatPDF:
		pdf := vgpdf.New(c.Width, c.Height)
		c.Draw(draw.New(pdf))
		return pdf, nil
	default:
		return nil, core.NewInvalidInputError("format", -1, format, "unsupported chart format")
	}
}

// Encode writes the chart to w in the given format
func (c *Chart) Encode(w io.Writer, format string) error {
	wt, err := c.WriterTo(format)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return core.NewRenderError(c.Kind, err)
	}
	return nil
}

// Save writes the chart to path, picking the format from the extension
func (c *Chart) Save(path string) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return core.NewInvalidInputError("path", -1, path, "missing file extension")
	}
	if !IsSupportedFormat(format) {
		return core.NewInvalidInputError("format", -1, format, "unsupported chart format")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close chart file: %w", cerr)
		}
	}()
	return c.Encode(f, format)
}

// IsSupportedFormat reports whether format can be exported
func IsSupportedFormat(format string) bool {
	switch normalizeFormat(format) {
	case FormatPNG, FormatJPEG, FormatSVG, FormatPDF:
		return true
	}
	return false
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if f == "jpeg" {
		return FormatJPEG
	}
	return f
}

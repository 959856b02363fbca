package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// annotation places text at a fractional position of the data area, the
// way axes-fraction coordinates work. An optional rounded box is filled
// behind it.
type annotation struct {
	Text string
	// FracX and FracY locate the text anchor, (0, 0) bottom-left and (1, 1) top-right
	FracX, FracY float64
	Style        text.Style

	Background color.Color
	Padding    vg.Length
	Radius     vg.Length
}

func newAnnotation(txt string, fx, fy float64, size float64, xalign text.XAlignment, yalign text.YAlignment) *annotation {
	return &annotation{
		Text:  txt,
		FracX: fx,
		FracY: fy,
		Style: text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, vg.Points(size)),
			XAlign:  xalign,
			YAlign:  yalign,
			Handler: plot.DefaultTextHandler,
		},
		Padding: vg.Points(size / 2),
		Radius:  vg.Points(size / 2),
	}
}

// Plot implements plot.Plotter
func (a *annotation) Plot(c draw.Canvas, plt *plot.Plot) {
	if a.Text == "" {
		return
	}
	pt := vg.Point{
		X: c.Min.X + vg.Length(a.FracX)*(c.Max.X-c.Min.X),
		Y: c.Min.Y + vg.Length(a.FracY)*(c.Max.Y-c.Min.Y),
	}
	if a.Background != nil {
		r := a.Style.Rectangle(a.Text).Add(pt)
		r.Min.X -= a.Padding
		r.Min.Y -= a.Padding
		r.Max.X += a.Padding
		r.Max.Y += a.Padding
		c.SetColor(a.Background)
		c.Fill(roundedRect(r, a.Radius))
	}
	c.FillText(a.Style, pt, a.Text)
}

func roundedRect(r vg.Rectangle, rad vg.Length) vg.Path {
	w, h := r.Max.X-r.Min.X, r.Max.Y-r.Min.Y
	if lim := vg.Length(math.Min(float64(w), float64(h))) / 2; rad > lim {
		rad = lim
	}
	var p vg.Path
	p.Move(vg.Point{X: r.Min.X + rad, Y: r.Min.Y})
	p.Line(vg.Point{X: r.Max.X - rad, Y: r.Min.Y})
	p.Arc(vg.Point{X: r.Max.X - rad, Y: r.Min.Y + rad}, rad, -math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: r.Max.X, Y: r.Max.Y - rad})
	p.Arc(vg.Point{X: r.Max.X - rad, Y: r.Max.Y - rad}, rad, 0, math.Pi/2)
	p.Line(vg.Point{X: r.Min.X + rad, Y: r.Max.Y})
	p.Arc(vg.Point{X: r.Min.X + rad, Y: r.Max.Y - rad}, rad, math.Pi/2, math.Pi/2)
	p.Line(vg.Point{X: r.Min.X, Y: r.Min.Y + rad})
	p.Arc(vg.Point{X: r.Min.X + rad, Y: r.Min.Y + rad}, rad, math.Pi, math.Pi/2)
	p.Close()
	return p
}

// refLine is a vertical line spanning the whole data area at X
type refLine struct {
	X float64
	draw.LineStyle
}

func newRefLine(x float64, c color.Color, dashed bool) *refLine {
	l := &refLine{
		X: x,
		LineStyle: draw.LineStyle{
			Color: c,
			Width: vg.Points(2),
		},
	}
	if dashed {
		l.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	}
	return l
}

// Plot implements plot.Plotter
func (l *refLine) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)
	x := trX(l.X)
	if x < c.Min.X || x > c.Max.X {
		return
	}
	c.StrokeLine2(l.LineStyle, x, c.Min.Y, x, c.Max.Y)
}

// Thumbnail implements plot.Thumbnailer
func (l *refLine) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(l.LineStyle, c.Min.X, y, c.Max.X, y)
}

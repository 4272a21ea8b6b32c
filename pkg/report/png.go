package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/kilianp07/wsnlife/core/field"
	"github.com/kilianp07/wsnlife/core/geometry"
	"github.com/kilianp07/wsnlife/core/schedule"
)

// circleSegments is the polygon resolution used for sensing ranges.
const circleSegments = 48

var (
	liveColor   = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff}
	deadColor   = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	targetColor = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
	rangeColor  = color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0x40}
)

func toXYs(pts []geometry.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return xys
}

func circle(c geometry.Point, r float64) plotter.XYs {
	xys := make(plotter.XYs, circleSegments+1)
	for i := range xys {
		a := 2 * math.Pi * float64(i) / circleSegments
		xys[i] = plotter.XY{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return xys
}

func addScatter(p *plot.Plot, name string, pts []geometry.Point, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(toXYs(pts))
	if err != nil {
		return fmt.Errorf("%s scatter: %w", name, err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

// FieldPlot builds the field map with a sensing circle around every live sensor.
func FieldPlot(f *field.Field, o Options) (*plot.Plot, error) {
	o.SetDefaults()
	l := NewLayout(f)
	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.X.Min, p.X.Max = 0, l.Size
	p.Y.Min, p.Y.Max = 0, l.Size
	p.Add(plotter.NewGrid())

	for _, s := range l.Live {
		ring, err := plotter.NewLine(circle(s, l.Range))
		if err != nil {
			return nil, fmt.Errorf("range circle: %w", err)
		}
		ring.Color = rangeColor
		ring.Width = vg.Points(0.5)
		p.Add(ring)
	}
	if err := addScatter(p, "live sensors", l.Live, liveColor, draw.CircleGlyph{}); err != nil {
		return nil, err
	}
	if err := addScatter(p, "dead sensors", l.Dead, deadColor, draw.CrossGlyph{}); err != nil {
		return nil, err
	}
	if err := addScatter(p, "targets", l.Targets, targetColor, draw.TriangleGlyph{}); err != nil {
		return nil, err
	}
	return p, nil
}

// ActivityPlot builds the active-sensors-over-time line.
func ActivityPlot(trace schedule.Trace, battery int, o Options) (*plot.Plot, error) {
	o.SetDefaults()
	series := ActivitySeries(trace, battery)
	xys := make(plotter.XYs, len(series))
	for i, pt := range series {
		xys[i] = plotter.XY{X: float64(pt.Time), Y: float64(pt.Active)}
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (lifetime %d)", o.Title, len(trace)*battery)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Active sensors"
	p.Y.Min = 0
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("activity line: %w", err)
	}
	line.Width = vg.Points(1)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	return p, nil
}

func writePNG(w io.Writer, p *plot.Plot, o Options) error {
	wt, err := p.WriterTo(vg.Length(o.Width), vg.Length(o.Height), "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// WriteFieldPNG renders the field map as PNG.
func WriteFieldPNG(w io.Writer, f *field.Field, o Options) error {
	o.SetDefaults()
	p, err := FieldPlot(f, o)
	if err != nil {
		return err
	}
	return writePNG(w, p, o)
}

// WriteActivityPNG renders the activity line as PNG.
func WriteActivityPNG(w io.Writer, trace schedule.Trace, battery int, o Options) error {
	o.SetDefaults()
	p, err := ActivityPlot(trace, battery, o)
	if err != nil {
		return err
	}
	return writePNG(w, p, o)
}

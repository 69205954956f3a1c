// Package chart renders the reach series as a stepped line chart.
//
// The x axis is the cumulative downstream distance of each section and the
// y axis is the median stone size. Three series are drawn: the empirical
// estimate, the stability estimate, and their average. Every series steps:
// from one point the line runs horizontally to the next section's distance
// and then vertically to the next value, so each section's size holds over
// the reach that starts at it.
//
// Three sinks share one layout: [RenderSVG], [RenderPNG] (rasterised with
// gg) and [RenderJSON], which emits labels and datasets for an external
// charting library.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/revetment/pkg/reach"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600

	XAxisTitle = "Reach length (m)"
	YAxisTitle = "D50 (m)"

	// EmptyNote is drawn inside the frame when there are no sections.
	EmptyNote = "no sections"
)

// Series labels, in drawing order.
const (
	LabelEmpirical = "Empirical (Escarameia & May)"
	LabelStability = "Stability (Pilarczyk)"
	LabelAverage   = "Average"
)

var (
	colorEmpirical = color.RGBA{255, 99, 132, 255}
	colorStability = color.RGBA{54, 162, 235, 255}
	colorAverage   = color.RGBA{0, 162, 0, 255}
)

// Option configures every sink.
type Option func(*config)

type config struct {
	width, height float64
	title         string
}

// WithSize sets the output size in pixels. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 0 {
			c.width = float64(width)
		}
		if height > 0 {
			c.height = float64(height)
		}
	}
}

// WithTitle sets the chart title. An empty title draws none.
func WithTitle(title string) Option { return func(c *config) { c.title = title } }

func newConfig(opts ...Option) config {
	c := config{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Dataset is one plotted series.
type Dataset struct {
	Label string
	Color color.RGBA
	Data  []float64
}

// CSS returns the color in rgb() notation.
func (d Dataset) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", d.Color.R, d.Color.G, d.Color.B)
}

// Datasets splits the series into the three plotted datasets.
func Datasets(s reach.Series) []Dataset {
	return []Dataset{
		{Label: LabelEmpirical, Color: colorEmpirical, Data: s.Empirical},
		{Label: LabelStability, Color: colorStability, Data: s.Stability},
		{Label: LabelAverage, Color: colorAverage, Data: s.Average},
	}
}

type rect struct{ x, y, w, h float64 }

func (r rect) right() float64  { return r.x + r.w }
func (r rect) bottom() float64 { return r.y + r.h }

type axis struct {
	min, max float64
	ticks    []float64
	decimals int
}

// frame maps data coordinates into the plot area.
type frame struct {
	cfg     config
	plot    rect
	x, y    axis
	empty   bool
	titleY  float64
	legendY float64
}

const (
	marginLeft   = 72
	marginRight  = 24
	marginBottom = 56
	legendHeight = 24
	titleHeight  = 28
	tickCount    = 6
)

func newFrame(cfg config, s reach.Series) frame {
	f := frame{cfg: cfg, empty: s.Len() == 0}

	top := 12.0
	if cfg.title != "" {
		f.titleY = top + 16
		top += titleHeight
	}
	f.legendY = top + 12
	top += legendHeight + 8

	f.plot = rect{
		x: marginLeft,
		y: top,
		w: math.Max(cfg.width-marginLeft-marginRight, 1),
		h: math.Max(cfg.height-top-marginBottom, 1),
	}

	xmin, xmax := bounds(s.Distance)
	f.x = niceAxis(xmin, xmax, tickCount)

	ymin, ymax := bounds(s.Empirical, s.Stability, s.Average)
	f.y = niceAxis(ymin, ymax, tickCount)
	return f
}

// X maps a distance to a horizontal pixel position.
func (f frame) X(v float64) float64 {
	return f.plot.x + (v-f.x.min)/(f.x.max-f.x.min)*f.plot.w
}

// Y maps a diameter to a vertical pixel position.
func (f frame) Y(v float64) float64 {
	return f.plot.bottom() - (v-f.y.min)/(f.y.max-f.y.min)*f.plot.h
}

// step returns the pixel vertices of a stepped line through the points.
func (f frame) step(xs, ys []float64) [][2]float64 {
	n := min(len(xs), len(ys))
	if n == 0 {
		return nil
	}
	pts := make([][2]float64, 0, 2*n-1)
	pts = append(pts, [2]float64{f.X(xs[0]), f.Y(ys[0])})
	for i := 1; i < n; i++ {
		prev := pts[len(pts)-1]
		pts = append(pts, [2]float64{f.X(xs[i]), prev[1]})
		pts = append(pts, [2]float64{f.X(xs[i]), f.Y(ys[i])})
	}
	return pts
}

func (a axis) label(v float64) string {
	return strconv.FormatFloat(v, 'f', a.decimals, 64)
}

// bounds returns the finite extent of all values, or [0, 1] if there are none.
func bounds(series ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

// niceAxis widens [lo, hi] to round tick steps. The range is not forced to
// include zero.
func niceAxis(lo, hi float64, n int) axis {
	if hi == lo {
		pad := math.Abs(lo) * 0.1
		if pad == 0 {
			pad = 0.5
		}
		lo, hi = lo-pad, hi+pad
	}
	step := niceStep((hi-lo)/float64(n))
	a := axis{
		min: math.Floor(lo/step) * step,
		max: math.Ceil(hi/step) * step,
	}
	count := int(math.Round((a.max - a.min) / step))
	for i := 0; i <= count; i++ {
		a.ticks = append(a.ticks, a.min+float64(i)*step)
	}
	a.decimals = max(0, -int(math.Floor(math.Log10(step))))
	return a
}

func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch r := raw / mag; {
	case r <= 1:
		return mag
	case r <= 2:
		return 2 * mag
	case r <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

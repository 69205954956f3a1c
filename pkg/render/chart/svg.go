package chart

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/revetment/pkg/reach"
)

const (
	fontFamily = "system-ui, -apple-system, sans-serif"
	gridColor  = "#e5e5e5"
	axisColor  = "#666666"
	textColor  = "#333333"
)

// RenderSVG draws the series as a stepped line chart.
func RenderSVG(s reach.Series, opts ...Option) []byte {
	cfg := newConfig(opts...)
	f := newFrame(cfg, s)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		cfg.width, cfg.height, cfg.width, cfg.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")
	fmt.Fprintf(&buf, `  <g font-family="%s" fill="%s">`+"\n", fontFamily, textColor)

	if cfg.title != "" {
		fmt.Fprintf(&buf, `    <text class="title" x="%.1f" y="%.1f" text-anchor="middle" font-size="16" font-weight="bold">%s</text>`+"\n",
			cfg.width/2, f.titleY, html.EscapeString(cfg.title))
	}

	datasets := Datasets(s)
	renderSVGLegend(&buf, f, datasets)
	renderSVGGrid(&buf, f)

	if f.empty {
		fmt.Fprintf(&buf, `    <text class="empty" x="%.1f" y="%.1f" text-anchor="middle" font-size="14" fill="%s">%s</text>`+"\n",
			f.plot.x+f.plot.w/2, f.plot.y+f.plot.h/2, axisColor, EmptyNote)
	}
	for _, d := range datasets {
		renderSVGDataset(&buf, f, s.Distance, d)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderSVGLegend(buf *bytes.Buffer, f frame, datasets []Dataset) {
	const swatch, gap = 28.0, 16.0

	widths := make([]float64, len(datasets))
	total := 0.0
	for i, d := range datasets {
		widths[i] = swatch + 6 + textWidth(d.Label, 12)
		total += widths[i]
	}
	total += gap * float64(len(datasets)-1)

	x := (f.cfg.width - total) / 2
	for i, d := range datasets {
		fmt.Fprintf(buf, `    <rect class="legend" x="%.1f" y="%.1f" width="%.1f" height="10" fill="%s" fill-opacity="0.5" stroke="%s" stroke-width="2"/>`+"\n",
			x, f.legendY-9, swatch, d.CSS(), d.CSS())
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="12">%s</text>`+"\n",
			x+swatch+6, f.legendY, html.EscapeString(d.Label))
		x += widths[i] + gap
	}
}

func renderSVGGrid(buf *bytes.Buffer, f frame) {
	p := f.plot
	for _, v := range f.x.ticks {
		x := f.X(v)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", x, p.y, x, p.bottom(), gridColor)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" font-size="11">%s</text>`+"\n", x, p.bottom()+16, f.x.label(v))
	}
	for _, v := range f.y.ticks {
		y := f.Y(v)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", p.x, y, p.right(), y, gridColor)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="end" font-size="11">%s</text>`+"\n", p.x-6, y+4, f.y.label(v))
	}
	fmt.Fprintf(buf, `    <rect class="frame" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>`+"\n",
		p.x, p.y, p.w, p.h, axisColor)

	fmt.Fprintf(buf, `    <text class="axis-title" x="%.1f" y="%.1f" text-anchor="middle" font-size="13">%s</text>`+"\n",
		p.x+p.w/2, p.bottom()+40, XAxisTitle)
	cx, cy := p.x-54, p.y+p.h/2
	fmt.Fprintf(buf, `    <text class="axis-title" x="%.1f" y="%.1f" text-anchor="middle" font-size="13" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		cx, cy, cx, cy, YAxisTitle)
}

func renderSVGDataset(buf *bytes.Buffer, f frame, xs []float64, d Dataset) {
	pts := f.step(xs, d.Data)
	if len(pts) == 0 {
		return
	}

	var path strings.Builder
	fmt.Fprintf(&path, "M%.2f %.2f", pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		fmt.Fprintf(&path, " L%.2f %.2f", p[0], p[1])
	}
	fmt.Fprintf(buf, `    <path class="series" d="%s" fill="none" stroke="%s" stroke-width="2"><title>%s</title></path>`+"\n",
		path.String(), d.CSS(), html.EscapeString(d.Label))

	for i := range min(len(xs), len(d.Data)) {
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="3" fill="%s"><title>%s: %.3f m</title></circle>`+"\n",
			f.X(xs[i]), f.Y(d.Data[i]), d.CSS(), html.EscapeString(d.Label), d.Data[i])
	}
}

// textWidth estimates rendered text width for layout.
func textWidth(s string, size float64) float64 {
	return float64(len(s)) * size * 0.55
}

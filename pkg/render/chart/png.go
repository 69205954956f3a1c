package chart

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
)

// RenderPNG draws the same chart as [RenderSVG] into a raster image.
// Text uses gg's built-in bitmap face, so no font files are needed.
func RenderPNG(s reach.Series, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	f := newFrame(cfg, s)

	dc := gg.NewContext(int(cfg.width), int(cfg.height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if cfg.title != "" {
		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(cfg.title, cfg.width/2, f.titleY-4, 0.5, 0.5)
	}

	datasets := Datasets(s)
	drawLegend(dc, f, datasets)
	drawGrid(dc, f)

	if f.empty {
		dc.SetHexColor(axisColor)
		dc.DrawStringAnchored(EmptyNote, f.plot.x+f.plot.w/2, f.plot.y+f.plot.h/2, 0.5, 0.5)
	}
	for _, d := range datasets {
		drawDataset(dc, f, s.Distance, d)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func drawLegend(dc *gg.Context, f frame, datasets []Dataset) {
	const swatch, gap = 28.0, 16.0

	widths := make([]float64, len(datasets))
	total := 0.0
	for i, d := range datasets {
		w, _ := dc.MeasureString(d.Label)
		widths[i] = swatch + 6 + w
		total += widths[i]
	}
	total += gap * float64(len(datasets)-1)

	x := (f.cfg.width - total) / 2
	for i, d := range datasets {
		dc.DrawRectangle(x, f.legendY-9, swatch, 10)
		dc.SetRGBA255(int(d.Color.R), int(d.Color.G), int(d.Color.B), 128)
		dc.FillPreserve()
		dc.SetColor(d.Color)
		dc.SetLineWidth(2)
		dc.Stroke()

		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(d.Label, x+swatch+6, f.legendY-4, 0, 0.5)
		x += widths[i] + gap
	}
}

func drawGrid(dc *gg.Context, f frame) {
	p := f.plot
	dc.SetLineWidth(1)

	for _, v := range f.x.ticks {
		x := f.X(v)
		dc.SetHexColor(gridColor)
		dc.DrawLine(x, p.y, x, p.bottom())
		dc.Stroke()
		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(f.x.label(v), x, p.bottom()+12, 0.5, 0.5)
	}
	for _, v := range f.y.ticks {
		y := f.Y(v)
		dc.SetHexColor(gridColor)
		dc.DrawLine(p.x, y, p.right(), y)
		dc.Stroke()
		dc.SetHexColor(textColor)
		dc.DrawStringAnchored(f.y.label(v), p.x-6, y, 1, 0.5)
	}

	dc.SetHexColor(axisColor)
	dc.DrawRectangle(p.x, p.y, p.w, p.h)
	dc.Stroke()

	dc.SetHexColor(textColor)
	dc.DrawStringAnchored(XAxisTitle, p.x+p.w/2, p.bottom()+36, 0.5, 0.5)

	cx, cy := p.x-54, p.y+p.h/2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), cx, cy)
	dc.DrawStringAnchored(YAxisTitle, cx, cy, 0.5, 0.5)
	dc.Pop()
}

func drawDataset(dc *gg.Context, f frame, xs []float64, d Dataset) {
	pts := f.step(xs, d.Data)
	if len(pts) == 0 {
		return
	}

	dc.SetColor(d.Color)
	dc.SetLineWidth(2)
	dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.Stroke()

	for i := range min(len(xs), len(d.Data)) {
		dc.DrawCircle(f.X(xs[i]), f.Y(d.Data[i]), 3)
		dc.Fill()
	}
}

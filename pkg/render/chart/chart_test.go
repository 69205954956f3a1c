package chart

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/revetment/pkg/reach"
)

func testSeries() reach.Series {
	return reach.Series{
		Distance:  []float64{0, 10, 30},
		Empirical: []float64{0.34, 0.30, 0.36},
		Stability: []float64{0.16, 0.18, 0.15},
		Average:   []float64{0.25, 0.24, 0.255},
	}
}

func TestDatasets(t *testing.T) {
	ds := Datasets(testSeries())
	want := []struct {
		label string
		css   string
	}{
		{LabelEmpirical, "rgb(255, 99, 132)"},
		{LabelStability, "rgb(54, 162, 235)"},
		{LabelAverage, "rgb(0, 162, 0)"},
	}
	if len(ds) != len(want) {
		t.Fatalf("Datasets() len = %d, want %d", len(ds), len(want))
	}
	for i, w := range want {
		if ds[i].Label != w.label || ds[i].CSS() != w.css {
			t.Errorf("dataset %d = %q %s, want %q %s", i, ds[i].Label, ds[i].CSS(), w.label, w.css)
		}
	}
}

func TestNiceAxis(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
	}{
		{"diameters", 0.15, 0.36},
		{"distances", 0, 30},
		{"flat", 0.2, 0.2},
		{"flat zero", 0, 0},
		{"large", 120, 4350},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := niceAxis(tt.lo, tt.hi, tickCount)
			if a.min > tt.lo || a.max < tt.hi {
				t.Errorf("niceAxis(%v, %v) = [%v, %v], does not cover input", tt.lo, tt.hi, a.min, a.max)
			}
			if a.min >= a.max {
				t.Errorf("niceAxis(%v, %v) is empty: [%v, %v]", tt.lo, tt.hi, a.min, a.max)
			}
			if len(a.ticks) < 2 {
				t.Errorf("niceAxis(%v, %v) ticks = %v", tt.lo, tt.hi, a.ticks)
			}
			if a.ticks[0] != a.min || math.Abs(a.ticks[len(a.ticks)-1]-a.max) > 1e-9 {
				t.Errorf("ticks %v should span [%v, %v]", a.ticks, a.min, a.max)
			}
		})
	}
}

func TestNiceAxisNotForcedToZero(t *testing.T) {
	a := niceAxis(0.15, 0.36, tickCount)
	if a.min <= 0 {
		t.Errorf("niceAxis min = %v, want above zero", a.min)
	}
	if a.decimals != 2 {
		t.Errorf("decimals = %d, want 2", a.decimals)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := bounds([]float64{0.3, math.NaN(), 0.1}, []float64{math.Inf(1), 0.5})
	if lo != 0.1 || hi != 0.5 {
		t.Errorf("bounds() = %v, %v, want 0.1, 0.5", lo, hi)
	}
	if lo, hi := bounds(nil); lo != 0 || hi != 1 {
		t.Errorf("bounds(nil) = %v, %v, want 0, 1", lo, hi)
	}
}

func TestFrameStep(t *testing.T) {
	s := testSeries()
	f := newFrame(newConfig(), s)

	pts := f.step(s.Distance, s.Empirical)
	if len(pts) != 5 {
		t.Fatalf("step() = %d points, want 5", len(pts))
	}
	if pts[0][0] != f.X(0) || pts[0][1] != f.Y(0.34) {
		t.Errorf("first point = %v", pts[0])
	}
	for i := 1; i < len(pts); i += 2 {
		if pts[i][1] != pts[i-1][1] {
			t.Errorf("segment %d should run horizontally first: %v -> %v", i, pts[i-1], pts[i])
		}
		if pts[i+1][0] != pts[i][0] {
			t.Errorf("segment %d should then run vertically: %v -> %v", i, pts[i], pts[i+1])
		}
	}
	if pts[4][0] != f.X(30) || pts[4][1] != f.Y(0.36) {
		t.Errorf("last point = %v", pts[4])
	}

	if f.step(nil, nil) != nil {
		t.Error("step() with no points should be nil")
	}
}

func TestFrameMapping(t *testing.T) {
	f := newFrame(newConfig(WithSize(640, 360)), testSeries())
	if f.X(f.x.min) != f.plot.x || math.Abs(f.X(f.x.max)-f.plot.right()) > 1e-9 {
		t.Error("x axis should span the plot area")
	}
	if f.Y(f.y.min) != f.plot.bottom() || math.Abs(f.Y(f.y.max)-f.plot.y) > 1e-9 {
		t.Error("y axis should span the plot area")
	}
	if f.plot.right() > 640 || f.plot.bottom() > 360 {
		t.Errorf("plot area %+v exceeds the canvas", f.plot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testSeries(), WithSize(640, 360), WithTitle("Reach <A>")))

	for _, want := range []string{
		`viewBox="0 0 640.0 360.0"`,
		`width="640"`,
		"Escarameia &amp; May",
		LabelStability,
		LabelAverage,
		XAxisTitle,
		YAxisTitle,
		"Reach &lt;A&gt;",
		`stroke="rgb(255, 99, 132)"`,
		`stroke="rgb(54, 162, 235)"`,
		`stroke="rgb(0, 162, 0)"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, `class="series"`); got != 3 {
		t.Errorf("SVG has %d series paths, want 3", got)
	}
	if strings.Contains(svg, EmptyNote) {
		t.Error("non-empty chart should not carry the empty note")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG should be closed")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	svg := string(RenderSVG(reach.Series{}))
	if !strings.Contains(svg, EmptyNote) {
		t.Error("empty chart should carry the empty note")
	}
	if strings.Contains(svg, `class="series"`) {
		t.Error("empty chart should not draw series")
	}
	if strings.Contains(svg, `class="title"`) {
		t.Error("chart without a title should not draw one")
	}
}

func TestRenderPNG(t *testing.T) {
	for _, s := range []reach.Series{testSeries(), {}} {
		data, err := RenderPNG(s, WithSize(320, 200), WithTitle("Reach"))
		if err != nil {
			t.Fatalf("RenderPNG() error: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png.Decode() error: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
			t.Errorf("PNG size = %dx%d, want 320x200", b.Dx(), b.Dy())
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(testSeries(), WithTitle("Reach"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Title    string    `json:"title"`
		Labels   []float64 `json:"labels"`
		Datasets []struct {
			Label       string    `json:"label"`
			Stepped     bool      `json:"stepped"`
			BorderColor string    `json:"borderColor"`
			Data        []float64 `json:"data"`
		} `json:"datasets"`
		Scales struct {
			X struct {
				Type  string `json:"type"`
				Title string `json:"title"`
			} `json:"x"`
			Y struct {
				BeginAtZero bool   `json:"beginAtZero"`
				Title       string `json:"title"`
			} `json:"y"`
		} `json:"scales"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if out.Title != "Reach" {
		t.Errorf("title = %q", out.Title)
	}
	if len(out.Labels) != 3 || out.Labels[2] != 30 {
		t.Errorf("labels = %v, want [0 10 30]", out.Labels)
	}
	if len(out.Datasets) != 3 {
		t.Fatalf("datasets = %d, want 3", len(out.Datasets))
	}
	first := out.Datasets[0]
	if first.Label != LabelEmpirical || !first.Stepped || first.BorderColor != "rgb(255, 99, 132)" {
		t.Errorf("first dataset = %+v", first)
	}
	if len(first.Data) != 3 || first.Data[0] != 0.34 {
		t.Errorf("first dataset data = %v", first.Data)
	}
	if out.Scales.X.Type != "linear" || out.Scales.X.Title != XAxisTitle {
		t.Errorf("x scale = %+v", out.Scales.X)
	}
	if out.Scales.Y.BeginAtZero || out.Scales.Y.Title != YAxisTitle {
		t.Errorf("y scale = %+v", out.Scales.Y)
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(reach.Series{})
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !bytes.Contains(data, []byte(`"labels": []`)) || !bytes.Contains(data, []byte(`"data": []`)) {
		t.Errorf("empty chart should emit empty arrays:\n%s", data)
	}
}

func TestWithSizeIgnoresNonPositive(t *testing.T) {
	c := newConfig(WithSize(0, -5))
	if c.width != DefaultWidth || c.height != DefaultHeight {
		t.Errorf("size = %vx%v, want defaults", c.width, c.height)
	}
}

package schematic

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/revetment/pkg/material"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
)

func sections(t *testing.T, lengths ...float64) []section.Section {
	t.Helper()
	out := make([]section.Section, len(lengths))
	for i, l := range lengths {
		s, err := section.New(section.Inputs{
			Name:                      "XS" + string(rune('1'+i)),
			Velocity:                  2.5,
			InvertElevation:           10,
			DownstreamInvertElevation: 9.95,
			DownstreamReachLength:     l,
			WaterLevel:                12,
			BankSlope:                 0.5,
			RevetmentType:             material.Gabion,
			TurbulenceIntensity:       0.12,
			TurbulenceFactor:          1,
			BoundaryLayer:             section.Full,
			Zone:                      material.Transition,
		})
		if err != nil {
			t.Fatalf("section.New() error: %v", err)
		}
		out[i] = s
	}
	return out
}

func TestToDOT(t *testing.T) {
	secs := sections(t, 10, 20, 30)
	series, err := reach.Aggregate(secs)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}

	dot := ToDOT(secs, series)
	for _, want := range []string{
		"rankdir=LR",
		`"s1" [label="XS1\ngabion, transition`,
		`"s1" -> "s2" [label="10.00 m"]`,
		`"s2" -> "s3" [label="20.00 m"]`,
		"E&M D50 " + reach.FormatDiameter(series.Empirical[0]) + " m",
		"Pilarczyk D50 " + reach.FormatDiameter(series.Stability[2]) + " m",
		"depth 2.00 m",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, `"s3" -> outlet [label="30.00 m", style=dashed]`) {
		t.Errorf("DOT should end in an outlet edge after the last section:\n%s", dot)
	}
	if n := strings.Count(dot, "-> outlet"); n != 1 {
		t.Errorf("DOT has %d outlet edges, want 1", n)
	}
}

func TestToDOTWithoutSeries(t *testing.T) {
	dot := ToDOT(sections(t, 10, 5), reach.Series{})
	if strings.Contains(dot, "D50") {
		t.Error("DOT without a series should not carry estimates")
	}
	if !strings.Contains(dot, `"s2" -> outlet [label="5.00 m", style=dashed]`) {
		t.Errorf("DOT should end in an outlet edge:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, reach.Series{})
	if !strings.Contains(dot, "no sections") {
		t.Errorf("empty DOT should carry a note:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	secs := sections(t, 10, 20)
	svg, err := RenderSVG(context.Background(), ToDOT(secs, reach.Series{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("SVG header not normalized:\n%.300s", svg)
	}
	if !bytes.Contains(svg, []byte("XS1")) {
		t.Error("SVG should contain section names")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(context.Background(), ToDOT(sections(t, 10), reach.Series{}))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("RenderPNG() should return PNG data")
	}
}

func TestRenderInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() should reject malformed DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}

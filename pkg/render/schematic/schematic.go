// Package schematic draws the reach as a left-to-right chain of sections.
//
// Each node is one section, labelled with its name, material, zone and both
// D50 estimates. Edges carry the downstream reach length between sections.
// [ToDOT] produces Graphviz source; [RenderSVG] and [RenderPNG] lay it out
// with the embedded Graphviz build, so no external binary is needed.
//
//	dot := schematic.ToDOT(sections, series)
//	svg, err := schematic.RenderSVG(ctx, dot)
package schematic

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
)

// ToDOT converts the sections to Graphviz DOT source. The series adds the
// D50 estimates to each node when it is aligned with sections; pass a zero
// Series to draw geometry only.
func ToDOT(sections []section.Section, series reach.Series) string {
	withSizes := series.Len() == len(sections) &&
		len(series.Empirical) == len(sections) &&
		len(series.Stability) == len(sections)

	var buf bytes.Buffer
	buf.WriteString("digraph reach {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#eef5fb\", fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, color=\"#666666\"];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	if len(sections) == 0 {
		buf.WriteString("  empty [shape=plaintext, style=\"\", label=\"no sections\"];\n")
		buf.WriteString("}\n")
		return buf.String()
	}

	for i, s := range sections {
		lines := []string{
			s.Name(),
			fmt.Sprintf("%s, %s", s.Inputs().RevetmentType, s.Inputs().Zone),
			fmt.Sprintf("depth %s m, slope %s", reach.FormatGeometry(s.Depth()), strconv.FormatFloat(s.Slope(), 'g', 3, 64)),
		}
		if withSizes {
			lines = append(lines,
				"E&M D50 "+reach.FormatDiameter(series.Empirical[i])+" m",
				"Pilarczyk D50 "+reach.FormatDiameter(series.Stability[i])+" m",
			)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(i), strings.Join(lines, "\n"))
	}

	buf.WriteString("\n")
	for i := 1; i < len(sections); i++ {
		length := sections[i-1].Inputs().DownstreamReachLength
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(i-1), nodeID(i), reach.FormatGeometry(length)+" m")
	}

	last := sections[len(sections)-1].Inputs().DownstreamReachLength
	buf.WriteString("  outlet [shape=point, width=0.08];\n")
	fmt.Fprintf(&buf, "  %q -> outlet [label=%q, style=dashed];\n", nodeID(len(sections)-1), reach.FormatGeometry(last)+" m")

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(i int) string { return "s" + strconv.Itoa(i+1) }

// RenderSVG lays out DOT source and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	data, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(data), nil
}

// RenderPNG lays out DOT source and returns a PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one sized
// in pixels from the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

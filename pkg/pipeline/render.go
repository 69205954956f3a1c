package pipeline

import (
	"context"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/render/chart"
	"github.com/matzehuels/revetment/pkg/render/schematic"
	"github.com/matzehuels/revetment/pkg/section"
)

// Render draws one visualization type in the requested formats.
func Render(ctx context.Context, vizType string, sections []section.Section, series reach.Series, opts Options) (map[string][]byte, error) {
	switch vizType {
	case TypeChart:
		return renderChart(series, opts)
	case TypeSchematic:
		return renderSchematic(ctx, sections, series, opts)
	}
	return nil, ValidateType(vizType)
}

func renderChart(series reach.Series, opts Options) (map[string][]byte, error) {
	chartOpts := []chart.Option{chart.WithSize(opts.Width, opts.Height)}
	if opts.Title != "" {
		chartOpts = append(chartOpts, chart.WithTitle(opts.Title))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = chart.RenderSVG(series, chartOpts...)
		case FormatPNG:
			data, err = chart.RenderPNG(series, chartOpts...)
		case FormatJSON:
			data, err = chart.RenderJSON(series, chartOpts...)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported chart format: %s", format)
		}
		if err != nil {
			return nil, errors.Context(err, "render chart %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSchematic(ctx context.Context, sections []section.Section, series reach.Series, opts Options) (map[string][]byte, error) {
	dot := schematic.ToDOT(sections, series)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data, err = schematic.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = schematic.RenderPNG(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported schematic format: %s", format)
		}
		if err != nil {
			return nil, errors.Context(err, "render schematic %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

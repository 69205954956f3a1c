// Package pipeline runs the size → render pipeline for a reach.
//
// The CLI and any other front end share this package so that sizing,
// rendering and artifact caching behave the same everywhere.
//
// # Stages
//
//  1. Compute: size every section with both methods ([reach.Aggregate]).
//     This stage is never cached; the series is rebuilt on every run.
//  2. Render: draw each requested visualization type in each requested
//     format. Rendered artifacts are cached, keyed by a hash of the sections
//     and series together with the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, sections, pipeline.Options{
//	    Types:   []string{pipeline.TypeChart},
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	})
//	svg := result.Artifacts["chart.svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/revetment/pkg/cache"
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/render/chart"
)

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = chart.DefaultWidth

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = chart.DefaultHeight

	// MaxDimension bounds width and height.
	MaxDimension = 8192
)

// Visualization types.
const (
	TypeChart     = "chart"
	TypeSchematic = "schematic"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidTypes is the set of supported visualization types.
var ValidTypes = map[string]bool{
	TypeChart:     true,
	TypeSchematic: true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options configures one pipeline run.
type Options struct {
	Types   []string `json:"types,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Refresh re-renders every artifact and overwrites the cached copy.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Series is the sized reach, one entry per section.
	Series reach.Series

	// Artifacts maps "<type>.<format>" (e.g. "chart.svg") to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run timings and sizes.
type Stats struct {
	Sections    int
	ComputeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks artifact cache use.
type CacheInfo struct {
	Hits   int
	Misses int
}

// AllHit reports whether every artifact came from the cache.
func (c CacheInfo) AllHit() bool { return c.Misses == 0 && c.Hits > 0 }

// ArtifactName returns the Artifacts key for a type and format.
func ArtifactName(vizType, format string) string { return vizType + "." + format }

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateType checks that a visualization type is supported.
func ValidateType(vizType string) error {
	if !ValidTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid type: %q (must be one of: chart, schematic)", vizType)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it again after a successful call is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.Types = normalize(o.Types)
	o.Formats = normalize(o.Formats)
	if len(o.Types) == 0 {
		o.Types = []string{TypeChart}
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}

	for _, t := range o.Types {
		if err := ValidateType(t); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if slices.Contains(o.Types, TypeSchematic) && slices.Contains(o.Formats, FormatJSON) {
		return errors.New(errors.ErrCodeInvalidFormat, "json output is only available for the chart")
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 || o.Width > MaxDimension || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "size %dx%d out of range (1-%d)", o.Width, o.Height, MaxDimension)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(vizType, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Type: vizType, Format: format, Title: o.Title}
	if vizType == TypeChart {
		k.Width, k.Height = o.Width, o.Height
	}
	return k
}

// normalize lowercases, trims and de-duplicates values, keeping first-seen order.
func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/revetment/pkg/cache"
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/observability"
	"github.com/matzehuels/revetment/pkg/reach"
	"github.com/matzehuels/revetment/pkg/section"
)

// Runner executes the pipeline with artifact caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached; zero uses cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer], and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute sizes the sections and renders every requested artifact.
func (r *Runner) Execute(ctx context.Context, sections []section.Section, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	computeStart := time.Now()
	series, err := r.Compute(ctx, sections)
	if err != nil {
		return nil, err
	}
	result.Series = series
	result.Stats.Sections = len(sections)
	result.Stats.ComputeTime = time.Since(computeStart)

	renderStart := time.Now()
	hash, err := seriesHash(sections, series)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash series")
	}

	for _, vizType := range opts.Types {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		artifacts, info, err := r.renderCached(ctx, vizType, hash, sections, series, opts)
		if err != nil {
			return nil, err
		}
		for format, data := range artifacts {
			result.Artifacts[ArtifactName(vizType, format)] = data
		}
		result.CacheInfo.Hits += info.Hits
		result.CacheInfo.Misses += info.Misses
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs",
		"types", opts.Types,
		"formats", opts.Formats,
		"cache_hits", result.CacheInfo.Hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compute sizes every section. It is the uncached first stage of [Runner.Execute].
func (r *Runner) Compute(ctx context.Context, sections []section.Section) (reach.Series, error) {
	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, len(sections))
	start := time.Now()

	series, err := reach.Aggregate(sections)

	hooks.OnComputeComplete(ctx, len(sections), time.Since(start), err)
	if err != nil {
		return reach.Series{}, err
	}
	r.Logger.Debug("sized sections", "sections", len(sections), "duration", time.Since(start))
	return series, nil
}

// renderCached returns one type's artifacts, rendering only on a cache miss.
// All formats of a type are rendered together when any of them misses.
func (r *Runner) renderCached(ctx context.Context, vizType, hash string, sections []section.Section, series reach.Series, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		cached := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(vizType, format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "type", vizType, "format", format, "err", err)
			}
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact")
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact")
			cached[format] = data
		}
		if len(cached) == len(opts.Formats) {
			info.Hits = len(cached)
			return cached, info, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, vizType, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, vizType, sections, series, opts)
	hooks.OnRenderComplete(ctx, vizType, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, info, err
	}
	info.Misses = len(artifacts)

	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLArtifact
	}
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(vizType, format))
		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "type", vizType, "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, info, nil
}

// seriesHash identifies everything an artifact is drawn from.
func seriesHash(sections []section.Section, series reach.Series) (string, error) {
	inputs := make([]section.Inputs, len(sections))
	for i, s := range sections {
		inputs[i] = s.Inputs()
	}
	return cache.HashJSON(struct {
		Sections []section.Inputs `json:"sections"`
		Series   reach.Series     `json:"series"`
	}{inputs, series})
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// The CLI registers it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnComputeStart(_ context.Context, sections int) {
	h.logger.Debug("compute start", "sections", sections)
}

func (h *LogHooks) OnComputeComplete(_ context.Context, sections int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compute failed", "sections", sections, "elapsed", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("compute done", "sections", sections, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnRenderStart(_ context.Context, vizType string, formats []string) {
	h.logger.Debug("render start", "type", vizType, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, vizType string, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "type", vizType, "elapsed", d.Round(time.Microsecond), "err", err)
		return
	}
	h.logger.Debug("render done", "type", vizType, "formats", formats, "elapsed", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)

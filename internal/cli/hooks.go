package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tangent/pkg/observability"
)

// logHooks forwards library events to the debug log.
type logHooks struct {
	logger *log.Logger
}

// bindHooks registers logger-backed hooks for every event category.
func bindHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("hooks")}
	observability.SetSceneHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnInput(length int, level, maxChaos float64) {
	h.logger.Debug("input", "length", length, "level", level, "max", maxChaos)
}

func (h *logHooks) OnResize(width, height, typeSize float64) {
	h.logger.Debug("resize", "width", width, "height", height, "type_size", typeSize)
}

func (h *logHooks) OnFrame(glyphs, eroded int, d time.Duration) {
	h.logger.Debug("frame", "glyphs", glyphs, "eroded", eroded, "duration", d)
}

func (h *logHooks) OnRunStart(_ context.Context, runID string, inputs int) {
	h.logger.Debug("run start", "id", runID, "inputs", inputs)
}

func (h *logHooks) OnRunComplete(_ context.Context, runID string, frames int, d time.Duration, err error) {
	h.logger.Debug("run complete", "id", runID, "frames", frames, "duration", d, "err", err)
}

func (h *logHooks) OnEncodeStart(_ context.Context, formats []string) {
	h.logger.Debug("encode start", "formats", formats)
}

func (h *logHooks) OnEncodeComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("encode complete", "formats", formats, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnCacheError(_ context.Context, op string, err error) {
	h.logger.Debug("cache error", "op", op, "err", err)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *logHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Debug("request error", "method", method, "path", path, "err", err)
}

var (
	_ observability.SceneHooks    = (*logHooks)(nil)
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tangent/pkg/cache"
	"github.com/matzehuels/tangent/pkg/observability"
	"github.com/matzehuels/tangent/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the frame server use it to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; every run builds its own scene.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLArtifact,
	}
}

// Execute runs the complete replay → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	runID := uuid.NewString()
	frameCount := len(opts.Inputs) + 1
	res = &Result{RunID: runID}
	res.Stats.Frames = frameCount

	observability.Pipeline().OnRunStart(ctx, runID, len(opts.Inputs))
	defer func(start time.Time) {
		observability.Pipeline().OnRunComplete(ctx, runID, frameCount, time.Since(start), err)
	}(time.Now())

	keys, statsKey := r.artifactKeys(opts)

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, keys); ok {
			if sum, ok := r.lookupSummary(ctx, statsKey); ok {
				res.Artifacts = cached
				res.CacheHit = true
				sum.apply(&res.Stats)
				opts.Logger.Debug("served from cache", "artifacts", len(cached))
				return res, nil
			}
		}
	}

	// Stage 1: Replay
	var frames []render.Frame
	res.Stats.ReplayTime, err = measure(func() error {
		var err error
		frames, err = Replay(ctx, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	res.Frames = frames
	last := frames[len(frames)-1]
	sum := summarize(last)
	sum.apply(&res.Stats)

	opts.Logger.Info("replayed inputs",
		"frames", len(frames),
		"max_chaos", fmt.Sprintf("%.3f", last.Chaos.Max),
		"eroded", last.Stats.Eroded,
		"duration", res.Stats.ReplayTime)

	// Stage 2: Encode
	observability.Pipeline().OnEncodeStart(ctx, opts.Formats)
	enc := &encoder{opts: opts, runID: res.RunID}
	res.Stats.EncodeTime, err = measure(func() error {
		for _, k := range keys {
			data, err := enc.encode(ctx, frames, k.format, k.index)
			if err != nil {
				return fmt.Errorf("%s frame %d: %w", k.format, k.index, err)
			}
			res.Artifacts = append(res.Artifacts, Artifact{Format: k.format, Index: k.index, Data: data})
			r.store(ctx, k.key, data)
		}
		return nil
	})
	observability.Pipeline().OnEncodeComplete(ctx, opts.Formats, res.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	if data, err := json.Marshal(sum); err == nil {
		r.store(ctx, statsKey, data)
	}

	opts.Logger.Info("encoded outputs",
		"formats", opts.Formats,
		"artifacts", len(res.Artifacts),
		"duration", res.Stats.EncodeTime)

	return res, nil
}

// formatStats names the cached summary entry stored next to artifacts.
const formatStats = "stats"

type artifactKey struct {
	format string
	index  int
	key    string
}

// artifactKeys returns the key of every artifact the run produces, and the
// key of the last frame's summary.
func (r *Runner) artifactKeys(opts Options) ([]artifactKey, string) {
	paragraphHash := cache.Hash([]byte(opts.Paragraph.String()))
	var keys []artifactKey
	for _, i := range opts.frameIndexes() {
		frameKey := r.Keyer.FrameKey(paragraphHash, opts.FrameKeyOpts(i))
		for _, format := range opts.Formats {
			keys = append(keys, artifactKey{
				format: format,
				index:  i,
				key:    r.Keyer.ArtifactKey(frameKey, opts.ArtifactKeyOpts(format)),
			})
		}
	}
	last := r.Keyer.FrameKey(paragraphHash, opts.FrameKeyOpts(len(opts.Inputs)))
	return keys, r.Keyer.ArtifactKey(last, cache.ArtifactKeyOpts{Format: formatStats})
}

// summary holds the last-frame statistics that are not recoverable from
// encoded artifacts.
type summary struct {
	Glyphs   int     `json:"glyphs"`
	Eroded   int     `json:"eroded"`
	MaxChaos float64 `json:"max_chaos"`
}

func summarize(f render.Frame) summary {
	return summary{Glyphs: len(f.Glyphs), Eroded: f.Stats.Eroded, MaxChaos: f.Chaos.Max}
}

func (s summary) apply(st *Stats) {
	st.Glyphs = s.Glyphs
	st.Eroded = s.Eroded
	st.MaxChaos = s.MaxChaos
}

// lookupSummary reads the cached summary. A corrupt entry is a miss.
func (r *Runner) lookupSummary(ctx context.Context, key string) (summary, bool) {
	var s summary
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, "get", err)
		r.Logger.Warn("cache read failed", "err", err)
		return s, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, formatStats)
		return s, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		r.Logger.Warn("discarding corrupt cache entry", "key", key, "err", err)
		return s, false
	}
	observability.Cache().OnCacheHit(ctx, formatStats)
	return s, true
}

// lookup returns the cached artifacts if every key hits.
func (r *Runner) lookup(ctx context.Context, keys []artifactKey) ([]Artifact, bool) {
	out := make([]Artifact, 0, len(keys))
	for _, k := range keys {
		data, hit, err := r.Cache.Get(ctx, k.key)
		if err != nil {
			observability.Cache().OnCacheError(ctx, "get", err)
			r.Logger.Warn("cache read failed", "err", err)
			return nil, false
		}
		if !hit {
			observability.Cache().OnCacheMiss(ctx, k.format)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, k.format)
		out = append(out, Artifact{Format: k.format, Index: k.index, Data: data})
	}
	return out, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		observability.Cache().OnCacheError(ctx, "set", err)
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

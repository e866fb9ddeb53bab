package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tangent/pkg/buildinfo"
	"github.com/matzehuels/tangent/pkg/cache"
	"github.com/matzehuels/tangent/pkg/config"
	"github.com/matzehuels/tangent/pkg/httputil"
	"github.com/matzehuels/tangent/pkg/paragraph"
	"github.com/matzehuels/tangent/pkg/pipeline"
)

const (
	serveRequestTimeout  = 30 * time.Second
	serveShutdownTimeout = 10 * time.Second
	serveKeyPrefix       = "tangent:serve:"
)

// serveCommand creates the HTTP frame server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		redisAddr     string
		paragraphPath string
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered frames over HTTP",
		Long: `Serve starts an HTTP server that replays input lengths on request.

  GET /healthz
  GET /frame/{format}?inputs=40,120&width=1200&height=1000&seed=42

Each request builds a fresh scene, so responses are deterministic for the
same query. Artifacts are cached in Redis when --redis is set, otherwise in
the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadParagraph(paragraphPath)
			if err != nil {
				return err
			}

			addr = or(addr, c.Config.Serve.Addr)
			redisAddr = or(redisAddr, c.Config.Serve.RedisAddr)

			runner, err := c.newServeRunner(ctx, redisAddr, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newFrameHandler(runner, p, c.Config, c.Logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return serve(ctx, srv, c.Logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the artifact cache")
	cmd.Flags().StringVar(&paragraphPath, "paragraph", "", "paragraph text file (default: built-in paragraph)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// newServeRunner picks Redis when an address is given, else the file cache.
func (c *CLI) newServeRunner(ctx context.Context, redisAddr string, noCache bool) (*pipeline.Runner, error) {
	if noCache || redisAddr == "" {
		return c.newRunner(noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     redisAddr,
		Password: c.Config.Serve.RedisPassword,
		DB:       c.Config.Serve.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", redisAddr)
	r := pipeline.NewRunner(rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), serveKeyPrefix), c.Logger)
	r.TTL = cache.TTLServe
	return r, nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}

// frameHandler serves frames rendered by a shared runner.
type frameHandler struct {
	runner    *pipeline.Runner
	paragraph paragraph.Paragraph
	config    config.Config
	logger    *log.Logger
}

// newFrameHandler returns the router for the frame server.
func newFrameHandler(runner *pipeline.Runner, p paragraph.Paragraph, cfg config.Config, logger *log.Logger) http.Handler {
	h := &frameHandler{runner: runner, paragraph: p, config: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httputil.Observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(serveRequestTimeout))

	r.Get("/healthz", h.health)
	r.Get("/frame/{format}", h.frame)
	return r
}

func (h *frameHandler) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (h *frameHandler) frame(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.runner.Execute(r.Context(), opts)
	if err != nil {
		h.logger.Warn("frame failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
		httputil.WriteError(w, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Frame-Id", res.RunID)
	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifact(format).Data)
}

// options builds pipeline options from the route and query parameters.
func (h *frameHandler) options(r *http.Request) (pipeline.Options, error) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	inputs, err := httputil.QueryInts(r, "inputs")
	if err != nil {
		return pipeline.Options{}, err
	}
	width, err := httputil.QueryFloat(r, "width")
	if err != nil {
		return pipeline.Options{}, err
	}
	height, err := httputil.QueryFloat(r, "height")
	if err != nil {
		return pipeline.Options{}, err
	}
	seed, err := httputil.QueryUint(r, "seed")
	if err != nil {
		return pipeline.Options{}, err
	}
	scale, err := httputil.QueryFloat(r, "scale")
	if err != nil {
		return pipeline.Options{}, err
	}

	cfg := h.config
	return pipeline.Options{
		Inputs:    inputs,
		Width:     width,
		Height:    height,
		Seed:      seed,
		Scale:     scale,
		Formats:   []string{format},
		Refresh:   r.URL.Query().Has("refresh"),
		Paragraph: h.paragraph,
		Config:    &cfg,
		Logger:    h.logger,
	}, nil
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

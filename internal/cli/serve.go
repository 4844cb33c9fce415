package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

const (
	defaultAddr       = ":8080"
	generateTimeout   = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
	headerRunID       = "X-Run-ID"
	headerCacheStatus = "X-Cache"
)

// serveCommand creates the serve command, which regenerates the diagram of
// a project on every request.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Serve live architecture diagrams over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			if err := errors.ValidateProjectRoot(root); err != nil {
				return err
			}
			cfg, err := c.loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cache") || cfg.Cache.Backend == "" || cfg.Cache.Backend == cache.BackendFile {
				cfg.Cache.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			cc, err := cache.Open(cfg.CacheSettings())
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "open %s cache", cfg.Cache.Backend)
			}
			opts := cfg.PipelineOptions()
			prefix := "project:" + opts.ResolveProjectName(root) + ":"
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, prefix), c.Logger)
			runner.TTL = cfg.CacheTTL()
			defer runner.Close()

			metrics := observability.NewMetrics()
			metrics.Install()

			srv := newDiagramServer(root, opts, runner, metrics, c.Logger)
			newPrinter(cmd.OutOrStdout()).info("Serving %s at %s", opts.ResolveProjectName(root), StyleLink.Render(serverURL(addr)+"/diagram.svg"))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&backend, "cache", cache.BackendMemory, "cache backend: memory, redis or none")
	_ = cmd.RegisterFlagCompletionFunc("cache", fixedValues(cache.BackendMemory, cache.BackendRedis, cache.BackendNone))
	return cmd
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// =============================================================================
// diagramServer
// =============================================================================

// diagramServer serves the diagram, graph and layout of one project root.
// Concurrent requests for the same variant share a single pipeline run.
type diagramServer struct {
	root    string
	opts    pipeline.Options
	runner  *pipeline.Runner
	metrics *observability.Metrics
	logger  *log.Logger
	group   singleflight.Group
}

func newDiagramServer(root string, opts pipeline.Options, runner *pipeline.Runner, metrics *observability.Metrics, logger *log.Logger) *diagramServer {
	return &diagramServer{
		root:    root,
		opts:    opts,
		runner:  runner,
		metrics: metrics,
		logger:  logger,
	}
}

// Routes builds the chi router.
func (s *diagramServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/diagram.svg", http.StatusFound)
	})
	r.Get("/diagram.svg", s.handleDiagram)
	r.Get("/graph.json", s.handleGraph)
	r.Get("/layout.json", s.handleLayout)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildinfo.Get())
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *diagramServer) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      generateTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving diagrams", "addr", addr, "root", s.root)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *diagramServer) handleDiagram(w http.ResponseWriter, r *http.Request) {
	res, ok := s.result(w, r)
	if !ok {
		return
	}
	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set(headerCacheStatus, cacheStatus)
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(res.SVG)
}

func (s *diagramServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	res, ok := s.result(w, r)
	if !ok {
		return
	}
	data, err := graph.MarshalGraph(res.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *diagramServer) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, ok := s.result(w, r)
	if !ok {
		return
	}
	data, err := graph.MarshalLayout(res.Layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// result runs the pipeline for the request's query options and writes an
// error response when it fails.
func (s *diagramServer) result(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	key := fmt.Sprintf("animate=%t refresh=%t", opts.AnimateEnabled(), opts.Refresh)

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Shared by every waiting request, so it must outlive the first one.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), generateTimeout)
		defer cancel()
		return s.runner.Execute(ctx, s.root, opts)
	})
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	res := v.(*pipeline.Result)
	if shared {
		s.logger.Debug("shared pipeline run", "run", res.RunID, "key", key)
	}
	w.Header().Set(headerRunID, res.RunID)
	w.Header().Set("Cache-Control", "no-cache")
	return res, true
}

// requestOptions applies ?animate= and ?refresh= to the configured options.
func (s *diagramServer) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()
	if v := q.Get("animate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid animate value %q", v)
		}
		opts.Animate = pipeline.Bool(b)
	}
	if v := q.Get("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid refresh value %q", v)
		}
		opts.Refresh = b
	}
	return opts, nil
}

func (s *diagramServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// instrument reports every request to the registered HTTP hooks, labelled
// by its chi route pattern.
func (s *diagramServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

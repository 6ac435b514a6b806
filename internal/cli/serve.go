package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tangleguard/layered/pkg/cache"
	apperrors "github.com/tangleguard/layered/pkg/errors"
	"github.com/tangleguard/layered/pkg/gallery"
	"github.com/tangleguard/layered/pkg/graph"
	"github.com/tangleguard/layered/pkg/pipeline"
	"github.com/tangleguard/layered/pkg/render/svg"
)

const defaultServeAddr = ":8080"

// newServeCmd creates the serve command exposing the layout pipeline over
// HTTP.
func newServeCmd(configPath *string) *cobra.Command {
	var (
		addr        string
		redisAddr   string
		cachePrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline as an HTTP API",
		Long: `Serve the layout pipeline as an HTTP API.

Endpoints:
  POST /api/v1/layout           compute a layout for a posted graph
  GET  /api/v1/examples         list the built-in example graphs
  GET  /api/v1/examples/{name}  lay out one example
  GET  /healthz                 liveness probe

With --redis, computed layouts are cached in redis so several instances
share one cache; otherwise layouts are recomputed per request. When
deployments or tenants share one redis instance, give each a --cache-prefix
(e.g. "tenant-a:") so their entries stay isolated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				addr = cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("redis") && cfg.Serve.Redis != "" {
				redisAddr = cfg.Serve.Redis
			}
			if !cmd.Flags().Changed("cache-prefix") && cfg.Serve.CachePrefix != "" {
				cachePrefix = cfg.Serve.CachePrefix
			}
			return runServe(cmd, addr, redisAddr, cachePrefix)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (host:port) for shared layout caching")
	cmd.Flags().StringVar(&cachePrefix, "cache-prefix", "", "namespace prefix for cache keys on a shared backend")

	return cmd
}

func runServe(cmd *cobra.Command, addr, redisAddr, cachePrefix string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	var store cache.Cache
	if redisAddr != "" {
		var err error
		if store, err = cache.NewRedisCache(ctx, redisAddr); err != nil {
			return fmt.Errorf("connect redis %s: %w", redisAddr, err)
		}
		logger.Info("redis cache connected", "addr", redisAddr)
	}

	var keyer cache.Keyer
	if cachePrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cachePrefix)
		logger.Info("cache keys scoped", "prefix", cachePrefix)
	}

	runner := pipeline.NewRunner(store, keyer)
	defer runner.Close()

	srv := &server{runner: runner, logger: logger}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	logger.Info("listening", "addr", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// server holds the shared state of the HTTP API.
type server struct {
	runner *pipeline.Runner
	logger *charmlog.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/examples", s.handleListExamples)
		r.Get("/examples/{name}", s.handleExample)
	})
	return r
}

// requestID tags every request with a UUID, echoed in the response headers
// and the access log.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Millisecond),
			"id", w.Header().Get("X-Request-Id"))
	})
}

// layoutRequest is the POST /api/v1/layout body.
type layoutRequest struct {
	Graph   graph.File       `json:"graph"`
	Options pipeline.Options `json:"options"`
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	g, err := graph.ToGraph(req.Graph)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "build graph"))
		return
	}

	s.respondWithLayout(w, r, g, req.Options)
}

func (s *server) handleListExamples(w http.ResponseWriter, _ *http.Request) {
	type item struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	items := make([]item, 0)
	for _, ex := range gallery.Examples() {
		items = append(items, item{Name: ex.Name, Description: ex.Description})
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *server) handleExample(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ex, ok := gallery.Lookup(name)
	if !ok {
		s.writeError(w, apperrors.New(apperrors.ErrCodeNotFound, "unknown example %q", name))
		return
	}

	opts := pipeline.Options{Format: r.URL.Query().Get("format")}
	s.respondWithLayout(w, r, ex.Build(), opts)
}

// respondWithLayout runs the pipeline and writes the result as JSON or SVG
// depending on the requested format.
func (s *server) respondWithLayout(w http.ResponseWriter, r *http.Request, g *graph.Graph, opts pipeline.Options) {
	format := opts.Format
	if format == "" {
		format = pipeline.FormatJSON
	}
	if format != pipeline.FormatJSON && format != pipeline.FormatSVG {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidFormat, "format %q not served (use json or svg)", format))
		return
	}

	opts.Logger = s.logger
	l, _, err := s.runner.ComputeLayout(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == pipeline.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg.Render(&l.Result))
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps structured error codes onto HTTP statuses.
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidOption, apperrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	body := map[string]string{"error": err.Error()}
	if code := apperrors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	s.writeJSON(w, status, body)
}

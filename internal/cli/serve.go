package cli

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/pipeline"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		source   string
		settings cacheSettings
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ridge-line SVGs over HTTP",
		Long: `Serve ridge-line SVGs over HTTP.

Exposes GET /skyline.svg, taking the same parameters as 'generate' as query
parameters:

  curl 'localhost:8080/skyline.svg?lng1=6.7&lat1=45.7&lng2=7.1&lat2=46.0&viewpoint=east'

The elevation source is fixed with --source at startup and cannot be changed
per request. A shared cache backend (redis or mongo) lets multiple instances
reuse each other's sampled grids.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, settings)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.serve(cmd.Context(), addr, source, runner)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&source, "source", pipeline.SourceTerrarium, "elevation source served: terrarium, hgt:<dir>, zero")
	settings.registerCacheFlags(cmd)

	return cmd
}

// serve runs the HTTP server until the context is cancelled.
func (c *CLI) serve(ctx context.Context, addr, source string, runner *pipeline.Runner) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger := c.Logger.With("request", middleware.GetReqID(req.Context()))
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), logger)))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/skyline.svg", c.handleSkyline(runner, source))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleSkyline renders a scene from query parameters. The elevation source
// is the one configured at startup: honoring a source from the query would
// let remote callers read arbitrary local directories through hgt paths.
func (c *CLI) handleSkyline(runner *pipeline.Runner, source string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logger := loggerFromContext(req.Context())

		opts, err := optionsFromQuery(req)
		if err != nil {
			http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
			return
		}
		switch opts.Source {
		case "", source:
			opts.Source = source
		case pipeline.SourceZero:
			// Harmless; useful for probing a deployment offline.
		default:
			http.Error(w, "elevation source is fixed at server startup", http.StatusBadRequest)
			return
		}
		opts.Logger = logger

		start := time.Now()
		result, err := runner.Execute(req.Context(), opts)
		if err != nil {
			if req.Context().Err() != nil {
				return // client went away
			}
			logger.Error("render failed", "error", err)
			status := http.StatusInternalServerError
			if errors.IsConfig(err) || errors.Is(err, errors.ErrCodeDegenerateExtent) {
				status = http.StatusBadRequest
			}
			http.Error(w, errors.UserMessage(err), status)
			return
		}

		logger.Info("rendered",
			"run", result.RunID,
			"strokes", result.Stats.StrokeCount,
			"grid_cached", result.CacheInfo.GridHit,
			"duration", time.Since(start).Round(time.Millisecond))

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Ridgemap-Run", result.RunID)
		_, _ = w.Write(result.SVG)
	}
}

// optionsFromQuery maps query parameters onto pipeline options. Unknown
// parameters are ignored; malformed values fail the request.
func optionsFromQuery(req *http.Request) (pipeline.Options, error) {
	q := req.URL.Query()
	var opts pipeline.Options
	var err error

	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"lng1", &opts.Lng1}, {"lat1", &opts.Lat1},
		{"lng2", &opts.Lng2}, {"lat2", &opts.Lat2},
		{"ratio", &opts.VerticalRatio},
		{"water", &opts.WaterMeters},
		{"lake_smooth", &opts.LakeSmooth},
		{"line_width", &opts.LineWidth},
	} {
		if v := q.Get(f.name); v != "" {
			if *f.dst, err = strconv.ParseFloat(v, 64); err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "bad value for %s: %q", f.name, v)
			}
		}
	}

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"rows", &opts.Rows}, {"cols", &opts.Cols},
		{"width", &opts.Width}, {"height", &opts.Height},
	} {
		if v := q.Get(f.name); v != "" {
			if *f.dst, err = strconv.Atoi(v); err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "bad value for %s: %q", f.name, v)
			}
		}
	}

	opts.Projection = q.Get("projection")
	opts.Viewpoint = q.Get("viewpoint")
	opts.Source = q.Get("source")
	opts.Background = q.Get("background")
	opts.LineColor = q.Get("line_color")

	return opts, nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"
	"github.com/google/uuid"

	"github.com/ridgemap/ridgemap/pkg/cache"
	"github.com/ridgemap/ridgemap/pkg/elevation"
	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/geo"
	"github.com/ridgemap/ridgemap/pkg/render"
	"github.com/ridgemap/ridgemap/pkg/skyline"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete sample → geometry → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Sample
	sampleStart := time.Now()
	grid, gridHit, err := r.SampleWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.SampleTime = time.Since(sampleStart)
	result.Stats.Rows = grid.Rows()
	result.Stats.Cols = grid.Cols()
	result.CacheInfo.GridHit = gridHit

	opts.Logger.Info("sampled elevation grid",
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"cached", gridHit,
		"duration", result.Stats.SampleTime)

	// Stage 2: Geometry
	geomStart := time.Now()
	grid = skyline.Rotate(grid, opts.viewpoint)
	values, oneMeter := skyline.Normalize(grid, opts.VerticalRatio)
	result.OneMeter = oneMeter

	regions := skyline.Cull(values, opts.WaterMeters, oneMeter, skyline.CanvasSpan)
	regions = skyline.Flatten(regions, opts.LakeSmooth, oneMeter, skyline.CanvasSpan)

	scene := skyline.Assemble(regions, opts.Width, opts.Height,
		opts.Background, opts.LineColor, opts.LineWidth)
	result.Stats.GeometryTime = time.Since(geomStart)
	result.Stats.StrokeCount = len(scene.Strokes)
	for _, region := range regions {
		if region.Empty() {
			result.Stats.OccludedRows++
		}
	}

	opts.Logger.Info("computed geometry",
		"strokes", result.Stats.StrokeCount,
		"occluded_rows", result.Stats.OccludedRows,
		"duration", result.Stats.GeometryTime)

	// Stage 3: Render
	renderStart := time.Now()
	result.SVG = render.RenderSVG(scene)
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered scene",
		"bytes", len(result.SVG),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SampleWithCacheInfo resolves the elevation grid with caching and reports
// whether it came from the cache. The grid is sampled in the unrotated
// orientation; viewpoint rotation is the geometry stage's concern.
func (r *Runner) SampleWithCacheInfo(ctx context.Context, opts Options) (skyline.Grid, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := cache.GridKey(opts.GridKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var grid skyline.Grid
			if err := json.Unmarshal(data, &grid); err == nil && grid.Rows() == opts.Rows {
				return grid, true, nil // Cache hit
			}
			// Corrupt or stale entry: drop and resample.
			_ = r.Cache.Delete(ctx, cacheKey)
		}
	}

	grid, err := r.sample(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(grid); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGrid)
	}

	return grid, false, nil // Cache miss
}

// sample projects the bounding box corners into the working projection and
// fans out elevation lookups over the grid.
func (r *Runner) sample(ctx context.Context, opts Options) (skyline.Grid, error) {
	provider := opts.Provider
	if provider == nil {
		var err error
		if provider, err = r.buildProvider(opts.Source); err != nil {
			return nil, err
		}
	}

	pos1, err := geo.Convert(geo.NameLngLat, opts.Projection, geom.Point{X: opts.Lng1, Y: opts.Lat1})
	if err != nil {
		return nil, err
	}
	pos2, err := geo.Convert(geo.NameLngLat, opts.Projection, geom.Point{X: opts.Lng2, Y: opts.Lat2})
	if err != nil {
		return nil, err
	}

	toGeo, err := geo.NewTransform(opts.Projection, geo.NameLngLat)
	if err != nil {
		return nil, err
	}

	grid, err := skyline.Sample(ctx, provider, toGeo, pos1, pos2, opts.Rows, opts.Cols,
		skyline.SampleOptions{Progress: opts.Progress})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, err, "sample elevation grid")
	}
	return grid, nil
}

// buildProvider constructs the elevation backend for a source descriptor.
func (r *Runner) buildProvider(source string) (elevation.Provider, error) {
	switch {
	case source == SourceTerrarium:
		return elevation.NewTerrarium(r.Cache), nil
	case source == SourceZero:
		return elevation.Const(0), nil
	case strings.HasPrefix(source, SourceHGT+":"):
		return elevation.NewHGT(strings.TrimPrefix(source, SourceHGT+":")), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unknown elevation source: %q", source)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

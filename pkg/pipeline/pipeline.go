// Package pipeline provides the core rendering pipeline for Ridgemap.
//
// This package implements the complete sample → geometry → render pipeline
// shared by the CLI and the HTTP server. Centralizing it keeps behavior
// consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Sample: Resolve an elevation grid for the bounding box
//  2. Geometry: Normalize, occlude and flatten the grid into strokes
//  3. Render: Serialize the assembled scene to SVG
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Lng1: 6.8, Lat1: 45.7,
//	    Lng2: 7.1, Lat2: 46.0,
//	    Viewpoint: "south",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.SVG
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ridgemap/ridgemap/pkg/cache"
	"github.com/ridgemap/ridgemap/pkg/elevation"
	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/geo"
	"github.com/ridgemap/ridgemap/pkg/skyline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultRows is the number of ridge lines drawn front to back.
	DefaultRows = 60

	// DefaultCols is the number of samples along each ridge line.
	DefaultCols = 120

	// DefaultVerticalRatio is the vertical exaggeration applied to raw
	// elevations before layout.
	DefaultVerticalRatio = 40.0

	// DefaultWidth is the default output width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = 600

	// DefaultLineColor is the default stroke color.
	DefaultLineColor = "#1a1a1a"

	// DefaultLineWidth is the default stroke width in pixels.
	DefaultLineWidth = 1.2

	// DefaultBackground is the default background fill.
	DefaultBackground = "#ffffff"

	// DefaultProjection is the working projection for grid sampling.
	DefaultProjection = geo.NameWebMercator

	// DefaultViewpoint is the direction the scene is viewed from.
	DefaultViewpoint = string(skyline.ViewSouth)
)

// Source constants for elevation backends.
const (
	SourceTerrarium = "terrarium"
	SourceHGT       = "hgt"
	SourceZero      = "zero"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Bounding box corners in geographic coordinates. (Lng1, Lat1) is the
	// corner nearest a south viewer; rotation for the other viewpoints
	// happens after sampling.
	Lng1 float64 `json:"lng1"`
	Lat1 float64 `json:"lat1"`
	Lng2 float64 `json:"lng2"`
	Lat2 float64 `json:"lat2"`

	// Sampling options
	Projection string `json:"projection,omitempty"`
	Rows       int    `json:"rows,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	Source     string `json:"source,omitempty"` // terrarium, hgt:<dir>, zero
	Refresh    bool   `json:"refresh,omitempty"`

	// Geometry options
	Viewpoint     string  `json:"viewpoint,omitempty"`
	VerticalRatio float64 `json:"vertical_ratio,omitempty"`
	WaterMeters   float64 `json:"water_meters,omitempty"` // submerge below this elevation
	LakeSmooth    float64 `json:"lake_smooth,omitempty"`  // flatness threshold in meters, 0 disables

	// Render options
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Background string  `json:"background,omitempty"` // "none" for transparent
	LineColor  string  `json:"line_color,omitempty"`
	LineWidth  float64 `json:"line_width,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-"`
	Provider elevation.Provider   `json:"-"` // overrides Source when set
	Progress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	// viewpoint is the parsed form of Viewpoint, set during validation.
	viewpoint skyline.Viewpoint `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// SVG is the rendered document.
	SVG []byte

	// OneMeter is the derived canvas-units-per-meter scale; 0 for flat
	// terrain.
	OneMeter float64

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows         int
	Cols         int
	StrokeCount  int
	OccludedRows int
	SampleTime   time.Duration
	GeometryTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GridHit bool // Whether the sampled grid came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Lng1 == o.Lng2 && o.Lat1 == o.Lat2 {
		return errors.New(errors.ErrCodeDegenerateExtent,
			"bounding box corners are identical: (%g, %g)", o.Lng1, o.Lat1)
	}

	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	if _, err := geo.Resolve(o.Projection); err != nil {
		return err
	}

	if o.Viewpoint == "" {
		o.Viewpoint = DefaultViewpoint
	}
	vp, err := skyline.ParseViewpoint(o.Viewpoint)
	if err != nil {
		return err
	}
	o.viewpoint = vp

	if o.Source == "" {
		o.Source = SourceTerrarium
	}
	if err := validateSource(o.Source); err != nil {
		return err
	}

	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
	if o.Rows < 2 || o.Cols < 2 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid must be at least 2x2, got %dx%d", o.Rows, o.Cols)
	}

	if o.VerticalRatio == 0 {
		o.VerticalRatio = DefaultVerticalRatio
	}
	if o.VerticalRatio < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"vertical ratio must be positive, got %g", o.VerticalRatio)
	}
	if o.WaterMeters < 0 || o.LakeSmooth < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"water and lake thresholds must not be negative")
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 1 || o.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"output size must be positive, got %dx%d", o.Width, o.Height)
	}

	switch o.Background {
	case "":
		o.Background = DefaultBackground
	case "none":
		o.Background = ""
	}
	if o.LineColor == "" {
		o.LineColor = DefaultLineColor
	}
	if o.LineWidth == 0 {
		o.LineWidth = DefaultLineWidth
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// GridKeyOpts returns cache key options for the sampled grid. The viewpoint
// is deliberately excluded: the raw grid is viewpoint-independent, rotation
// happens after sampling.
func (o *Options) GridKeyOpts() cache.GridKeyOpts {
	return cache.GridKeyOpts{
		Lng1: o.Lng1, Lat1: o.Lat1,
		Lng2: o.Lng2, Lat2: o.Lat2,
		Projection: o.Projection,
		Rows:       o.Rows,
		Cols:       o.Cols,
		Source:     o.Source,
	}
}

// validateSource checks an elevation source descriptor.
func validateSource(source string) error {
	switch {
	case source == SourceTerrarium || source == SourceZero:
		return nil
	case strings.HasPrefix(source, SourceHGT+":"):
		if strings.TrimPrefix(source, SourceHGT+":") == "" {
			return errors.New(errors.ErrCodeInvalidSource, "hgt source needs a directory: hgt:<dir>")
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidSource,
		"unknown elevation source: %q (must be terrarium, hgt:<dir>, or zero)", source)
}

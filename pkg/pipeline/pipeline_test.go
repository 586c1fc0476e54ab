package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ridgemap/ridgemap/pkg/cache"
	"github.com/ridgemap/ridgemap/pkg/elevation"
	"github.com/ridgemap/ridgemap/pkg/errors"
)

// ridgeOptions returns options for a small offline run: a fixed provider,
// the identity projection, and a grid cheap enough for unit tests.
func ridgeOptions() Options {
	return Options{
		Lng1: 7.0, Lat1: 46.0,
		Lng2: 7.5, Lat2: 46.5,
		Projection: "lnglat",
		Rows:       4,
		Cols:       8,
		Provider: elevation.Func(func(lat, lng float64) (float64, error) {
			// A single bump in the middle of the box.
			return 1000 * (lat - 46.0) * (46.5 - lat) * 4, nil
		}),
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Lng1: 1, Lat1: 2, Lng2: 3, Lat2: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Rows != DefaultRows || opts.Cols != DefaultCols {
		t.Errorf("grid defaults = %dx%d", opts.Rows, opts.Cols)
	}
	if opts.Projection != DefaultProjection || opts.Viewpoint != DefaultViewpoint {
		t.Errorf("projection/viewpoint defaults = %q/%q", opts.Projection, opts.Viewpoint)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size defaults = %dx%d", opts.Width, opts.Height)
	}
	if opts.Source != SourceTerrarium {
		t.Errorf("source default = %q", opts.Source)
	}
	if opts.Logger == nil {
		t.Error("logger default not applied")
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Options)
		code errors.Code
	}{
		{"identical corners", func(o *Options) { o.Lng2, o.Lat2 = o.Lng1, o.Lat1 }, errors.ErrCodeDegenerateExtent},
		{"unknown projection", func(o *Options) { o.Projection = "sinusoidal" }, errors.ErrCodeInvalidProjection},
		{"unknown viewpoint", func(o *Options) { o.Viewpoint = "up" }, errors.ErrCodeInvalidViewpoint},
		{"unknown source", func(o *Options) { o.Source = "usgs" }, errors.ErrCodeInvalidSource},
		{"hgt without dir", func(o *Options) { o.Source = "hgt:" }, errors.ErrCodeInvalidSource},
		{"1xN grid", func(o *Options) { o.Rows = 1 }, errors.ErrCodeInvalidInput},
		{"negative ratio", func(o *Options) { o.VerticalRatio = -1 }, errors.ErrCodeInvalidInput},
		{"negative water", func(o *Options) { o.WaterMeters = -3 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ridgeOptions()
			tt.mut(&opts)
			err := opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil)
	result, err := runner.Execute(context.Background(), ridgeOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run ID")
	}
	if result.Stats.Rows != 4 || result.Stats.Cols != 8 {
		t.Errorf("stats grid = %dx%d, want 4x8", result.Stats.Rows, result.Stats.Cols)
	}
	if result.Stats.StrokeCount == 0 {
		t.Error("no strokes produced")
	}
	if result.OneMeter <= 0 {
		t.Errorf("oneMeter = %v, want > 0 for non-flat terrain", result.OneMeter)
	}

	svg := string(result.SVG)
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "<path") {
		t.Errorf("implausible SVG output:\n%s", svg)
	}
}

func TestExecuteGridCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil)
	defer runner.Close()

	var lookups atomic.Int64
	opts := ridgeOptions()
	opts.Provider = elevation.Func(func(lat, lng float64) (float64, error) {
		lookups.Add(1)
		return 100, nil
	})

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.GridHit {
		t.Error("first run should miss the grid cache")
	}
	after := lookups.Load()

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.GridHit {
		t.Error("second run should hit the grid cache")
	}
	if got := lookups.Load(); got != after {
		t.Errorf("second run resampled: %d extra lookups", got-after)
	}

	// Refresh bypasses the cached grid.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.GridHit {
		t.Error("refresh run should not report a cache hit")
	}
	if lookups.Load() == after {
		t.Error("refresh run should resample")
	}
}

func TestExecuteViewpointsAgree(t *testing.T) {
	// Same terrain viewed from all four directions must always produce a
	// drawable scene; the grid cache key is shared since the raw grid is
	// viewpoint-independent.
	runner := NewRunner(cache.NewNullCache(), nil)
	for _, vp := range []string{"south", "east", "north", "west"} {
		opts := ridgeOptions()
		opts.Viewpoint = vp
		result, err := runner.Execute(context.Background(), opts)
		if err != nil {
			t.Fatalf("Execute(%s): %v", vp, err)
		}
		if result.Stats.StrokeCount == 0 {
			t.Errorf("viewpoint %s produced no strokes", vp)
		}
	}
}

func TestBuildProvider(t *testing.T) {
	runner := NewRunner(nil, nil)

	if _, err := runner.buildProvider(SourceTerrarium); err != nil {
		t.Errorf("terrarium: %v", err)
	}
	if _, err := runner.buildProvider("hgt:" + t.TempDir()); err != nil {
		t.Errorf("hgt: %v", err)
	}
	p, err := runner.buildProvider(SourceZero)
	if err != nil {
		t.Fatalf("zero: %v", err)
	}
	if v, _ := p.Lookup(context.Background(), 46, 7); v != 0 {
		t.Errorf("zero source returned %v", v)
	}
	if _, err := runner.buildProvider("dem"); err == nil {
		t.Error("unknown source should fail")
	}
}

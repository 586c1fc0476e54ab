package skyline

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/ctessum/geom"

	"github.com/ridgemap/ridgemap/pkg/elevation"
	"github.com/ridgemap/ridgemap/pkg/errors"
)

// identityGeo maps projected coordinates straight back to lng/lat.
func identityGeo(x, y float64) (float64, float64, error) {
	return x, y, nil
}

func TestSampleFillsGrid(t *testing.T) {
	// Provider encodes the looked-up position so the test can verify each
	// cell resolved the right coordinate.
	src := elevation.Func(func(lat, lng float64) (float64, error) {
		return lat*10 + lng, nil
	})

	grid, err := Sample(context.Background(), src, identityGeo,
		geom.Point{X: 0, Y: 0}, geom.Point{X: 4, Y: 3}, 3, 4, SampleOptions{})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if grid.Rows() != 3 || grid.Cols() != 4 {
		t.Fatalf("grid dims = %dx%d, want 3x4", grid.Rows(), grid.Cols())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			want := float64(i)*10 + float64(j)
			if grid[i][j] != want {
				t.Errorf("grid[%d][%d] = %v, want %v", i, j, grid[i][j], want)
			}
		}
	}
}

func TestSampleFailedLookupsDegradeToZero(t *testing.T) {
	src := elevation.Func(func(lat, lng float64) (float64, error) {
		if lng >= 1 {
			return 0, elevation.ErrNoData
		}
		return 42, nil
	})

	grid, err := Sample(context.Background(), src, identityGeo,
		geom.Point{X: 0, Y: 0}, geom.Point{X: 3, Y: 1}, 1, 3, SampleOptions{})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	want := Grid{{42, 0, 0}}
	for j, v := range want[0] {
		if grid[0][j] != v {
			t.Errorf("grid[0][%d] = %v, want %v", j, grid[0][j], v)
		}
	}
}

func TestSampleProgress(t *testing.T) {
	src := elevation.Const(100)

	var calls atomic.Int64
	var sawTotal atomic.Bool
	opts := SampleOptions{
		Concurrency: 4,
		Progress: func(done, total int) {
			calls.Add(1)
			if done == total {
				sawTotal.Store(true)
			}
			if total != 6 {
				t.Errorf("total = %d, want 6", total)
			}
		},
	}

	if _, err := Sample(context.Background(), src, identityGeo,
		geom.Point{X: 0, Y: 0}, geom.Point{X: 3, Y: 2}, 2, 3, opts); err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if got := calls.Load(); got != 6 {
		t.Errorf("progress called %d times, want 6", got)
	}
	if !sawTotal.Load() {
		t.Error("progress never reported done == total")
	}
}

func TestSampleCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := elevation.Const(0)
	_, err := Sample(ctx, src, identityGeo,
		geom.Point{X: 0, Y: 0}, geom.Point{X: 10, Y: 10}, 10, 10, SampleOptions{})
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestSampleBadTransform(t *testing.T) {
	// A failing coordinate transform degrades the cell like a failed lookup;
	// the batch itself still succeeds.
	badGeo := func(x, y float64) (float64, float64, error) {
		return 0, 0, errors.New(errors.ErrCodeInternal, "projection blew up")
	}
	src := elevation.Const(7)

	grid, err := Sample(context.Background(), src, badGeo,
		geom.Point{X: 0, Y: 0}, geom.Point{X: 2, Y: 2}, 2, 2, SampleOptions{})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for i := range grid {
		for j := range grid[i] {
			if grid[i][j] != 0 {
				t.Errorf("grid[%d][%d] = %v, want 0", i, j, grid[i][j])
			}
		}
	}
}

package skyline

import (
	"context"
	"sync/atomic"

	"github.com/ctessum/geom"
	"golang.org/x/sync/errgroup"

	"github.com/ridgemap/ridgemap/pkg/elevation"
	"github.com/ridgemap/ridgemap/pkg/geo"
)

// DefaultSampleConcurrency bounds the elevation lookup fan-out.
const DefaultSampleConcurrency = 32

// SampleOptions tunes grid sampling.
type SampleOptions struct {
	// Concurrency limits parallel elevation lookups. Zero means
	// DefaultSampleConcurrency.
	Concurrency int

	// Progress, if set, is called after each resolved cell with the number of
	// completed cells and the total. It may be called from multiple
	// goroutines.
	Progress func(done, total int)
}

// Sample produces a rows x cols elevation grid spanning the projected
// bounding box corners pos1 and pos2. Each cell position is converted back to
// geographic coordinates with toGeo and resolved against src.
//
// All lookups are independent and run concurrently. A cell whose lookup
// fails, including elevation.ErrNoData, degrades to zero elevation rather
// than failing the batch; only context cancellation aborts sampling.
func Sample(ctx context.Context, src elevation.Provider, toGeo geo.Transform, pos1, pos2 geom.Point, rows, cols int, opts SampleOptions) (Grid, error) {
	if rows <= 0 || cols <= 0 {
		return Grid{}, nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultSampleConcurrency
	}

	xStep := (pos2.X - pos1.X) / float64(cols)
	yStep := (pos2.Y - pos1.Y) / float64(rows)

	grid := make(Grid, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
	}

	total := rows * cols
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				x := pos1.X + xStep*float64(j)
				y := pos1.Y + yStep*float64(i)

				lng, lat, err := toGeo(x, y)
				if err == nil {
					var v float64
					if v, err = src.Lookup(ctx, lat, lng); err == nil {
						grid[i][j] = v
					}
				}
				// Any per-cell failure leaves the zero value in place.

				if opts.Progress != nil {
					opts.Progress(int(done.Add(1)), total)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return grid, nil
}

// Package elevation provides point elevation lookups from several backends.
//
// All backends implement the Provider interface. A lookup that cannot be
// resolved (missing tile, void sample, out-of-coverage point) returns
// ErrNoData; callers decide how to degrade. The grid sampler substitutes zero
// elevation, so a missing tile leaves a flat spot instead of failing a render.
//
// # Backends
//
//   - Terrarium: AWS terrain tiles over HTTP, cached via pkg/cache
//   - HGT: local directory of SRTM .hgt tiles
//   - Const / Func: fixed or computed elevations for tests and offline use
package elevation

import (
	"context"
	"errors"
)

// ErrNoData is returned when no elevation sample exists for a point.
var ErrNoData = errors.New("no elevation data")

// Provider resolves the elevation in meters at a geographic point.
// Implementations must be safe for concurrent use: the grid sampler issues
// lookups from many goroutines at once.
type Provider interface {
	Lookup(ctx context.Context, lat, lng float64) (float64, error)
}

// Const is a Provider returning the same elevation everywhere.
type Const float64

// Lookup returns the constant elevation.
func (c Const) Lookup(ctx context.Context, lat, lng float64) (float64, error) {
	return float64(c), nil
}

// Func adapts a plain function to the Provider interface.
type Func func(lat, lng float64) (float64, error)

// Lookup invokes the wrapped function.
func (f Func) Lookup(ctx context.Context, lat, lng float64) (float64, error) {
	return f(lat, lng)
}

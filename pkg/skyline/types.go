package skyline

import (
	"github.com/ctessum/geom"

	"github.com/ridgemap/ridgemap/pkg/errors"
)

// CanvasSpan is the extent of the working canvas on both axes. All geometry
// between normalization and assembly lives in this space.
const CanvasSpan = 100.0

// Grid is a rectangular matrix of elevation samples in meters.
// Row 0 is the first sampled row; after rotation it is the row nearest the
// viewer.
type Grid [][]float64

// Rows returns the number of rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns, 0 for an empty grid.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Viewpoint is the cardinal direction the scene is viewed from.
type Viewpoint string

// Supported viewpoints.
const (
	ViewSouth Viewpoint = "south"
	ViewWest  Viewpoint = "west"
	ViewNorth Viewpoint = "north"
	ViewEast  Viewpoint = "east"
)

// ParseViewpoint validates a viewpoint string.
func ParseViewpoint(s string) (Viewpoint, error) {
	switch Viewpoint(s) {
	case ViewSouth, ViewWest, ViewNorth, ViewEast:
		return Viewpoint(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidViewpoint, "viewpoint must be one of south, west, north, east (got %q)", s)
}

// turns returns the number of clockwise quarter-turns that bring the
// viewpoint's near edge to row 0.
func (v Viewpoint) turns() int {
	switch v {
	case ViewEast:
		return 1
	case ViewNorth:
		return 2
	case ViewWest:
		return 3
	}
	return 0
}

// CanvasPoint is one grid cell in canvas space. Y is the ridge-line height,
// BaseY the height the cell would have at zero elevation. Y <= BaseY since
// smaller y is higher on the page.
type CanvasPoint struct {
	X     float64
	Y     float64
	BaseY float64
}

// Region is the visible remainder of one row's silhouette after occlusion.
// Zero parts means the row is fully occluded; multiple parts appear when a
// nearer ridge punches through the middle of a farther one. Each part is a
// single-ring polygon.
type Region struct {
	Parts []geom.Polygon
}

// Empty reports whether nothing of the row remains visible.
func (r Region) Empty() bool { return len(r.Parts) == 0 }

// Stroke is an ordered left-to-right point sequence tracing one visible
// ridge-line segment.
type Stroke []geom.Point

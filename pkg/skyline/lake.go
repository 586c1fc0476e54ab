package skyline

import (
	"math"

	"github.com/ctessum/geom"
)

// Flatten removes near-flat stretches (lakes, rivers, plains) from each
// region's top boundary. A boundary point is flat when its height differs
// from its single neighbor's by less than thresholdMeters of elevation; each
// maximal flat run is cut out of the region by subtracting a full-height
// band over the run's x-range, leaving a visible gap rather than a filled-in
// flat segment.
//
// Each disjoint part is handled independently, and parts are re-split
// afterwards since the subtraction can change the part count. A zero
// threshold (or a flat grid, where oneMeter is 0) disables flattening.
func Flatten(regions []Region, thresholdMeters, oneMeter, height float64) []Region {
	if thresholdMeters <= 0 || oneMeter <= 0 {
		return regions
	}
	tol := thresholdMeters * oneMeter

	out := make([]Region, len(regions))
	for i, region := range regions {
		var parts []geom.Polygon
		for _, part := range region.Parts {
			flattened := flattenPart(part, tol, height)
			parts = append(parts, flattened.Parts...)
		}
		out[i] = Region{Parts: parts}
	}
	return out
}

// flattenPart cuts the flat runs out of a single-ring part.
func flattenPart(part geom.Polygon, tol, height float64) Region {
	top := ExtractTop(part[0])
	if len(top) < 2 {
		return Region{Parts: []geom.Polygon{part}}
	}

	// Each point is compared against one neighbor only: the next point, or
	// the previous one for the last point. Interior points deliberately do
	// not check both sides.
	flat := make([]bool, len(top))
	for i := range top {
		n := i + 1
		if i == len(top)-1 {
			n = i - 1
		}
		flat[i] = math.Abs(top[n].Y-top[i].Y) < tol
	}

	// Collect transition boundaries. Starting flat puts an implicit boundary
	// at index 0; an odd count is closed with the last point so boundaries
	// always pair up into (start, end) runs.
	var bounds []int
	prev := false
	for i, f := range flat {
		if f != prev {
			bounds = append(bounds, i)
			prev = f
		}
	}
	if len(bounds)%2 == 1 {
		bounds = append(bounds, len(top)-1)
	}

	result := part
	for k := 0; k+1 < len(bounds); k += 2 {
		x0, x1 := top[bounds[k]].X, top[bounds[k+1]].X
		if x1 <= x0 {
			continue
		}
		band := rect(x0, x1, -bandOvershoot, height+bandOvershoot)
		result = asPolygon(result.Difference(band))
		if len(result) == 0 {
			break
		}
	}
	return splitParts(result)
}

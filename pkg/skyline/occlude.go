package skyline

import (
	"math"

	"github.com/ctessum/geom"
)

// minPartArea is the area below which a boolean-operation remainder is
// considered collapsed and dropped. Keeps floating noise slivers out of the
// stroke extraction.
const minPartArea = 1e-7

// bandOvershoot widens subtraction rectangles past the canvas edges so the
// boolean difference cleanly severs geometry touching the border.
const bandOvershoot = 1.0

// Silhouette builds the filled occlusion polygon for one row: the ridge
// points left to right, closed through two corners on the canvas bottom.
// The resulting ring is clockwise in the y-down canvas.
func Silhouette(row []CanvasPoint, height float64) geom.Polygon {
	ring := make([]geom.Point, 0, len(row)+2)
	for _, p := range row {
		ring = append(ring, geom.Point{X: p.X, Y: p.Y})
	}
	first, last := row[0], row[len(row)-1]
	ring = append(ring,
		geom.Point{X: last.X, Y: height},
		geom.Point{X: first.X, Y: height},
	)
	return geom.Polygon{ring}
}

// Cull computes each row's visible region. Rows must be ordered farthest
// first (Normalize's output order). For row i every strictly nearer row j>i
// is subtracted from its silhouette; only the original silhouettes of the
// nearer rows matter, never their culled remainders, so the subtraction for
// each row is independent of its siblings' results.
//
// If waterMeters > 0 a full-width band whose top edge sits waterMeters above
// each row's baseline cutoff is also subtracted, submerging the bottom of
// the row. The resulting region may be empty, one part, or several disjoint
// parts.
func Cull(values [][]CanvasPoint, waterMeters, oneMeter, height float64) []Region {
	silhouettes := make([]geom.Polygon, len(values))
	for i, row := range values {
		silhouettes[i] = Silhouette(row, height)
	}

	regions := make([]Region, len(values))
	for i := range values {
		visible := silhouettes[i]
		for j := i + 1; j < len(values) && len(visible) > 0; j++ {
			visible = asPolygon(visible.Difference(silhouettes[j]))
		}

		if waterMeters > 0 && len(visible) > 0 {
			waterTop := values[i][0].BaseY - oneMeter*waterMeters
			water := rect(-bandOvershoot, CanvasSpan+bandOvershoot, waterTop, height+bandOvershoot)
			visible = asPolygon(visible.Difference(water))
		}

		regions[i] = splitParts(visible)
	}
	return regions
}

// asPolygon collapses a boolean-operation result to a concrete polygon. The
// clipper hands results back behind the Polygonal interface, either a Polygon
// or a MultiPolygon; all rings are concatenated into one Polygon, since
// splitParts separates disjoint parts again anyway.
func asPolygon(p geom.Polygonal) geom.Polygon {
	switch v := p.(type) {
	case geom.Polygon:
		return v
	case geom.MultiPolygon:
		var out geom.Polygon
		for _, poly := range v {
			out = append(out, poly...)
		}
		return out
	}
	return nil
}

// rect builds a clockwise rectangle covering [x0,x1] x [y0,y1].
func rect(x0, x1, y0, y1 float64) geom.Polygon {
	return geom.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}}
}

// splitParts breaks a possibly compound polygon into one single-ring part
// per non-degenerate ring. Zero-area remainders disappear here, which is how
// a fully collapsed row becomes "no visible stroke" instead of an error.
//
// The clipper emits hole rings with the same winding as outer rings, so
// nesting is the only way to tell them apart: a ring lying inside a sibling
// ring is a hole and carries no top boundary of its own. Silhouettes and
// subtraction bands all reach past the canvas bottom, which keeps holes out
// of the subtraction results today, but rings are checked anyway.
func splitParts(p geom.Polygon) Region {
	var rings [][]geom.Point
	for _, ring := range p {
		if len(ring) < 3 {
			continue
		}
		if math.Abs(ringArea(ring)) < minPartArea {
			continue
		}
		rings = append(rings, ring)
	}

	var parts []geom.Polygon
	for i, ring := range rings {
		hole := false
		for j, other := range rings {
			if j != i && ringContains(other, ring[0]) {
				hole = true
				break
			}
		}
		if !hole {
			parts = append(parts, geom.Polygon{ring})
		}
	}
	return Region{Parts: parts}
}

// ringContains reports whether p lies strictly inside the ring, by even-odd
// ray crossing.
func ringContains(ring []geom.Point, p geom.Point) bool {
	in := false
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < a.X+(b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) {
			in = !in
		}
	}
	return in
}

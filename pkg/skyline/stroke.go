package skyline

import (
	"math"

	"github.com/ctessum/geom"
)

// ExtractTop recovers the ordered point sequence tracing only the top
// boundary of a closed ring, from its leftmost to its rightmost vertex.
//
// Boolean subtraction may start a ring's vertex list anywhere, so the slice
// between the extreme-x vertices can wrap around the seam; extraction is
// plain index arithmetic over the fixed vertex array with an explicit wrap.
// The result is ordered left to right regardless of the ring's winding
// direction. Coordinates are compared rounded to 2 decimals so boolean-op
// floating noise cannot produce false extreme-vertex ties.
func ExtractTop(ring []geom.Point) Stroke {
	if len(ring) == 0 {
		return nil
	}

	l, r := 0, 0
	for i, p := range ring {
		px, py := round2(p.X), round2(p.Y)
		if lx, ly := round2(ring[l].X), round2(ring[l].Y); px < lx || (px == lx && py < ly) {
			l = i
		}
		if rx, ry := round2(ring[r].X), round2(ring[r].Y); px > rx || (px == rx && py < ry) {
			r = i
		}
	}

	if ringClockwise(ring) {
		// Clockwise rings run left to right along the top.
		return slice(ring, l, r)
	}
	// Counter-clockwise rings run right to left along the top; take the
	// analogous slice and reverse it so the stroke still reads left to right.
	top := slice(ring, r, l)
	for i, j := 0, len(top)-1; i < j; i, j = i+1, j-1 {
		top[i], top[j] = top[j], top[i]
	}
	return top
}

// slice copies the ring vertices from index a to index b inclusive, wrapping
// past the end of the array when b precedes a.
func slice(ring []geom.Point, a, b int) Stroke {
	if a <= b {
		return append(Stroke(nil), ring[a:b+1]...)
	}
	out := make(Stroke, 0, len(ring)-a+b+1)
	out = append(out, ring[a:]...)
	out = append(out, ring[:b+1]...)
	return out
}

// ringClockwise reports the ring's winding direction in the y-down canvas:
// a positive shoelace sum means the ring runs clockwise on screen.
func ringClockwise(ring []geom.Point) bool {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum >= 0
}

// ringArea returns the signed shoelace area of a ring.
func ringArea(ring []geom.Point) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package skyline

import (
	"testing"

	"github.com/ctessum/geom"
)

// ridgeRegion builds a one-part region from a ridge line given as (x, y)
// pairs, closed through the canvas bottom.
func ridgeRegion(ys []float64) Region {
	row := make([]CanvasPoint, len(ys))
	step := CanvasSpan / float64(len(ys)-1)
	for i, y := range ys {
		row[i] = CanvasPoint{X: float64(i) * step, Y: y, BaseY: CanvasSpan}
	}
	return Region{Parts: []geom.Polygon{Silhouette(row, CanvasSpan)}}
}

func TestFlattenCutsFlatRun(t *testing.T) {
	// Heights 30..30.1 across the middle stay within a 1m tolerance at
	// oneMeter=1, so the run over x in [20, 60] is cut out of the region.
	region := ridgeRegion([]float64{50, 40, 30, 30.1, 30, 30.1, 30, 40, 50, 60, 70})

	out := Flatten([]Region{region}, 1, 1, CanvasSpan)
	if len(out) != 1 {
		t.Fatalf("regions = %d, want 1", len(out))
	}
	if got := len(out[0].Parts); got != 2 {
		t.Fatalf("parts = %d, want 2 around the cut", got)
	}
	for _, part := range out[0].Parts {
		for _, p := range part[0] {
			if p.X > 20+1e-6 && p.X < 60-1e-6 {
				t.Errorf("point %+v inside the flattened x range (20, 60)", p)
			}
		}
	}
}

func TestFlattenLeadingFlatRun(t *testing.T) {
	// A run that starts at the first point gets an implicit boundary at
	// index 0, so the cut begins at the region's left edge.
	region := ridgeRegion([]float64{30, 30.1, 30, 30.1, 50, 60, 70, 80, 90, 95, 99})

	out := Flatten([]Region{region}, 1, 1, CanvasSpan)
	if got := len(out[0].Parts); got != 1 {
		t.Fatalf("parts = %d, want 1", got)
	}
	for _, p := range out[0].Parts[0][0] {
		if p.X < 30-1e-6 {
			t.Errorf("point %+v inside the flattened x range [0, 30)", p)
		}
	}
}

func TestFlattenWholeRegionFlat(t *testing.T) {
	// An entirely flat ridge is one run spanning the whole x range; the
	// region vanishes.
	region := ridgeRegion([]float64{30, 30, 30, 30, 30})

	out := Flatten([]Region{region}, 1, 1, CanvasSpan)
	if !out[0].Empty() {
		t.Errorf("fully flat region should vanish, got %d parts", len(out[0].Parts))
	}
}

func TestFlattenDisabled(t *testing.T) {
	region := ridgeRegion([]float64{30, 30, 30, 60, 90})

	// Zero threshold disables flattening.
	out := Flatten([]Region{region}, 0, 1, CanvasSpan)
	if got := len(out[0].Parts); got != 1 {
		t.Errorf("threshold 0: parts = %d, want 1 untouched part", got)
	}

	// A flat grid (oneMeter 0) has no meaningful meter scale; flattening is
	// skipped rather than dividing the canvas by zero meters.
	out = Flatten([]Region{region}, 1, 0, CanvasSpan)
	if got := len(out[0].Parts); got != 1 {
		t.Errorf("oneMeter 0: parts = %d, want 1 untouched part", got)
	}
}

func TestFlattenSteepRidgeUntouched(t *testing.T) {
	region := ridgeRegion([]float64{90, 70, 50, 30, 10})
	before := region.Parts[0]

	out := Flatten([]Region{region}, 1, 1, CanvasSpan)
	if got := len(out[0].Parts); got != 1 {
		t.Fatalf("parts = %d, want 1", got)
	}
	after := out[0].Parts[0]
	if len(after[0]) != len(before[0]) {
		t.Errorf("steep ridge changed: %d vertices, had %d", len(after[0]), len(before[0]))
	}
}

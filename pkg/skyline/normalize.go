package skyline

// rowCompression is the numerator of the per-row height compression: with
// more rows each individual ridge gets proportionally less vertical room, so
// dense grids don't turn into overlapping scribble.
const rowCompression = 20.0

// Normalize converts an elevation grid into canvas points and derives the
// one-meter scale (canvas units per meter of elevation). verticalRatio
// controls vertical exaggeration: raw elevations are first remapped to
// [0, verticalRatio].
//
// The returned rows are ordered farthest-from-viewer first, which is the
// drawing and culling order expected by Cull. All X, Y and BaseY values lie
// in [0, CanvasSpan], with y flipped so that higher elevation is closer to
// y=0 (top of the page).
//
// A flat grid (max == min) yields oneMeter 0 and all heights 0 rather than
// dividing by zero.
func Normalize(g Grid, verticalRatio float64) ([][]CanvasPoint, float64) {
	rows, cols := g.Rows(), g.Cols()
	if rows == 0 || cols == 0 {
		return nil, 0
	}

	min, max := g[0][0], g[0][0]
	for _, row := range g {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	// Canvas units per meter, before compression and fitting.
	oneMeter := 0.0
	if max > min {
		oneMeter = verticalRatio / (max - min)
	}

	rowSpace, colSpace := 0.0, 0.0
	if rows > 1 {
		rowSpace = CanvasSpan / float64(rows-1)
	}
	if cols > 1 {
		colSpace = CanvasSpan / float64(cols-1)
	}

	scale := rowCompression / float64(rows)
	oneMeter *= scale

	values := make([][]CanvasPoint, rows)
	for i, row := range g {
		baseY := float64(i) * rowSpace
		pts := make([]CanvasPoint, cols)
		for j, elev := range row {
			h := 0.0
			if max > min {
				h = (elev - min) / (max - min) * verticalRatio
			}
			pts[j] = CanvasPoint{
				X:     float64(j) * colSpace,
				Y:     baseY + h*scale,
				BaseY: baseY,
			}
		}
		values[i] = pts
	}

	// Fit the whole point set, baselines included, into the canvas.
	minY, maxY := values[0][0].Y, values[0][0].Y
	for _, row := range values {
		for _, p := range row {
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
			if p.BaseY < minY {
				minY = p.BaseY
			}
			if p.BaseY > maxY {
				maxY = p.BaseY
			}
		}
	}

	fit := 0.0
	if maxY > minY {
		fit = CanvasSpan / (maxY - minY)
	}
	oneMeter *= fit

	// Remap and flip: small y means high on the page, so high elevation ends
	// up near the top.
	for _, row := range values {
		for j := range row {
			row[j].Y = CanvasSpan - (row[j].Y-minY)*fit
			row[j].BaseY = CanvasSpan - (row[j].BaseY-minY)*fit
		}
	}

	// Reverse rows: culling draws back to front, so the farthest row comes
	// first regardless of sampling order.
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}

	return values, oneMeter
}

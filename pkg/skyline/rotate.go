package skyline

// Rotate returns the grid quarter-turned clockwise so that row 0 is the row
// nearest the requested viewpoint: south needs no turn, east one, north two,
// west three. Four applications restore the original grid.
func Rotate(g Grid, v Viewpoint) Grid {
	out := g
	for range v.turns() {
		out = rotateCW(out)
	}
	return out
}

// rotateCW rotates one quarter-turn clockwise, swapping dimensions.
func rotateCW(g Grid) Grid {
	rows, cols := g.Rows(), g.Cols()
	out := make(Grid, cols)
	for c := range out {
		out[c] = make([]float64, rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c][rows-1-r] = g[r][c]
		}
	}
	return out
}

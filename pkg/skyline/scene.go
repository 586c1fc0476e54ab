package skyline

// Scene is the flat description handed to the vector output writer: an
// optional background rectangle plus ordered open strokes, already scaled
// from canvas space to output pixels.
type Scene struct {
	Width  int
	Height int

	// Background is a fill color for the full-canvas rectangle; empty means
	// no background is emitted.
	Background string

	LineColor string
	LineWidth float64

	// Strokes are ordered back to front, one per visible region part.
	Strokes []Stroke
}

// Assemble extracts the top boundary of every visible region part and builds
// the scene. Empty strokes (fully occluded rows) are skipped silently.
func Assemble(regions []Region, width, height int, background, lineColor string, lineWidth float64) Scene {
	sx := float64(width) / CanvasSpan
	sy := float64(height) / CanvasSpan

	scene := Scene{
		Width:      width,
		Height:     height,
		Background: background,
		LineColor:  lineColor,
		LineWidth:  lineWidth,
	}

	for _, region := range regions {
		for _, part := range region.Parts {
			top := ExtractTop(part[0])
			if len(top) == 0 {
				continue
			}
			stroke := make(Stroke, len(top))
			for i, p := range top {
				stroke[i].X = p.X * sx
				stroke[i].Y = p.Y * sy
			}
			scene.Strokes = append(scene.Strokes, stroke)
		}
	}
	return scene
}

// Package render turns an assembled scene into vector output.
package render

import (
	"bytes"
	"fmt"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ridgemap/ridgemap/pkg/skyline"
)

// defaultPrecision is the number of decimals written for path coordinates.
// Two decimals keep sub-pixel accuracy at typical output sizes without
// bloating the document.
const defaultPrecision = 2

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	precision int
	title     string
}

// WithPrecision sets the number of coordinate decimals.
func WithPrecision(n int) SVGOption { return func(r *svgRenderer) { r.precision = n } }

// WithTitle embeds a document title element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// RenderSVG serializes the scene: an optional background rectangle followed
// by one open path per stroke, back to front.
func RenderSVG(scene skyline.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{precision: defaultPrecision}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(scene.Width, scene.Height)

	if r.title != "" {
		canvas.Title(r.title)
	}
	if scene.Background != "" {
		canvas.Rect(0, 0, scene.Width, scene.Height, fmt.Sprintf("fill:%s", scene.Background))
	}

	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g;stroke-linejoin:round;stroke-linecap:round",
		scene.LineColor, scene.LineWidth)
	for _, stroke := range scene.Strokes {
		if len(stroke) < 2 {
			continue
		}
		canvas.Path(r.pathData(stroke), style)
	}

	canvas.End()
	return buf.Bytes()
}

// pathData builds the "M x,y L x,y ..." path description for one stroke.
func (r svgRenderer) pathData(stroke skyline.Stroke) string {
	var b strings.Builder
	for i, p := range stroke {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteString(" L")
		}
		fmt.Fprintf(&b, "%.*f,%.*f", r.precision, p.X, r.precision, p.Y)
	}
	return b.String()
}

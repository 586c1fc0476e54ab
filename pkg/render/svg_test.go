package render

import (
	"strings"
	"testing"

	"github.com/ctessum/geom"

	"github.com/ridgemap/ridgemap/pkg/skyline"
)

func testScene() skyline.Scene {
	return skyline.Scene{
		Width:      800,
		Height:     600,
		Background: "#ffffff",
		LineColor:  "#202020",
		LineWidth:  1.5,
		Strokes: []skyline.Stroke{
			{{X: 0, Y: 300}, {X: 400, Y: 150}, {X: 800, Y: 300}},
			{{X: 0, Y: 450}, {X: 800, Y: 450}},
		},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testScene()))

	if !strings.Contains(out, `width="800"`) || !strings.Contains(out, `height="600"`) {
		t.Errorf("missing document dimensions in output:\n%s", out)
	}
	if !strings.Contains(out, "fill:#ffffff") {
		t.Error("missing background rectangle fill")
	}
	if got := strings.Count(out, "<path"); got != 2 {
		t.Errorf("path count = %d, want 2", got)
	}
	if !strings.Contains(out, "fill:none;stroke:#202020;stroke-width:1.5") {
		t.Error("missing stroke style")
	}
	if !strings.Contains(out, "M0.00,300.00 L400.00,150.00 L800.00,300.00") {
		t.Errorf("missing ridge path data in output:\n%s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("document not closed")
	}
}

func TestRenderSVGNoBackground(t *testing.T) {
	scene := testScene()
	scene.Background = ""
	out := string(RenderSVG(scene))
	if strings.Contains(out, "<rect") {
		t.Error("background rectangle emitted for empty background color")
	}
}

func TestRenderSVGSkipsDegenerateStrokes(t *testing.T) {
	scene := testScene()
	scene.Strokes = []skyline.Stroke{
		{{X: 10, Y: 10}}, // single point, not drawable
		nil,
	}
	out := string(RenderSVG(scene))
	if strings.Contains(out, "<path") {
		t.Error("degenerate strokes should not produce paths")
	}
}

func TestRenderSVGPrecision(t *testing.T) {
	scene := skyline.Scene{
		Width: 100, Height: 100, LineColor: "#000", LineWidth: 1,
		Strokes: []skyline.Stroke{{geom.Point{X: 1.23456, Y: 2}, geom.Point{X: 3, Y: 4}}},
	}
	out := string(RenderSVG(scene, WithPrecision(4)))
	if !strings.Contains(out, "M1.2346,2.0000") {
		t.Errorf("precision option not applied:\n%s", out)
	}
}

func TestRenderSVGTitle(t *testing.T) {
	out := string(RenderSVG(testScene(), WithTitle("Mont Blanc, from the south")))
	if !strings.Contains(out, "<title>Mont Blanc, from the south</title>") {
		t.Errorf("missing title element:\n%s", out)
	}
}

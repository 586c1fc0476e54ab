// Package skyline turns a grid of elevation samples into non-overlapping
// ridge-line strokes as seen from a cardinal viewpoint.
//
// # Pipeline
//
// The stages run in a fixed order, each consuming the previous stage's
// output:
//
//  1. Sample: fan out elevation lookups over a rows x cols grid
//  2. Rotate: quarter-turn the grid so row 0 faces the viewer
//  3. Normalize: rescale elevations into canvas points with baselines
//  4. Cull: subtract nearer rows' silhouettes from farther rows
//  5. Flatten (optional): cut near-flat lake bands out of the remainder
//  6. Assemble: extract top boundaries and build the renderable scene
//
// Sampling is the only concurrent stage; everything after it is a
// deterministic transformation over immutable inputs. Polygon booleans are
// delegated to github.com/ctessum/geom.
//
// # Coordinate space
//
// All geometry lives in a 0-100 canvas space with y growing downward, so
// high elevation means small y. Each canvas point carries both its ridge
// height and the y it would have at zero elevation (its baseline); the
// distance between them, per meter of real elevation, is the one-meter
// scale used by the water and lake thresholds.
package skyline

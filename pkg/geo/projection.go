// Package geo resolves projection names to proj4 definitions and builds
// coordinate transforms between them.
//
// Only cylindrical projections are supported: grid sampling assumes that
// canvas rows map to constant-y lines in the working projection. Feeding a
// non-cylindrical definition is a caller error and produces garbage geometry
// rather than a detected failure.
package geo

import (
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"github.com/ridgemap/ridgemap/pkg/errors"
)

// Recognized projection names.
const (
	NameLngLat          = "lnglat"
	NameEquirectangular = "equirectangular"
	NameWebMercator     = "web-mercator"
	NameMercator        = "mercator"
)

// Proj4 definitions for the recognized names.
const (
	defLngLat = "+proj=longlat +datum=WGS84 +no_defs"

	// Spherical mercator as used by web map tiles (EPSG:3857).
	defWebMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"

	// Ellipsoidal mercator on WGS84 (EPSG:3395).
	defMercator = "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
)

// Transform converts a coordinate pair between two projections.
type Transform func(x, y float64) (X, Y float64, err error)

// Resolve maps a projection name to its proj4 definition. An empty name
// resolves to lnglat. Strings starting with "+" are treated as caller-supplied
// proj4 definitions and passed through untouched.
func Resolve(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameLngLat, NameEquirectangular:
		return defLngLat, nil
	case NameWebMercator:
		return defWebMercator, nil
	case NameMercator:
		return defMercator, nil
	}
	if strings.HasPrefix(strings.TrimSpace(name), "+") {
		return strings.TrimSpace(name), nil
	}
	return "", errors.New(errors.ErrCodeInvalidProjection, "unknown projection: %s", name)
}

// NewTransform builds a transform from one projection to another. Either
// argument may be a recognized name or a raw proj4 string. When both resolve
// to the same definition the returned transform is the identity, avoiding a
// round trip through the projection machinery and its precision loss.
func NewTransform(from, to string) (Transform, error) {
	defFrom, err := Resolve(from)
	if err != nil {
		return nil, err
	}
	defTo, err := Resolve(to)
	if err != nil {
		return nil, err
	}

	if defFrom == defTo {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}

	srFrom, err := proj.Parse(defFrom)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProjection, err, "parse projection %q", from)
	}
	srTo, err := proj.Parse(defTo)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProjection, err, "parse projection %q", to)
	}

	t, err := srFrom.NewTransform(srTo)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProjection, err, "build transform %q -> %q", from, to)
	}
	return Transform(t), nil
}

// Convert transforms a single point between two projections.
func Convert(from, to string, p geom.Point) (geom.Point, error) {
	t, err := NewTransform(from, to)
	if err != nil {
		return geom.Point{}, err
	}
	x, y, err := t(p.X, p.Y)
	if err != nil {
		return geom.Point{}, errors.Wrap(errors.ErrCodeInvalidProjection, err, "convert (%g, %g)", p.X, p.Y)
	}
	return geom.Point{X: x, Y: y}, nil
}

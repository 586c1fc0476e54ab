package elevation

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
)

// srtmVoid marks missing samples in SRTM data.
const srtmVoid = -32768

// HGT looks up elevations from a local directory of SRTM .hgt tiles.
// Tiles are named by their south-west corner (e.g. N46E007.hgt) and contain
// a square grid of big-endian int16 samples: 3601x3601 for 1-arcsecond data,
// 1201x1201 for 3-arcsecond data. Loaded tiles stay in memory.
type HGT struct {
	dir string

	mu    sync.Mutex
	tiles map[string][]byte // nil entry: file known to be absent
}

// NewHGT creates a provider reading .hgt tiles from dir.
func NewHGT(dir string) *HGT {
	return &HGT{
		dir:   dir,
		tiles: make(map[string][]byte),
	}
}

// Lookup returns the nearest-sample elevation at (lat, lng).
// A missing tile or a void sample yields ErrNoData.
func (h *HGT) Lookup(ctx context.Context, lat, lng float64) (float64, error) {
	tileLat := math.Floor(lat)
	tileLng := math.Floor(lng)

	data, err := h.tile(tileName(tileLat, tileLng))
	if err != nil {
		return 0, err
	}

	n := tileSamples(len(data))
	if n == 0 {
		return 0, fmt.Errorf("hgt: unexpected tile size %d bytes", len(data))
	}

	// Row 0 is the tile's north edge.
	row := int(math.Round((1 - (lat - tileLat)) * float64(n-1)))
	col := int(math.Round((lng - tileLng) * float64(n-1)))

	v := int16(binary.BigEndian.Uint16(data[(row*n+col)*2:]))
	if v == srtmVoid {
		return 0, ErrNoData
	}
	return float64(v), nil
}

// tile loads a tile file, remembering absent files so repeated lookups in an
// uncovered area don't hit the filesystem each time.
func (h *HGT) tile(name string) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if data, ok := h.tiles[name]; ok {
		if data == nil {
			return nil, ErrNoData
		}
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(h.dir, name))
	if os.IsNotExist(err) {
		h.tiles[name] = nil
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	h.tiles[name] = data
	return data, nil
}

// tileName builds the SRTM file name for a tile's south-west corner.
func tileName(lat, lng float64) string {
	ns, latAbs := "N", lat
	if lat < 0 {
		ns, latAbs = "S", -lat
	}
	ew, lngAbs := "E", lng
	if lng < 0 {
		ew, lngAbs = "W", -lng
	}
	return fmt.Sprintf("%s%02.0f%s%03.0f.hgt", ns, latAbs, ew, lngAbs)
}

// tileSamples returns the per-side sample count for a tile of the given byte
// size, or 0 if the size matches no known SRTM format.
func tileSamples(size int) int {
	switch size {
	case 3601 * 3601 * 2:
		return 3601
	case 1201 * 1201 * 2:
		return 1201
	}
	return 0
}

// Ensure HGT implements Provider.
var _ Provider = (*HGT)(nil)

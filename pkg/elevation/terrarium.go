package elevation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/ridgemap/ridgemap/pkg/cache"
	"github.com/ridgemap/ridgemap/pkg/errors"
	"github.com/ridgemap/ridgemap/pkg/httputil"
)

// DefaultTileURL is the public AWS terrain tile endpoint (terrarium encoding).
const DefaultTileURL = "https://s3.amazonaws.com/elevation-tiles-prod/terrarium/%d/%d/%d.png"

// DefaultZoom balances detail against tile count for typical bounding boxes.
const DefaultZoom = 11

const tileSize = 256

// Terrarium looks up elevations from terrarium-encoded PNG terrain tiles
// fetched over HTTP. Raw tile bytes go through the configured byte cache;
// decoded images are kept in memory for the provider's lifetime.
type Terrarium struct {
	urlTemplate string
	zoom        maptile.Zoom
	client      *http.Client
	cache       cache.Cache

	mu    sync.Mutex
	tiles map[maptile.Tile]*tileEntry
}

// tileEntry dedupes concurrent fetches of the same tile.
type tileEntry struct {
	once sync.Once
	img  image.Image
	err  error
}

// TerrariumOption configures a Terrarium provider.
type TerrariumOption func(*Terrarium)

// WithTileURL overrides the tile URL template (fmt verbs for z, x, y).
func WithTileURL(tmpl string) TerrariumOption {
	return func(t *Terrarium) { t.urlTemplate = tmpl }
}

// WithZoom sets the tile zoom level.
func WithZoom(zoom int) TerrariumOption {
	return func(t *Terrarium) { t.zoom = maptile.Zoom(zoom) }
}

// WithHTTPClient overrides the HTTP client used for tile fetches.
func WithHTTPClient(client *http.Client) TerrariumOption {
	return func(t *Terrarium) { t.client = client }
}

// NewTerrarium creates a terrain tile provider. Raw tile bytes are cached in
// c; pass a NullCache to fetch every tile fresh.
func NewTerrarium(c cache.Cache, opts ...TerrariumOption) *Terrarium {
	t := &Terrarium{
		urlTemplate: DefaultTileURL,
		zoom:        DefaultZoom,
		client:      &http.Client{Timeout: 30 * time.Second},
		cache:       c,
		tiles:       make(map[maptile.Tile]*tileEntry),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lookup returns the elevation at (lat, lng) from the covering tile.
func (t *Terrarium) Lookup(ctx context.Context, lat, lng float64) (float64, error) {
	tile := maptile.At(orb.Point{lng, lat}, t.zoom)

	img, err := t.tile(ctx, tile)
	if err != nil {
		return 0, err
	}

	px, py := pixelInTile(lat, lng, t.zoom, tile)
	r, g, b, _ := img.At(px, py).RGBA()

	// Terrarium encoding: elevation = (R*256 + G + B/256) - 32768.
	// RGBA returns 16-bit channels; shift back to 8 bits.
	r8 := float64(r >> 8)
	g8 := float64(g >> 8)
	b8 := float64(b >> 8)
	return r8*256 + g8 + b8/256 - 32768, nil
}

// tile returns the decoded image for a tile, fetching at most once even under
// concurrent lookups.
func (t *Terrarium) tile(ctx context.Context, tile maptile.Tile) (image.Image, error) {
	t.mu.Lock()
	entry, ok := t.tiles[tile]
	if !ok {
		entry = &tileEntry{}
		t.tiles[tile] = entry
	}
	t.mu.Unlock()

	entry.once.Do(func() {
		entry.img, entry.err = t.fetchTile(ctx, tile)
	})
	return entry.img, entry.err
}

// fetchTile loads tile bytes from cache or HTTP and decodes them.
func (t *Terrarium) fetchTile(ctx context.Context, tile maptile.Tile) (image.Image, error) {
	key := cache.TileKey("terrarium", uint32(tile.Z), tile.X, tile.Y)

	if data, hit, err := t.cache.Get(ctx, key); err == nil && hit {
		if img, err := decodeTile(data); err == nil {
			return img, nil
		}
		// Corrupt cached bytes: drop and refetch.
		_ = t.cache.Delete(ctx, key)
	}

	data, err := t.download(ctx, tile)
	if err != nil {
		return nil, err
	}
	_ = t.cache.Set(ctx, key, data, cache.TTLTile)

	return decodeTile(data)
}

// download fetches tile bytes over HTTP with retry on transient failures.
// A 404 means the tileset has no data there and maps to ErrNoData.
func (t *Terrarium) download(ctx context.Context, tile maptile.Tile) ([]byte, error) {
	url := fmt.Sprintf(t.urlTemplate, tile.Z, tile.X, tile.Y)

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := t.client.Do(req)
		if err != nil {
			return httputil.Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
			return ErrNoData
		case resp.StatusCode >= 500:
			return httputil.Retryable(fmt.Errorf("tile server returned %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return errors.New(errors.ErrCodeNetwork, "tile server returned %d for %s", resp.StatusCode, url)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func decodeTile(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode tile: %w", err)
	}
	return img, nil
}

// pixelInTile returns the pixel coordinates of (lat, lng) within its tile,
// using the same spherical mercator math as the tile grid itself.
func pixelInTile(lat, lng float64, zoom maptile.Zoom, tile maptile.Tile) (int, int) {
	n := float64(tileSize) * math.Exp2(float64(zoom))

	x := (lng + 180) / 360 * n
	siny := math.Sin(lat * math.Pi / 180)
	// Clamp away from the poles where the projection diverges.
	siny = math.Min(math.Max(siny, -0.9999), 0.9999)
	y := (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * n

	px := int(x) - int(tile.X)*tileSize
	py := int(y) - int(tile.Y)*tileSize
	return clampPixel(px), clampPixel(py)
}

func clampPixel(v int) int {
	if v < 0 {
		return 0
	}
	if v >= tileSize {
		return tileSize - 1
	}
	return v
}

// Ensure Terrarium implements Provider.
var _ Provider = (*Terrarium)(nil)

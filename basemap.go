// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // tile decoder
	_ "image/png"  // tile decoder
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	xdraw "golang.org/x/image/draw"
)

// TileSize is the width and height in pixels of a web map tile.
const TileSize = 256

// DefaultTileURL is the CartoDB Positron tile service.
const DefaultTileURL = "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png"

const (
	// webMercatorProj is the spatial reference of web map tiles.
	webMercatorProj = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
	lonLatProj      = "+proj=longlat +datum=WGS84 +no_defs"

	// worldMeters is the width of the web mercator plane.
	worldMeters = 2 * math.Pi * 6378137
)

// TileSource provides encoded web map tiles in the XYZ scheme.
type TileSource interface {
	TileData(ctx context.Context, z, x, y int) ([]byte, error)
}

// HTTPTiles fetches tiles from an XYZ tile server.
type HTTPTiles struct {
	// URL is the tile URL template. {z}, {x} and {y} are replaced
	// by the tile address, {s} by one of Subdomains and {r} by
	// "@2x" if Retina is set.
	URL        string
	Subdomains []string
	Retina     bool
	UserAgent  string
	Client     *http.Client
}

// NewHTTPTiles returns a tile source for the URL template with the
// a-d subdomains and a 30 second timeout.
func NewHTTPTiles(url string) *HTTPTiles {
	return &HTTPTiles{
		URL:        url,
		Subdomains: []string{"a", "b", "c", "d"},
		UserAgent:  "hexframes/1.0",
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// TileURL returns the address of a single tile.
func (t *HTTPTiles) TileURL(z, x, y int) string {
	var s, r string
	if len(t.Subdomains) > 0 {
		s = t.Subdomains[(x+y)%len(t.Subdomains)]
	}
	if t.Retina {
		r = "@2x"
	}
	return strings.NewReplacer(
		"{s}", s,
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
		"{r}", r,
	).Replace(t.URL)
}

// TileData implements TileSource.
func (t *HTTPTiles) TileData(ctx context.Context, z, x, y int) ([]byte, error) {
	u := t.TileURL(z, x, y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hexframes: fetching tile %d/%d/%d: %w", z, x, y, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hexframes: fetching tile %s: %s", u, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Basemap builds background images from web map tiles.
type Basemap struct {
	Source TileSource

	// Zoom is the tile zoom level. If it is zero, the level is
	// chosen so that the tiles have about the resolution of the
	// requested image, within MaxZoom and MaxTiles.
	Zoom     int
	MaxZoom  int
	MaxTiles int

	Log *slog.Logger

	toMercator proj.Transformer
}

// NewBasemap returns a basemap drawing tiles from src.
func NewBasemap(src TileSource) (*Basemap, error) {
	webSR, err := proj.Parse(webMercatorProj)
	if err != nil {
		return nil, fmt.Errorf("hexframes: while parsing web mercator projection: %v", err)
	}
	llSR, err := proj.Parse(lonLatProj)
	if err != nil {
		return nil, fmt.Errorf("hexframes: while parsing lon/lat projection: %v", err)
	}
	t, err := llSR.NewTransform(webSR)
	if err != nil {
		return nil, fmt.Errorf("hexframes: while creating web mercator transform: %v", err)
	}
	return &Basemap{
		Source:     src,
		MaxZoom:    19,
		MaxTiles:   64,
		toMercator: t,
	}, nil
}

// mercator returns the web mercator coordinates in meters of a
// longitude/latitude point in degrees.
func (b *Basemap) mercator(lon, lat float64) (x, y float64, err error) {
	g, err := geom.Point{X: lon, Y: lat}.Transform(b.toMercator)
	if err != nil {
		return 0, 0, err
	}
	p := g.(geom.Point)
	return p.X, p.Y, nil
}

// worldPixel returns the position of a mercator point in the pixel
// space of the whole world at zoom level z.
func worldPixel(mx, my float64, z int) (px, py float64) {
	scale := TileSize * math.Exp2(float64(z)) / worldMeters
	return (mx + worldMeters/2) * scale, (worldMeters/2 - my) * scale
}

// tileRange is an inclusive range of tile addresses.
type tileRange struct {
	z, x0, y0, x1, y1 int
}

func (r tileRange) count() int { return (r.x1 - r.x0 + 1) * (r.y1 - r.y0 + 1) }

// tilesFor returns the tiles that cover the mercator bounds at zoom z.
func tilesFor(minX, minY, maxX, maxY float64, z int) tileRange {
	px0, py0 := worldPixel(minX, maxY, z)
	px1, py1 := worldPixel(maxX, minY, z)
	n := 1<<uint(z) - 1
	clamp := func(v float64) int {
		i := int(math.Floor(v / TileSize))
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	return tileRange{z: z, x0: clamp(px0), y0: clamp(py0), x1: clamp(px1), y1: clamp(py1)}
}

// zoomFor returns the zoom level at which a span of dx mercator meters
// is about w pixels wide.
func zoomFor(dx float64, w, maxZoom int) int {
	if dx <= 0 || w <= 0 {
		return 0
	}
	z := int(math.Ceil(math.Log2(float64(w) * worldMeters / (TileSize * dx))))
	if z < 0 {
		return 0
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}

// Image returns a w by h image of the extent, given in degrees. Rows
// and columns of the image are evenly spaced in latitude and longitude,
// so it can be stretched over longitude/latitude axes.
func (b *Basemap) Image(ctx context.Context, extent *geom.Bounds, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("hexframes: invalid basemap size %dx%d", w, h)
	}
	minX, minY, err := b.mercator(extent.Min.X, extent.Min.Y)
	if err != nil {
		return nil, err
	}
	maxX, maxY, err := b.mercator(extent.Max.X, extent.Max.Y)
	if err != nil {
		return nil, err
	}

	z := b.Zoom
	if z <= 0 {
		z = zoomFor(maxX-minX, w, b.MaxZoom)
	}
	tr := tilesFor(minX, minY, maxX, maxY, z)
	for b.MaxTiles > 0 && tr.count() > b.MaxTiles && z > 0 {
		z--
		tr = tilesFor(minX, minY, maxX, maxY, z)
	}
	b.logger().Debug("basemap tiles", "zoom", z, "tiles", tr.count())

	mosaic, err := b.mosaic(ctx, tr)
	if err != nil {
		return nil, err
	}

	// Columns are linear in mercator x, so each output row is a
	// horizontal scaling of a single mosaic row.
	originX, originY := float64(tr.x0*TileSize), float64(tr.y0*TileSize)
	px0, _ := worldPixel(minX, 0, z)
	px1, _ := worldPixel(maxX, 0, z)
	sx0 := int(math.Floor(px0 - originX))
	sx1 := int(math.Ceil(px1 - originX))
	if sx1 <= sx0 {
		sx1 = sx0 + 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	mb := mosaic.Bounds()
	lonMid := (extent.Min.X + extent.Max.X) / 2
	for j := 0; j < h; j++ {
		lat := extent.Max.Y - (float64(j)+0.5)/float64(h)*(extent.Max.Y-extent.Min.Y)
		_, my, err := b.mercator(lonMid, lat)
		if err != nil {
			return nil, err
		}
		_, py := worldPixel(0, my, z)
		sy := int(math.Floor(py - originY))
		if sy < mb.Min.Y {
			sy = mb.Min.Y
		}
		if sy >= mb.Max.Y {
			sy = mb.Max.Y - 1
		}
		xdraw.ApproxBiLinear.Scale(out, image.Rect(0, j, w, j+1),
			mosaic, image.Rect(sx0, sy, sx1, sy+1), xdraw.Src, nil)
	}
	return out, nil
}

// mosaic stitches the tiles of tr into one image whose origin is the
// top left corner of the first tile.
func (b *Basemap) mosaic(ctx context.Context, tr tileRange) (*image.RGBA, error) {
	nx, ny := tr.x1-tr.x0+1, tr.y1-tr.y0+1
	m := image.NewRGBA(image.Rect(0, 0, nx*TileSize, ny*TileSize))
	for y := tr.y0; y <= tr.y1; y++ {
		for x := tr.x0; x <= tr.x1; x++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := b.Source.TileData(ctx, tr.z, x, y)
			if err != nil {
				return nil, err
			}
			tile, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("hexframes: decoding tile %d/%d/%d: %w", tr.z, x, y, err)
			}
			min := image.Pt((x-tr.x0)*TileSize, (y-tr.y0)*TileSize)
			dst := image.Rectangle{Min: min, Max: min.Add(image.Pt(TileSize, TileSize))}
			if tile.Bounds().Dx() == TileSize && tile.Bounds().Dy() == TileSize {
				xdraw.Draw(m, dst, tile, tile.Bounds().Min, xdraw.Src)
			} else {
				// Retina tiles.
				xdraw.CatmullRom.Scale(m, dst, tile, tile.Bounds(), xdraw.Src, nil)
			}
		}
	}
	return m, nil
}

func (b *Basemap) logger() *slog.Logger {
	if b.Log == nil {
		return slog.Default()
	}
	return b.Log
}

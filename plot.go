// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Renderer draws report rows as map frames.
type Renderer struct {
	// Reference is the fixed polygon drawn in every frame. Its bounds,
	// grown by Margin, are the extent of every frame.
	Reference geom.Polygon
	Margin    float64

	// Palette maps row types to colours. Nil means DefaultPalette.
	Palette Palette

	// Basemap provides the background image. Frames have no
	// background if it is nil.
	Basemap *Basemap

	// OutDir is the directory frames are written to. It must exist.
	OutDir string

	// Format is the image format and file extension of frames:
	// png, jpg, jpeg, tif or tiff.
	Format string

	Width, Height vg.Length
	DPI           int
	LineWidth     vg.Length

	Log *slog.Logger
}

// NewRenderer returns a renderer for the given reference polygon with
// the default margin, palette and a 6.4x4.8 inch PNG output at 100 dpi.
func NewRenderer(ref geom.Polygon) *Renderer {
	return &Renderer{
		Reference: ref,
		Margin:    DefaultMargin,
		Palette:   DefaultPalette(),
		OutDir:    "out",
		Format:    "png",
		Width:     6.4 * vg.Inch,
		Height:    4.8 * vg.Inch,
		DPI:       100,
		LineWidth: vg.Points(1.5),
	}
}

// FramePath returns the file the frame with the given index is written
// to in dir.
func FramePath(dir string, index int, format string) string {
	return filepath.Join(dir, strconv.Itoa(index)+"."+format)
}

// RenderAll renders one frame per row, in order, and returns the saved
// boundaries after the last row. It stops at the first error.
func (r *Renderer) RenderAll(ctx context.Context, rows []Row) (Saved, error) {
	var saved Saved
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		var err error
		saved, err = r.Render(ctx, i, row, saved)
		if err != nil {
			return saved, err
		}
		r.logger().Info("frame rendered", "index", i, "cell", row.Cell, "type", row.Type, "saved", len(saved))
	}
	return saved, nil
}

// Render composes and saves the frame for a single row and returns the
// updated saved boundaries.
func (r *Renderer) Render(ctx context.Context, index int, row Row, saved Saved) (Saved, error) {
	f, next, err := r.Compose(index, row, saved)
	if err != nil {
		return saved, fmt.Errorf("hexframes: row %d: %w", index, err)
	}
	if _, err := r.Save(ctx, f); err != nil {
		return saved, fmt.Errorf("hexframes: row %d: %w", index, err)
	}
	return next, nil
}

// Save draws f and writes it to its file in OutDir. It returns the path
// of the file.
func (r *Renderer) Save(ctx context.Context, f *Frame) (string, error) {
	if err := checkFormat(r.Format); err != nil {
		return "", err
	}
	c, err := r.Draw(ctx, f)
	if err != nil {
		return "", err
	}
	path := FramePath(r.OutDir, f.Index, r.Format)
	w, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := writeImage(w, c, r.Format); err != nil {
		w.Close()
		return "", err
	}
	return path, w.Close()
}

// Draw draws f onto a new image canvas.
func (r *Renderer) Draw(ctx context.Context, f *Frame) (*vgimg.Canvas, error) {
	colors := make([]color.Color, len(f.Layers))
	for i, l := range f.Layers {
		c, err := ParseColor(l.Color)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}

	p := plot.New()
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.X.Padding, p.Y.Padding = 0, 0
	setLimits(p, f.Extent)

	img := vgimg.NewWith(vgimg.UseWH(r.Width, r.Height), vgimg.UseDPI(r.DPI))
	dc := fitAspect(p, draw.New(img), f.Extent)

	if r.Basemap != nil {
		da := p.DataCanvas(dc)
		w := int(math.Ceil((da.Max.X - da.Min.X).Dots(float64(r.DPI))))
		h := int(math.Ceil((da.Max.Y - da.Min.Y).Dots(float64(r.DPI))))
		bg, err := r.Basemap.Image(ctx, f.Extent, w, h)
		if err != nil {
			return nil, err
		}
		p.Add(plotter.NewImage(bg, f.Extent.Min.X, f.Extent.Min.Y, f.Extent.Max.X, f.Extent.Max.Y))
	}
	p.Add(&boundaries{
		layers: f.Layers,
		colors: colors,
		extent: f.Extent,
		width:  r.LineWidth,
	})
	setLimits(p, f.Extent)
	p.Draw(dc)
	return img, nil
}

func setLimits(p *plot.Plot, e *geom.Bounds) {
	p.X.Min, p.X.Max = e.Min.X, e.Max.X
	p.Y.Min, p.Y.Max = e.Min.Y, e.Max.Y
}

// Aspect returns the width to height ratio at which the extent e, in
// degrees, is drawn: a degree of longitude is as long as the cosine of
// the middle latitude times a degree of latitude.
func Aspect(e *geom.Bounds) float64 {
	dy := e.Max.Y - e.Min.Y
	if dy <= 0 {
		return 1
	}
	mid := (e.Min.Y + e.Max.Y) / 2 * math.Pi / 180
	return (e.Max.X - e.Min.X) * math.Cos(mid) / dy
}

// fitAspect shrinks c around its centre so the data area of p has the
// aspect of e. The axis limits are not changed.
func fitAspect(p *plot.Plot, c draw.Canvas, e *geom.Bounds) draw.Canvas {
	da := p.DataCanvas(c)
	w, h := da.Max.X-da.Min.X, da.Max.Y-da.Min.Y
	a := vg.Length(Aspect(e))
	if w <= 0 || h <= 0 || a <= 0 {
		return c
	}
	if w > h*a {
		dx := (w - h*a) / 2
		return draw.Crop(c, dx, -dx, 0, 0)
	}
	dy := (h - w/a) / 2
	return draw.Crop(c, 0, 0, dy, -dy)
}

func (r *Renderer) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

// boundaries is a plot.Plotter that draws the outline of each layer in
// its colour.
type boundaries struct {
	layers []Layer
	colors []color.Color
	extent *geom.Bounds
	width  vg.Length
}

// Plot implements the plot.Plotter interface.
func (b *boundaries) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)
	for i, l := range b.layers {
		if !l.Boundary.Bounds().Overlaps(b.extent) {
			continue
		}
		ls := draw.LineStyle{Color: b.colors[i], Width: b.width}
		for _, r := range l.Boundary {
			pts := make([]vg.Point, len(r))
			for j, pt := range r {
				pts[j] = vg.Point{X: trX(pt.X), Y: trY(pt.Y)}
			}
			c.StrokeLines(ls, c.ClipLinesXY(pts)...)
		}
	}
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "png", "jpg", "jpeg", "tif", "tiff":
		return nil
	}
	return fmt.Errorf("hexframes: unsupported frame format %q", format)
}

func writeImage(w io.Writer, c *vgimg.Canvas, format string) error {
	var wt io.WriterTo
	switch strings.ToLower(format) {
	case "png":
		wt = vgimg.PngCanvas{Canvas: c}
	case "jpg", "jpeg":
		wt = vgimg.JpegCanvas{Canvas: c}
	case "tif", "tiff":
		wt = vgimg.TiffCanvas{Canvas: c}
	default:
		return checkFormat(format)
	}
	_, err := wt.WriteTo(w)
	return err
}

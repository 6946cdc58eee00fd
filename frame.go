// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"github.com/ctessum/geom"
)

// Saved holds the boundaries of found cells in the order they were
// found. It only ever grows.
type Saved []geom.Polygon

// Append returns s with p added to the end. The backing array of s is
// never written to, so frames built from earlier values of s are not
// affected. Each call copies s; Compose already copies every saved
// boundary into the layers of its frame, so a run stays quadratic in
// the number of found rows either way.
func (s Saved) Append(p geom.Polygon) Saved {
	return append(s[:len(s):len(s)], p)
}

// Layer is a boundary drawn in a single colour.
type Layer struct {
	Boundary geom.Polygon
	Color    string
}

// Frame is the content of a single rendered image.
type Frame struct {
	// Index is the position of the row in the report, and
	// the base name of the output file.
	Index int
	Row   Row

	// Layers are drawn in order: the row's own boundary,
	// the reference polygon, then the saved boundaries.
	Layers []Layer

	// Extent is the visible area in degrees.
	Extent *geom.Bounds
}

// NumSaved returns the number of saved boundaries drawn in f.
func (f *Frame) NumSaved() int {
	return len(f.Layers) - 2
}

// Compose builds the frame for the row at index. If the row is a found
// cell, its boundary is appended to saved before the frame is built,
// so it is drawn both in its own colour and in the saved layer. The
// updated saved list is returned for the next row.
func (r *Renderer) Compose(index int, row Row, saved Saved) (*Frame, Saved, error) {
	poly, err := ResolveCell(row.Cell)
	if err != nil {
		return nil, saved, err
	}
	if row.Category().IsFound() {
		saved = saved.Append(poly)
	}
	layers := make([]Layer, 0, len(saved)+2)
	layers = append(layers,
		Layer{Boundary: poly, Color: r.palette().Token(row.Type)},
		Layer{Boundary: r.Reference, Color: ReferenceToken},
	)
	for _, p := range saved {
		layers = append(layers, Layer{Boundary: p, Color: SavedToken})
	}
	return &Frame{
		Index:  index,
		Row:    row,
		Layers: layers,
		Extent: r.Extent(),
	}, saved, nil
}

// Extent returns the visible area of every frame.
func (r *Renderer) Extent() *geom.Bounds {
	return Extent(r.Reference, r.Margin)
}

func (r *Renderer) palette() Palette {
	if r.Palette == nil {
		return DefaultPalette()
	}
	return r.Palette
}

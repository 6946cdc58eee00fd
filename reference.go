// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Units of reference polygon vertices.
const (
	Radians = "radians"
	Degrees = "degrees"
)

// DefaultReference holds the vertices of the default reference polygon
// as (latitude, longitude) pairs in radians.
var DefaultReference = [][2]float64{
	{0.659966917655, -2.1364398519396},
	{0.6595011102219, -2.1359434279405},
	{0.6583348114025, -2.1354884206045},
	{0.6581220034068, -2.1382437718946},
	{0.6594479998527, -2.1384597563896},
	{0.6599990002976, -2.1376771158464},
}

// DefaultMargin is the padding in degrees added on each side of the
// reference polygon to get the frame extent.
const DefaultMargin = 0.05

// NewReference creates the reference polygon from (latitude, longitude)
// vertices in the given units. The returned polygon has one closed ring
// of longitude/latitude points in degrees.
func NewReference(vertices [][2]float64, units string) (geom.Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("hexframes: reference polygon needs at least 3 vertices, got %d", len(vertices))
	}
	var scale float64
	switch units {
	case Radians, "":
		scale = 180 / math.Pi
	case Degrees:
		scale = 1
	default:
		return nil, fmt.Errorf("hexframes: unknown reference units %q", units)
	}
	ring := make([]geom.Point, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, geom.Point{X: v[1] * scale, Y: v[0] * scale})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return geom.Polygon{ring}, nil
}

// Extent returns the bounds of ref grown by margin on every side.
func Extent(ref geom.Polygon, margin float64) *geom.Bounds {
	b := ref.Bounds()
	return &geom.Bounds{
		Min: geom.Point{X: b.Min.X - margin, Y: b.Min.Y - margin},
		Max: geom.Point{X: b.Max.X + margin, Y: b.Max.Y + margin},
	}
}

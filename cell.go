// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/uber/h3-go/v4"
)

// GeometryResolutionError is returned when a cell identifier can not be
// resolved to a boundary.
type GeometryResolutionError struct {
	Cell string
	Err  error
}

func (e *GeometryResolutionError) Error() string {
	return fmt.Sprintf("hexframes: resolving cell %q: %v", e.Cell, e.Err)
}

func (e *GeometryResolutionError) Unwrap() error { return e.Err }

var errInvalidCell = errors.New("not a valid H3 cell index")

// ResolveCell returns the boundary of the H3 cell with the given
// hexadecimal identifier as a polygon with a single closed ring of
// longitude/latitude points in degrees.
func ResolveCell(id string) (geom.Polygon, error) {
	s := strings.TrimSpace(id)
	if len(s) > 2 && strings.EqualFold(s[:2], "0x") {
		s = s[2:]
	}
	if s == "" {
		return nil, &GeometryResolutionError{Cell: id, Err: errors.New("empty cell identifier")}
	}
	c := h3.Cell(h3.IndexFromString(s))
	if !c.IsValid() {
		return nil, &GeometryResolutionError{Cell: id, Err: errInvalidCell}
	}
	b := c.Boundary()
	if len(b) < 3 {
		return nil, &GeometryResolutionError{Cell: id, Err: fmt.Errorf("boundary has %d vertices", len(b))}
	}
	ring := make([]geom.Point, 0, len(b)+1)
	for _, ll := range b {
		ring = append(ring, geom.Point{X: ll.Lng, Y: ll.Lat})
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}, nil
}

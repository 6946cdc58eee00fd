// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

type empty struct{}

// hull merges polygons that share edges into their outline.
type hull struct {
	// graph holds directed edges of the outline. The key of the
	// outer map is the start of each edge and the key of the inner
	// map is its end.
	graph map[geom.Point]map[geom.Point]empty

	tolerance float64
}

// FoundRegion merges the saved cell boundaries into the outline of the
// region they cover. Edges shared by two cells cancel out, so adjacent
// cells become one ring and holes become extra rings. Vertices closer
// than tolerance degrees are treated as the same point.
func FoundRegion(saved Saved, tolerance float64) (geom.Polygon, error) {
	h := hull{
		graph:     make(map[geom.Point]map[geom.Point]empty),
		tolerance: tolerance,
	}
	for _, poly := range saved {
		for _, r := range poly {
			if len(r) < 2 {
				continue
			}
			for i := 0; i < len(r)-1; i++ {
				h.addToGraph(segment{start: r[i], end: r[i+1]})
			}
			if r[0] != r[len(r)-1] {
				h.addToGraph(segment{start: r[len(r)-1], end: r[0]})
			}
		}
	}
	return h.polygon()
}

// addToGraph adds seg to the graph, or removes the opposite edge if
// it is already there.
func (h *hull) addToGraph(seg segment) {
	if seg.start.Equals(seg.end) {
		return
	}

	// Snap the ends to existing points within tolerance.
	for p1, x := range h.graph {
		if seg.start != p1 && seg.end != p1 {
			if math.Hypot(p1.X-seg.start.X, p1.Y-seg.start.Y) < h.tolerance {
				seg.start = p1
			}
			if math.Hypot(p1.X-seg.end.X, p1.Y-seg.end.Y) < h.tolerance {
				seg.end = p1
			}
		}
		for p2 := range x {
			if seg.start == p2 || seg.end == p2 {
				break
			}
			if math.Hypot(p2.X-seg.start.X, p2.Y-seg.start.Y) < h.tolerance {
				seg.start = p2
			}
			if math.Hypot(p2.X-seg.end.X, p2.Y-seg.end.Y) < h.tolerance {
				seg.end = p2
			}
		}
	}

	if _, ok := h.graph[seg.end][seg.start]; ok {
		// Shared edge of two neighbouring cells.
		h.remove(seg.end, seg.start)
		return
	}
	if _, ok := h.graph[seg.start][seg.end]; ok {
		h.remove(seg.start, seg.end)
		return
	}
	if _, ok := h.graph[seg.start]; !ok {
		h.graph[seg.start] = make(map[geom.Point]empty)
	}
	h.graph[seg.start][seg.end] = empty{}
}

func (h *hull) remove(start, end geom.Point) {
	delete(h.graph[start], end)
	if len(h.graph[start]) == 0 {
		delete(h.graph, start)
	}
}

// segment is an edge of a polygon.
type segment struct {
	start, end geom.Point
}

func (h *hull) polygon() (geom.Polygon, error) {
	var p geom.Polygon
	for len(h.graph) > 0 {
		r, err := h.ring()
		if err != nil {
			return nil, err
		}
		p = append(p, r)
	}
	return p, nil
}

// ring removes one closed ring from the graph.
func (h *hull) ring() ([]geom.Point, error) {
	var p geom.Point
	for p = range h.graph {
		break
	}
	r := []geom.Point{p}
	for {
		if n := len(h.graph[p]); n != 1 {
			return nil, fmt.Errorf("hexframes: found region vertex %v has %d outgoing edges", p, n)
		}
		for pp := range h.graph[p] {
			r = append(r, pp)
			h.remove(p, pp)
			p = pp
		}
		if r[0] == r[len(r)-1] {
			return r, nil
		}
	}
}

// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"errors"
	"testing"
)

func TestResolveCell(t *testing.T) {
	for _, id := range []string{"8928308280fffff", " 8928308280fffff ", "0x8928308280fffff"} {
		p, err := ResolveCell(id)
		if err != nil {
			t.Fatalf("%q: %v", id, err)
		}
		if len(p) != 1 {
			t.Fatalf("%q: want 1 ring, have %d", id, len(p))
		}
		r := p[0]
		if len(r) != 7 {
			t.Errorf("%q: want 7 points in closed hexagon ring, have %d", id, len(r))
		}
		if r[0] != r[len(r)-1] {
			t.Errorf("%q: ring is not closed", id)
		}
		// The cell is in San Francisco; points are longitude, latitude.
		for _, pt := range r {
			if pt.X < -122.5 || pt.X > -122.3 || pt.Y < 37.7 || pt.Y > 37.8 {
				t.Errorf("%q: point %v is outside San Francisco", id, pt)
			}
		}
	}
}

func TestResolveCellInvalid(t *testing.T) {
	for _, id := range []string{"", "not-a-cell", "0", "ffffffffffffffff"} {
		_, err := ResolveCell(id)
		var gerr *GeometryResolutionError
		if !errors.As(err, &gerr) {
			t.Errorf("%q: want GeometryResolutionError, have %v", id, err)
			continue
		}
		if gerr.Cell != id {
			t.Errorf("want cell %q in error, have %q", id, gerr.Cell)
		}
	}
}

// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	ref, err := NewReference(DefaultReference, Radians)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(ref)
	r.OutDir = t.TempDir()
	return r
}

var testRows = []Row{
	{Cell: "8928308280fffff", Type: "eval"},
	{Cell: "8928308280bffff", Type: "found"},
	{Cell: "89283082807ffff", Type: "eval2"},
}

func TestComposeSequence(t *testing.T) {
	r := testRenderer(t)
	found, err := ResolveCell(testRows[1].Cell)
	if err != nil {
		t.Fatal(err)
	}

	wantColors := [][]string{
		{"b", ReferenceToken},
		{"g", ReferenceToken, SavedToken},
		{"y", ReferenceToken, SavedToken},
	}
	var saved Saved
	for i, row := range testRows {
		var f *Frame
		f, saved, err = r.Compose(i, row, saved)
		if err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
		if f.Index != i {
			t.Errorf("row %d: frame index %d", i, f.Index)
		}
		var colors []string
		for _, l := range f.Layers {
			colors = append(colors, l.Color)
		}
		if !reflect.DeepEqual(colors, wantColors[i]) {
			t.Errorf("row %d: want colours %v, have %v", i, wantColors[i], colors)
		}
		if want := len(wantColors[i]) - 2; f.NumSaved() != want {
			t.Errorf("row %d: want %d saved, have %d", i, want, f.NumSaved())
		}
		own, err := ResolveCell(row.Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(f.Layers[0].Boundary, own) {
			t.Errorf("row %d: first layer is not the row's own boundary", i)
		}
		if !reflect.DeepEqual(f.Layers[1].Boundary, r.Reference) {
			t.Errorf("row %d: second layer is not the reference polygon", i)
		}
		if i > 0 && !reflect.DeepEqual(f.Layers[2].Boundary, found) {
			t.Errorf("row %d: saved layer is not the found boundary", i)
		}
	}
	if len(saved) != 1 {
		t.Errorf("want 1 saved boundary after all rows, have %d", len(saved))
	}
}

func TestComposeSavedGrowth(t *testing.T) {
	r := testRenderer(t)
	rows := []Row{
		{"8928308280fffff", "found"},
		{"8928308280bffff", "eval"},
		{"89283082807ffff", "found2"},
		{"89283082877ffff", "other"},
		{"89283082803ffff", "found"},
	}
	var saved Saved
	var nFound int
	prev := 0
	for i, row := range rows {
		var f *Frame
		var err error
		f, saved, err = r.Compose(i, row, saved)
		if err != nil {
			t.Fatal(err)
		}
		if row.Category().IsFound() {
			nFound++
		}
		if len(saved) != nFound || f.NumSaved() != nFound {
			t.Errorf("row %d: want %d saved, have %d (frame %d)", i, nFound, len(saved), f.NumSaved())
		}
		if len(saved) < prev {
			t.Errorf("row %d: saved shrank from %d to %d", i, prev, len(saved))
		}
		prev = len(saved)
	}
	// Earlier found boundaries stay in order.
	for i, j := range []int{0, 2, 4} {
		want, err := ResolveCell(rows[j].Cell)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(saved[i], want) {
			t.Errorf("saved[%d] is not row %d", i, j)
		}
	}
}

func TestComposePassthroughColor(t *testing.T) {
	r := testRenderer(t)
	f, saved, err := r.Compose(0, Row{Cell: "8928308280fffff", Type: "m"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Layers[0].Color != "m" {
		t.Errorf("want passthrough colour m, have %q", f.Layers[0].Color)
	}
	if len(saved) != 0 {
		t.Errorf("unknown type was saved")
	}
}

func TestComposeExtent(t *testing.T) {
	r := testRenderer(t)
	want := Extent(r.Reference, DefaultMargin)
	var saved Saved
	for i, row := range testRows {
		f, next, err := r.Compose(i, row, saved)
		if err != nil {
			t.Fatal(err)
		}
		saved = next
		if !reflect.DeepEqual(f.Extent, want) {
			t.Errorf("frame %d: want extent %v, have %v", i, *want, *f.Extent)
		}
	}
}

func TestComposeInvalidCell(t *testing.T) {
	r := testRenderer(t)
	saved := Saved{geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}}
	_, have, err := r.Compose(3, Row{Cell: "bogus", Type: "found"}, saved)
	var gerr *GeometryResolutionError
	if !errors.As(err, &gerr) {
		t.Fatalf("want GeometryResolutionError, have %v", err)
	}
	if len(have) != 1 {
		t.Errorf("saved changed on error: %d", len(have))
	}
}

func TestSavedAppend(t *testing.T) {
	a := make(Saved, 1, 10)
	a[0] = geom.Polygon{{{X: 0, Y: 0}}}
	b := a.Append(geom.Polygon{{{X: 1, Y: 1}}})
	c := a.Append(geom.Polygon{{{X: 2, Y: 2}}})
	if len(a) != 1 || len(b) != 2 || len(c) != 2 {
		t.Fatalf("lengths %d %d %d", len(a), len(b), len(c))
	}
	if b[1][0][0].X != 1 {
		t.Errorf("appending to a changed b: %v", b)
	}
}

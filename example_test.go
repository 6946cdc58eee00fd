// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// This example renders one frame per row of a small report of H3
// cells in San Francisco and exports the cells that were found.
func Example() {
	// Read the report. Each row is a cell and the type of
	// result it was.
	rows, err := ParseReport(strings.NewReader(`cell,type
8928308280fffff,eval
8928308280bffff,found
89283082807ffff,eval2
89283082803ffff,found2
`))
	if err != nil {
		log.Panic(err)
	}

	// The output directory must exist before rendering.
	dir, err := os.MkdirTemp("", "hexframes")
	if err != nil {
		log.Panic(err)
	}
	defer os.RemoveAll(dir)

	ref, err := NewReference(DefaultReference, Radians)
	if err != nil {
		log.Panic(err)
	}
	r := NewRenderer(ref)
	r.OutDir = dir
	r.DPI = 50 // Frames are 320x240 pixels.

	var saved Saved
	for i, row := range rows {
		f, next, err := r.Compose(i, row, saved)
		if err != nil {
			log.Panic(err)
		}
		path, err := r.Save(context.Background(), f)
		if err != nil {
			log.Panic(err)
		}
		saved = next
		fmt.Printf("%s: %s drawn in %s with %d found\n",
			filepath.Base(path), row.Cell, f.Layers[0].Color, f.NumSaved())
	}

	// Write the found cells and the region they cover.
	shp := filepath.Join(dir, "found.shp")
	if err := ExportFound(shp, rows, saved, 1e-9); err != nil {
		log.Panic(err)
	}
	region, err := FoundRegion(saved, 1e-9)
	if err != nil {
		log.Panic(err)
	}
	fmt.Printf("found region has %d ring(s)\n", len(region))

	// Output:
	// 0.png: 8928308280fffff drawn in b with 0 found
	// 1.png: 8928308280bffff drawn in g with 1 found
	// 2.png: 89283082807ffff drawn in y with 1 found
	// 3.png: 89283082803ffff drawn in g with 2 found
	// found region has 1 ring(s)
}

// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// foundCell is a shapefile record of a found cell.
type foundCell struct {
	geom.Polygon
	Row  int
	Cell string
	Type string
}

// foundRegion is a shapefile record of the merged found region.
type foundRegion struct {
	geom.Polygon
	Cells int
}

// RegionPath returns the path of the merged region shapefile written
// next to the found cell shapefile at path.
func RegionPath(path string) string {
	return strings.TrimSuffix(path, ".shp") + "_region.shp"
}

// ExportFound writes the saved boundaries as a shapefile at path, one
// record per found row, and the region they cover, merged with
// FoundRegion, to RegionPath(path). The found rows of rows must match
// saved one to one.
func ExportFound(path string, rows []Row, saved Saved, tolerance float64) error {
	var recs []foundCell
	for i, row := range rows {
		if !row.Category().IsFound() {
			continue
		}
		if len(recs) == len(saved) {
			return fmt.Errorf("hexframes: more found rows than saved boundaries (%d)", len(saved))
		}
		recs = append(recs, foundCell{
			Polygon: saved[len(recs)],
			Row:     i,
			Cell:    row.Cell,
			Type:    row.Type,
		})
	}
	if len(recs) != len(saved) {
		return fmt.Errorf("hexframes: %d found rows for %d saved boundaries", len(recs), len(saved))
	}

	e, err := shp.NewEncoder(path, foundCell{})
	if err != nil {
		return fmt.Errorf("hexframes: creating %s: %w", path, err)
	}
	defer e.Close()
	for _, r := range recs {
		if err := e.Encode(r); err != nil {
			return fmt.Errorf("hexframes: writing %s: %w", path, err)
		}
	}

	if len(saved) == 0 {
		return nil
	}
	region, err := FoundRegion(saved, tolerance)
	if err != nil {
		return err
	}
	rpath := RegionPath(path)
	re, err := shp.NewEncoder(rpath, foundRegion{})
	if err != nil {
		return fmt.Errorf("hexframes: creating %s: %w", rpath, err)
	}
	defer re.Close()
	if err := re.Encode(foundRegion{Polygon: region, Cells: len(saved)}); err != nil {
		return fmt.Errorf("hexframes: writing %s: %w", rpath, err)
	}
	return nil
}

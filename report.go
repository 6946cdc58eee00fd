// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is a single record of a cell report.
type Row struct {
	// Cell is the H3 index of the row, as a hexadecimal string.
	Cell string

	// Type is the category label of the row, e.g. "eval" or "found".
	Type string
}

// Category returns the row type as a Category.
func (r Row) Category() Category { return Category(r.Type) }

const (
	cellColumn = "cell"
	typeColumn = "type"
)

// ReadReport reads the rows of the report at path. Files ending in
// .xlsx are read from their first sheet; anything else is read as CSV.
// The first row must be a header holding "cell" and "type" columns.
func ReadReport(path string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("hexframes: reading %s: %w", path, err)
	}
	return rows, nil
}

// ParseReport parses a CSV cell report from r.
func ParseReport(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return rowsFromRecords(recs)
}

func readXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("hexframes: %s has no sheets", path)
	}
	recs, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("hexframes: reading %s: %w", path, err)
	}
	// GetRows drops trailing empty cells.
	for i := 1; i < len(recs); i++ {
		for len(recs[i]) < len(recs[0]) {
			recs[i] = append(recs[i], "")
		}
	}
	rows, err := rowsFromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("hexframes: reading %s: %w", path, err)
	}
	return rows, nil
}

// rowsFromRecords converts raw records, header first, into rows.
func rowsFromRecords(recs [][]string) ([]Row, error) {
	if len(recs) == 0 {
		return nil, errors.New("empty report")
	}
	idxCell, idxType := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case cellColumn:
			if idxCell == -1 {
				idxCell = i
			}
		case typeColumn:
			if idxType == -1 {
				idxType = i
			}
		}
	}
	if idxCell == -1 || idxType == -1 {
		return nil, fmt.Errorf("report header %q lacks %q and %q columns", recs[0], cellColumn, typeColumn)
	}
	rows := make([]Row, 0, len(recs)-1)
	for i, rec := range recs[1:] {
		if idxCell >= len(rec) || idxType >= len(rec) {
			// i+2 is the 1-based line number, counting the header.
			return nil, fmt.Errorf("report line %d: got %d fields", i+2, len(rec))
		}
		rows = append(rows, Row{
			Cell: strings.TrimSpace(rec[idxCell]),
			Type: strings.TrimSpace(rec[idxType]),
		})
	}
	return rows, nil
}

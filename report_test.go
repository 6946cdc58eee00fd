// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseReport(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Row
	}{
		{
			name: "basic",
			in:   "cell,type\n8928308280fffff,eval\n8928308280bffff,found\n",
			want: []Row{{"8928308280fffff", "eval"}, {"8928308280bffff", "found"}},
		},
		{
			name: "header case and extra columns",
			in:   "n, Type ,CELL\n0,found2,8928308280fffff\n1,other,89283082807ffff\n",
			want: []Row{{"8928308280fffff", "found2"}, {"89283082807ffff", "other"}},
		},
		{
			name: "header only",
			in:   "cell,type\n",
			want: []Row{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			have, err := ParseReport(strings.NewReader(test.in))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("want %v, have %v", test.want, have)
			}
		})
	}
}

func TestParseReportErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":        "",
		"missing type": "cell,kind\n8928308280fffff,eval\n",
		"missing cell": "id,type\n8928308280fffff,eval\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseReport(strings.NewReader(in)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestReadReport(t *testing.T) {
	rows, err := ReadReport(filepath.Join("testdata", "report.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{
		{"8928308280fffff", "eval"},
		{"8928308280bffff", "found"},
		{"89283082807ffff", "eval2"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("want %v, have %v", want, rows)
	}
}

func TestReadReportMissing(t *testing.T) {
	if _, err := ReadReport(filepath.Join(t.TempDir(), "report.csv")); err == nil {
		t.Error("expected an error for a missing report")
	}
}

func TestReadReportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	records := [][]interface{}{
		{"type", "cell"},
		{"eval", "8928308280fffff"},
		{"found", "8928308280bffff"},
	}
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	rows, err := ReadReport(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []Row{{"8928308280fffff", "eval"}, {"8928308280bffff", "found"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("want %v, have %v", want, rows)
	}
}

// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Category is the type label of a report row.
type Category string

// Known categories.
const (
	Eval   Category = "eval"
	Eval2  Category = "eval2"
	Found  Category = "found"
	Found2 Category = "found2"
)

// IsFound reports whether cells of category c are kept in the saved
// layer of every later frame.
func (c Category) IsFound() bool {
	return c == Found || c == Found2
}

// Colour tokens for the layers that do not depend on a row.
const (
	ReferenceToken = "r"
	SavedToken     = "g"
)

// Palette maps categories to colour tokens. A token is anything
// ParseColor accepts.
type Palette map[Category]string

// DefaultPalette returns the blue/yellow/green palette.
func DefaultPalette() Palette {
	return Palette{
		Eval:   "b",
		Eval2:  "y",
		Found:  "g",
		Found2: "g",
	}
}

// Token returns the colour token for a row type. Types that are not in
// the palette are used as colour tokens themselves.
func (p Palette) Token(typ string) string {
	if t, ok := p[Category(typ)]; ok {
		return t
	}
	return typ
}

// shortColors are the single-letter colour codes used by matplotlib.
var shortColors = map[string]color.NRGBA{
	"b": {R: 0, G: 0, B: 255, A: 255},
	"g": {R: 0, G: 128, B: 0, A: 255},
	"r": {R: 255, G: 0, B: 0, A: 255},
	"c": {R: 0, G: 191, B: 191, A: 255},
	"m": {R: 191, G: 0, B: 191, A: 255},
	"y": {R: 191, G: 191, B: 0, A: 255},
	"k": {R: 0, G: 0, B: 0, A: 255},
	"w": {R: 255, G: 255, B: 255, A: 255},
}

// tableau holds the Tableau 10 colours, which are also the default
// colour cycle C0 to C9.
var tableau = []struct {
	name string
	hex  string
}{
	{"blue", "1f77b4"},
	{"orange", "ff7f0e"},
	{"green", "2ca02c"},
	{"red", "d62728"},
	{"purple", "9467bd"},
	{"brown", "8c564b"},
	{"pink", "e377c2"},
	{"gray", "7f7f7f"},
	{"olive", "bcbd22"},
	{"cyan", "17becf"},
}

// ParseColor converts a colour token into a colour. Accepted tokens are
// single-letter codes (b, g, r, c, m, y, k, w), hexadecimal colours
// (#rgb, #rrggbb, #rrggbbaa), SVG colour names, Tableau names
// (tab:blue ... tab:cyan), colour cycle entries (C0, C1, ...) and grey
// levels written as a number between 0 and 1, such as "0.5".
func ParseColor(token string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(token))
	if c, ok := shortColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:], token)
	}
	if name, ok := strings.CutPrefix(s, "tab:"); ok {
		if name == "grey" {
			name = "gray"
		}
		for _, t := range tableau {
			if t.name == name {
				return parseHexColor(t.hex, token)
			}
		}
		return nil, fmt.Errorf("hexframes: invalid colour %q", token)
	}
	if n, ok := strings.CutPrefix(s, "c"); ok {
		if i, err := strconv.Atoi(n); err == nil && i >= 0 && !strings.HasPrefix(n, "+") {
			return parseHexColor(tableau[i%len(tableau)].hex, token)
		}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if !(v >= 0 && v <= 1) {
			return nil, fmt.Errorf("hexframes: grey level %q is outside [0, 1]", token)
		}
		l := uint8(math.Round(v * 255))
		return color.NRGBA{R: l, G: l, B: l, A: 255}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("hexframes: invalid colour %q", token)
}

func parseHexColor(h, token string) (color.Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return nil, fmt.Errorf("hexframes: invalid colour %q", token)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("hexframes: invalid colour %q", token)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

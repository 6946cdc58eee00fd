// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hexframes renders animation frames from reports of H3 cells.
// Each report row becomes one map frame: the row's cell boundary drawn
// in a colour chosen by its category, a fixed reference polygon, and
// every cell found so far, all over a web-map basemap.
package hexframes

// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Geoid undulation grids: single-band rasters giving the ellipsoid-to-geoid
// separation, sampled by bilinear interpolation to convert ellipsoidal
// heights to orthometric ones. Grid files are read fully into memory and
// closed straight away - nothing stays open for the life of the process.
package geoid

import (
	"math"

	"github.com/pkg/errors"
)

// Grid - one geoid undulation raster held in memory
type Grid struct {
	Rows int
	Cols int

	values    []float64 // row-major, Rows*Cols
	transform Affine
	inverse   inverseAffine
}

// NewGrid - wraps raster values with their georeferencing transform.
// values must have rows*cols entries.
func NewGrid(rows int, cols int, values []float64, transform Affine) (*Grid, error) {
	if len(values) != rows*cols {
		return nil, errValueCount(rows, cols, len(values))
	}

	inv, err := transform.invert()
	if err != nil {
		return nil, err
	}

	return &Grid{
		Rows:      rows,
		Cols:      cols,
		values:    values,
		transform: transform,
		inverse:   inv,
	}, nil
}

func errValueCount(rows int, cols int, got int) error {
	return errors.Errorf("geoid grid size mismatch: %vx%v needs %v samples, got %v", rows, cols, rows*cols, got)
}

func (g *Grid) Transform() Affine {
	return g.transform
}

// ValueAt - the raw sample at (row, col), with indices clamped to the grid
func (g *Grid) ValueAt(row int, col int) float64 {
	row = clampIndex(row, g.Rows)
	col = clampIndex(col, g.Cols)
	return g.values[row*g.Cols+col]
}

// Bilinear - interpolates the grid at a fractional (row, col). The four
// neighbouring samples are area-weighted by the fractional offsets; indices
// are clamped at the grid edges, so queries outside the raster return the
// nearest edge value rather than reading out of bounds. A query exactly on a
// sample point returns that sample.
func (g *Grid) Bilinear(row float64, col float64) float64 {
	r0 := int(math.Floor(row))
	r1 := r0 + 1
	c0 := int(math.Floor(col))
	c1 := c0 + 1

	// Weights from the unclamped fractional position, neighbours clamped
	wr := row - math.Floor(row)
	wc := col - math.Floor(col)

	v00 := g.ValueAt(r0, c0)
	v01 := g.ValueAt(r0, c1)
	v10 := g.ValueAt(r1, c0)
	v11 := g.ValueAt(r1, c1)

	top := v00*(1.0-wc) + v01*wc
	bottom := v10*(1.0-wc) + v11*wc
	return top*(1.0-wr) + bottom*wr
}

// UndulationAt - the interpolated geoid undulation at world (x, y), in the
// grid's native CRS (typically lon/lat degrees for geoid models)
func (g *Grid) UndulationAt(x float64, y float64) float64 {
	col, row := g.inverse.worldToPixel(x, y)
	return g.Bilinear(row, col)
}

func clampIndex(i int, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

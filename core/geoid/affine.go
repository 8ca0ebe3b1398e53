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

package geoid

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Affine - the georeferencing transform of a raster, mapping fractional pixel
// (col, row) to world (x, y):
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// Integer (col, row) address grid sample points. For north-up rasters B and D
// are zero and E is negative (row grows southward).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// inverseAffine - cached world->pixel inverse of an Affine
type inverseAffine struct {
	inv    mat.Dense
	cx, cy float64
}

// PixelToWorld - maps fractional (col, row) to world (x, y)
func (t Affine) PixelToWorld(col float64, row float64) (float64, float64) {
	x := t.A*col + t.B*row + t.C
	y := t.D*col + t.E*row + t.F
	return x, y
}

// invert - builds the world->pixel inverse. Fails for degenerate transforms
// (zero pixel size), which indicate a broken grid file.
func (t Affine) invert() (inverseAffine, error) {
	m := mat.NewDense(2, 2, []float64{t.A, t.B, t.D, t.E})

	result := inverseAffine{cx: t.C, cy: t.F}
	if err := result.inv.Inverse(m); err != nil {
		return result, errors.Wrap(err, "raster transform is not invertible")
	}
	return result, nil
}

// worldToPixel - maps world (x, y) to fractional (col, row)
func (ia *inverseAffine) worldToPixel(x float64, y float64) (float64, float64) {
	dx := x - ia.cx
	dy := y - ia.cy
	col := ia.inv.At(0, 0)*dx + ia.inv.At(0, 1)*dy
	row := ia.inv.At(1, 0)*dx + ia.inv.At(1, 1)*dy
	return col, row
}

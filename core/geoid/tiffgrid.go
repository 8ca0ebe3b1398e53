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
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"

	"github.com/uasimaging/preproc/core/utils"
)

// ReadTIFFGrid - reads a geoid grid from a single-band greyscale TIFF with an
// ESRI world file (.tfw) supplying the affine transform. Quantised geoid
// rasters store integer sample levels, so the real undulation is
// level*scale+offset - the caller supplies the quantisation used when the
// raster was produced (scale 1, offset 0 for unscaled grids).
func ReadTIFFGrid(tiffPath string, worldPath string, scale float64, offset float64) (*Grid, error) {
	transform, err := readWorldFile(worldPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(tiffPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open geoid grid: %v", tiffPath)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode geoid grid: %v", tiffPath)
	}

	bounds := img.Bounds()
	rows := bounds.Dy()
	cols := bounds.Dx()
	values := make([]float64, 0, rows*cols)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			values = append(values, sampleLevel(img, x, y)*scale+offset)
		}
	}

	return NewGrid(rows, cols, values, transform)
}

// sampleLevel - the raw band level of a pixel, preserving 16 bit precision
// where the source has it
func sampleLevel(img image.Image, x int, y int) float64 {
	switch p := img.(type) {
	case *image.Gray:
		return float64(p.GrayAt(x, y).Y)
	case *image.Gray16:
		return float64(p.Gray16At(x, y).Y)
	}

	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r+g+b) / 3.0
}

// readWorldFile - parses the 6-line ESRI world file format: x pixel size,
// row rotation, column rotation, y pixel size (negative for north-up),
// then x and y of the top-left sample point.
func readWorldFile(path string) (Affine, error) {
	result := Affine{}

	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return result, errors.Wrapf(err, "failed to read world file: %v", path)
	}

	vals := []float64{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return result, errors.Errorf("world file %v: bad value: %v", path, line)
		}
		vals = append(vals, v)
	}

	if len(vals) != 6 {
		return result, errors.Errorf("world file %v: expected 6 values, got %v", path, len(vals))
	}

	result.A = vals[0]
	result.D = vals[1]
	result.B = vals[2]
	result.E = vals[3]
	result.C = vals[4]
	result.F = vals[5]
	return result, nil
}

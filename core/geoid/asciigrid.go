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
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/utils"
)

// ReadASCIIGrid - reads an ESRI ASCII grid (.asc), the format national geoid
// models are commonly distributed in. Header rows (ncols, nrows, xllcorner,
// yllcorner, cellsize, optional nodata_value) are followed by nrows of
// whitespace-separated samples, top row first. Nodata samples become NaN,
// which then propagates through interpolation.
func ReadASCIIGrid(path string) (*Grid, error) {
	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read geoid grid: %v", path)
	}

	header := map[string]float64{}
	dataStart := 0

	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 2 && !isNumeric(fields[0]) {
			val, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, errors.Errorf("geoid grid %v: bad header line %v: %v", path, i+1, line)
			}
			header[strings.ToLower(fields[0])] = val
			dataStart = i + 1
		} else {
			break
		}
	}

	for _, required := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[required]; !ok {
			return nil, errors.Errorf("geoid grid %v: missing header field %v", path, required)
		}
	}

	cols := int(header["ncols"])
	rows := int(header["nrows"])
	cellSize := header["cellsize"]
	if cols <= 0 || rows <= 0 || cellSize <= 0 {
		return nil, errors.Errorf("geoid grid %v: invalid dimensions %vx%v cell %v", path, rows, cols, cellSize)
	}

	noData := math.Inf(-1)
	hasNoData := false
	if v, ok := header["nodata_value"]; ok {
		noData = v
		hasNoData = true
	}

	values := make([]float64, 0, rows*cols)
	for _, line := range lines[dataStart:] {
		for _, field := range strings.Fields(line) {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Errorf("geoid grid %v: bad sample value: %v", path, field)
			}
			if hasNoData && val == noData {
				val = math.NaN()
			}
			values = append(values, val)
		}
	}

	if len(values) != rows*cols {
		return nil, errors.Errorf("geoid grid %v: %vx%v needs %v samples, got %v", path, rows, cols, rows*cols, len(values))
	}

	// Sample points sit at cell centres: llcorner refers to the outer corner
	// of the bottom-left cell, the top row of samples is row 0.
	transform := Affine{
		A: cellSize, B: 0, C: header["xllcorner"] + cellSize/2.0,
		D: 0, E: -cellSize, F: header["yllcorner"] + (float64(rows)-0.5)*cellSize,
	}

	return NewGrid(rows, cols, values, transform)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

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

// Parser for the RTK event marker log (.MRK) written next to the images on
// the drone's memory card. Each line is one camera trigger event: the
// receiver's position at exposure time plus quality/std-dev data, keyed by
// the same progressive ID the image file names carry.
package mrklog

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/core/utils"
)

// Record - one camera trigger event from the marker log. Built once at parse
// time, never mutated after.
type Record struct {
	ID        int
	ClockTime float64 // GPS seconds of week

	// Position at exposure, geographic in the receiver's configured datum
	Lat  float64 // degrees
	Lon  float64 // degrees
	Ellh float64 // metres, ellipsoidal

	// Positional standard deviations, metres
	StdE float64
	StdN float64
	StdV float64

	// Antenna phase centre to camera baseline deltas, millimetres as logged
	DE float64
	DN float64
	DV float64

	// Solution quality code (eg 50=fixed, 16=float, 1=autonomous). Log format
	// specific - carried through as an opaque code, never interpreted here.
	Qual float64

	// Trailing flag string, passed through untouched
	Flag string
}

// Field positions within a marker log line. These are format constants - the
// vendor pads lines with unit annotations between values, so the positions
// are fixed, not inferred.
const (
	fieldID        = 0
	fieldClockTime = 1
	fieldDN        = 3
	fieldDE        = 5
	fieldDV        = 7
	fieldLat       = 9
	fieldLon       = 11
	fieldEllh      = 13
	fieldStdN      = 15
	fieldStdE      = 16
	fieldStdV      = 17
	fieldQual      = 18
	fieldFlag      = 19
)

const minLineFields = 20

// MarkerLogExtension - expected extension of event marker logs
const MarkerLogExtension = ".mrk"

// Read - parses a marker log into records keyed by point ID.
//
// A malformed line fails the whole parse: the field layout is a format
// invariant, so one misaligned line almost always means the file is the wrong
// format or version, and silently dropping trigger events would corrupt the
// image correlation downstream. Duplicate IDs are last-write-wins (the
// receiver rewrites an event when it refines the solution). IDs outside
// 0-999 are kept but logged, since the camera file name counter wraps at
// 1000 and such flights risk ID collisions.
func Read(path string, jobLog logger.ILogger) (map[int]Record, error) {
	if !strings.EqualFold(filepath.Ext(path), MarkerLogExtension) {
		return nil, errors.Errorf("marker log %v: expected a %v file", path, MarkerLogExtension)
	}

	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read marker log: %v", path)
	}

	result := map[int]Record{}

	for i, line := range lines {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "marker log %v line %v", path, i+1)
		}

		if rec.ID < 0 || rec.ID > 999 {
			jobLog.Errorf("Marker log %v line %v: event ID %v is outside 0-999, image name correlation may collide", path, i+1, rec.ID)
		}
		if _, exists := result[rec.ID]; exists {
			jobLog.Debugf("Marker log %v line %v: duplicate event ID %v, keeping later entry", path, i+1, rec.ID)
		}

		result[rec.ID] = rec
	}

	if len(result) == 0 {
		return nil, errors.Errorf("marker log %v contained no events", path)
	}

	jobLog.Infof("Read %v events from marker log %v", len(result), path)
	return result, nil
}

// splitLine - marker logs mix comma, tab and pipe separators within the same
// file, so split on the union of all three. Empty fields are kept: the field
// layout is positional, and dropping empties would silently shift every
// later field.
func splitLine(line string) []string {
	normalised := strings.Map(func(r rune) rune {
		if r == '\t' || r == '|' {
			return ','
		}
		return r
	}, line)

	fields := strings.Split(normalised, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseLine(line string) (Record, error) {
	result := Record{}

	fields := splitLine(line)
	if len(fields) < minLineFields {
		return result, errors.Errorf("expected at least %v fields, got %v", minLineFields, len(fields))
	}

	// The ID field may be rendered as a float by some firmware versions
	idVal, err := parseFloatField(fields, fieldID, "event ID")
	if err != nil {
		return result, err
	}
	result.ID = int(idVal)

	if result.ClockTime, err = parseFloatField(fields, fieldClockTime, "clock time"); err != nil {
		return result, err
	}
	if result.DN, err = parseFloatField(fields, fieldDN, "delta N"); err != nil {
		return result, err
	}
	if result.DE, err = parseFloatField(fields, fieldDE, "delta E"); err != nil {
		return result, err
	}
	if result.DV, err = parseFloatField(fields, fieldDV, "delta V"); err != nil {
		return result, err
	}
	if result.Lat, err = parseFloatField(fields, fieldLat, "latitude"); err != nil {
		return result, err
	}
	if result.Lon, err = parseFloatField(fields, fieldLon, "longitude"); err != nil {
		return result, err
	}
	if result.Ellh, err = parseFloatField(fields, fieldEllh, "ellipsoidal height"); err != nil {
		return result, err
	}
	if result.StdN, err = parseFloatField(fields, fieldStdN, "std N"); err != nil {
		return result, err
	}
	if result.StdE, err = parseFloatField(fields, fieldStdE, "std E"); err != nil {
		return result, err
	}
	if result.StdV, err = parseFloatField(fields, fieldStdV, "std V"); err != nil {
		return result, err
	}
	if result.Qual, err = parseFloatField(fields, fieldQual, "quality"); err != nil {
		return result, err
	}

	result.Flag = fields[fieldFlag]

	return result, nil
}

func parseFloatField(fields []string, idx int, what string) (float64, error) {
	val, err := strconv.ParseFloat(fields[idx], 64)
	if err != nil {
		return 0, errors.Errorf("bad %v field: %v", what, fields[idx])
	}
	return val, nil
}

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

// Report generation for correlated flights: a camera position CSV for
// photogrammetry software and a multi-sheet spreadsheet for inspection.
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
)

// QualityScaling maps GNSS solution quality codes to standard deviation scale
// factors. Each flag is compared against the event's quality code, and the
// matching factor is applied to the reported standard deviations. Carried as
// a value so two jobs in one process can scale differently.
type QualityScaling struct {
	// Flags in order: fixed, float, autonomous
	Flags   [3]float64
	Factors [3]float64
}

// DefaultQualityScaling - the DJI RTK quality codes, factors of 1
func DefaultQualityScaling() QualityScaling {
	return QualityScaling{
		Flags:   [3]float64{50, 16, 1},
		Factors: [3]float64{1, 1, 1},
	}
}

// FactorFor returns the scale factor for a quality code, false if the code
// matches none of the configured flags
func (q QualityScaling) FactorFor(qual float64) (float64, bool) {
	for i, flag := range q.Flags {
		if qual == flag {
			return q.Factors[i], true
		}
	}
	return 1, false
}

// Options - report configuration
type Options struct {
	// UseExifCoords fills the position columns from the camera EXIF block
	// instead of the marker log
	UseExifCoords bool

	// Projected adds easting/northing/height columns, filled from the
	// records' projected slots. ZoneLabel names them (eg "UTM32N").
	Projected bool
	ZoneLabel string

	Scaling QualityScaling
}

// BuildCSV renders the camera position file: one row per correlated event,
// skipping events without an image. The input records are not modified.
func BuildCSV(records map[int]*correlate.MergedRecord, opts Options, jobLog logger.ILogger) string {
	header := []string{
		"ID",
		"Image Name",
		"Image Path",
		"Date [yyyy:mm:dd]",
		"Time [hh:mm:ss]",
		"Lon [deg]",
		"Lat [deg]",
		"h [m]",
	}
	if opts.Projected {
		header = append(header,
			fmt.Sprintf("East %v [m]", opts.ZoneLabel),
			fmt.Sprintf("North %v [m]", opts.ZoneLabel),
			fmt.Sprintf("h %v [m]", opts.ZoneLabel),
		)
	}
	header = append(header, "stdE [m]", "stdN [m]", "stdV [m]")

	var sb strings.Builder
	sb.WriteString(strings.Join(header, ",") + "\n")

	for _, id := range correlate.SortedIDs(records) {
		rec := records[id]
		if rec == nil {
			jobLog.Debugf("Skipping event %v: no image on card", id)
			continue
		}

		lat, lon, ellh := rec.LatMrk, rec.LonMrk, rec.EllhMrk
		if opts.UseExifCoords {
			lat, lon, ellh = rec.LatExif, rec.LonExif, rec.EllhExif
		}

		factor, known := opts.Scaling.FactorFor(rec.QualMrk)
		if !known {
			jobLog.Errorf("Event %v has unknown quality code %v, standard deviations left unscaled", id, rec.QualMrk)
		}

		fields := []string{
			fmt.Sprintf("%v", rec.ID),
			filepath.Base(rec.PathExif),
			rec.PathExif,
			rec.DateExif,
			rec.TimeExif,
			fmt.Sprintf("%.8f", lon),
			fmt.Sprintf("%.8f", lat),
			fmt.Sprintf("%.3f", ellh),
		}
		if opts.Projected {
			fields = append(fields,
				fmt.Sprintf("%.3f", rec.E),
				fmt.Sprintf("%.3f", rec.N),
				fmt.Sprintf("%.3f", rec.H),
			)
		}
		fields = append(fields,
			fmt.Sprintf("%.4f", rec.StdEMrk*factor),
			fmt.Sprintf("%.4f", rec.StdNMrk*factor),
			fmt.Sprintf("%.4f", rec.StdVMrk*factor),
		)

		sb.WriteString(strings.Join(fields, ",") + "\n")
	}

	return sb.String()
}

// WriteCSV renders the camera position file and stores it through the given
// file access at root/path
func WriteCSV(fs fileaccess.FileAccess, root string, path string, records map[int]*correlate.MergedRecord, opts Options, jobLog logger.ILogger) error {
	csv := BuildCSV(records, opts, jobLog)

	err := fs.WriteObject(root, path, []byte(csv))
	if err != nil {
		return err
	}

	jobLog.Infof("Wrote camera position file: %v", path)
	return nil
}

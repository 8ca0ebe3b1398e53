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

// Reprojection of correlated flight records into a projected CRS. Picks one
// of the coordinate sets carried by each record (GNSS event, camera EXIF or
// the working copy), runs it through core/crs and writes the result back into
// the matching easting/northing/height slots.
package projection

import (
	"math"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/crs"
	"github.com/uasimaging/preproc/core/geoid"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
)

// FieldSet - which of a record's coordinate sets to project
type FieldSet int

const (
	// FieldsWorking projects the working Lat/Lon/Ellh copy into E/N/H
	FieldsWorking FieldSet = iota
	// FieldsMrk projects the marker log coordinates into EMrk/NMrk/HMrk
	FieldsMrk
	// FieldsExif projects the camera coordinates into EExif/NExif/HExif
	FieldsExif
)

func (f FieldSet) String() string {
	switch f {
	case FieldsWorking:
		return "working"
	case FieldsMrk:
		return "mrk"
	case FieldsExif:
		return "exif"
	}
	return "unknown"
}

// Options - configuration for one projection run
type Options struct {
	EPSGFrom int
	EPSGTo   int

	// Fields selects the coordinate set to project
	Fields FieldSet

	// WithHeight copies the ellipsoidal height into the height slot. The
	// planar transform does not touch heights, so without a geoid grid this
	// is a straight pass-through.
	WithHeight bool

	// Geoid, when set, converts ellipsoidal heights to orthometric ones
	// (H = ellh - undulation). Implies height output.
	Geoid *geoid.Grid

	// InPlace writes into the given records. When false the input is deep
	// copied first and never touched.
	InPlace bool
}

// Stats - what happened during a projection run
type Stats struct {
	Projected int
	Skipped   int
}

// Project reprojects the selected coordinate set of every record. Records that
// are nil (missing image) or carry NaN coordinates are skipped and counted.
// Configuration errors are reported before any record is touched.
func Project(records map[int]*correlate.MergedRecord, opts Options, jobLog logger.ILogger) (map[int]*correlate.MergedRecord, Stats, error) {
	stats := Stats{}

	transformer, err := crs.NewTransformer(opts.EPSGFrom, opts.EPSGTo)
	if err != nil {
		return nil, stats, err
	}
	if opts.Fields < FieldsWorking || opts.Fields > FieldsExif {
		return nil, stats, errors.Errorf("invalid field set: %v", int(opts.Fields))
	}

	if !opts.InPlace {
		records = correlate.DeepCopy(records)
	}

	for _, id := range correlate.SortedIDs(records) {
		rec := records[id]
		if rec == nil {
			stats.Skipped++
			continue
		}

		lat, lon, ellh := sourceFields(rec, opts.Fields)
		if math.IsNaN(lat) || math.IsNaN(lon) {
			jobLog.Debugf("Point %v has no %v coordinates, skipping", id, opts.Fields)
			stats.Skipped++
			continue
		}

		e, n, err := transformer.Transform(lat, lon)
		if err != nil {
			return nil, stats, errors.Wrapf(err, "point %v", id)
		}

		h := math.NaN()
		if opts.Geoid != nil {
			undulation := opts.Geoid.UndulationAt(lon, lat)
			if math.IsNaN(undulation) {
				jobLog.Errorf("Point %v is outside the geoid grid, height left unset", id)
			} else {
				h = ellh - undulation
			}
		} else if opts.WithHeight {
			h = ellh
		}

		writeFields(rec, opts.Fields, e, n, h)
		stats.Projected++
	}

	jobLog.Infof("Projected %v of %v points to %v", stats.Projected, len(records), transformer.To())
	return records, stats, nil
}

func sourceFields(rec *correlate.MergedRecord, fields FieldSet) (float64, float64, float64) {
	switch fields {
	case FieldsMrk:
		return rec.LatMrk, rec.LonMrk, rec.EllhMrk
	case FieldsExif:
		return rec.LatExif, rec.LonExif, rec.EllhExif
	}
	return rec.Lat, rec.Lon, rec.Ellh
}

func writeFields(rec *correlate.MergedRecord, fields FieldSet, e float64, n float64, h float64) {
	switch fields {
	case FieldsMrk:
		rec.EMrk, rec.NMrk, rec.HMrk = e, n, h
	case FieldsExif:
		rec.EExif, rec.NExif, rec.HExif = e, n, h
	default:
		rec.E, rec.N, rec.H = e, n, h
	}
}

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

// Joins marker log events to image EXIF records by progressive point ID.
// The marker log is authoritative for what was captured: every log event
// appears in the output, with a nil record marking an image the log promised
// but the card didn't deliver. Images without a log event are ignored - they
// weren't part of the RTK-triggered capture sequence.
package correlate

import (
	"math"
	"sort"

	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
	"github.com/uasimaging/preproc/flight-preproc/mrklog"
)

// MergedRecord - the join of one marker log event and its image. Fields carry
// a provenance suffix because the log and the EXIF block each measure the
// position independently and legitimately disagree.
//
// The E/N/H slots are filled later by the projector and start as NaN so
// "never projected" is distinguishable from a real zero coordinate.
type MergedRecord struct {
	ID int

	// From the marker log
	ClockTimeMrk float64
	LatMrk       float64
	LonMrk       float64
	EllhMrk      float64
	StdEMrk      float64
	StdNMrk      float64
	StdVMrk      float64
	DEMrk        float64
	DNMrk        float64
	DVMrk        float64
	QualMrk      float64
	FlagMrk      string

	// From the image EXIF block
	NameExif string
	PathExif string
	DateExif string
	TimeExif string
	LatExif  float64
	LonExif  float64
	EllhExif float64

	// Working coordinate fields, filled from the marker log. The report
	// generator can overwrite these with the EXIF values before output.
	Lat  float64
	Lon  float64
	Ellh float64
	StdE float64
	StdN float64
	StdV float64

	// Projected coordinates, one set per source
	E, N, H             float64
	EMrk, NMrk, HMrk    float64
	EExif, NExif, HExif float64
}

// Result - the correlated flight. Records holds one entry per marker log
// event; a nil value marks a missing image. Unmatched lists those IDs so the
// caller can see how many gaps there were without walking the map.
type Result struct {
	Records   map[int]*MergedRecord
	Unmatched []int
}

// UnmatchedCount - how many log events had no image on the card
func (r Result) UnmatchedCount() int {
	return len(r.Unmatched)
}

// newMergedRecord - all float fields that are filled later start as NaN
func newMergedRecord(id int) *MergedRecord {
	nan := math.NaN()
	return &MergedRecord{
		ID:   id,
		Lat:  nan, Lon: nan, Ellh: nan,
		StdE: nan, StdN: nan, StdV: nan,
		E: nan, N: nan, H: nan,
		EMrk: nan, NMrk: nan, HMrk: nan,
		EExif: nan, NExif: nan, HExif: nan,
	}
}

// Merge - left join of marker log events with image EXIF data on point ID
func Merge(logRecs map[int]mrklog.Record, exifRecs map[int]*imagemeta.ExifData, jobLog logger.ILogger) Result {
	result := Result{
		Records:   map[int]*MergedRecord{},
		Unmatched: []int{},
	}

	for id, logRec := range logRecs {
		exifRec, found := exifRecs[id]
		if !found || exifRec == nil {
			// The event stays visible as a nil entry - dropping it would hide
			// that the flight is missing an image
			result.Records[id] = nil
			result.Unmatched = append(result.Unmatched, id)
			jobLog.Errorf("No image found for marker log event %v", id)
			continue
		}

		rec := newMergedRecord(id)

		rec.ClockTimeMrk = logRec.ClockTime
		rec.LatMrk = logRec.Lat
		rec.LonMrk = logRec.Lon
		rec.EllhMrk = logRec.Ellh
		rec.StdEMrk = logRec.StdE
		rec.StdNMrk = logRec.StdN
		rec.StdVMrk = logRec.StdV
		rec.DEMrk = logRec.DE
		rec.DNMrk = logRec.DN
		rec.DVMrk = logRec.DV
		rec.QualMrk = logRec.Qual
		rec.FlagMrk = logRec.Flag

		// The marker log is the surveyed position, so it seeds the working copy
		rec.Lat = logRec.Lat
		rec.Lon = logRec.Lon
		rec.Ellh = logRec.Ellh
		rec.StdE = logRec.StdE
		rec.StdN = logRec.StdN
		rec.StdV = logRec.StdV

		rec.NameExif = exifRec.Name
		rec.PathExif = exifRec.Path
		rec.DateExif = exifRec.Date
		rec.TimeExif = exifRec.Time
		rec.LatExif = exifRec.Lat
		rec.LonExif = exifRec.Lon
		rec.EllhExif = exifRec.Ellh

		result.Records[id] = rec
	}

	sort.Ints(result.Unmatched)

	if len(result.Unmatched) > 0 {
		jobLog.Infof("Correlated %v events, %v without an image", len(result.Records), len(result.Unmatched))
	} else {
		jobLog.Infof("Correlated %v events, all matched", len(result.Records))
	}

	return result
}

// SortedIDs - record IDs in ascending order, for deterministic output files
func SortedIDs(records map[int]*MergedRecord) []int {
	ids := make([]int, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DeepCopy - copies a record map so callers can mutate the copy freely.
// Records are flat value structs, so a per-record struct copy is a full copy.
func DeepCopy(records map[int]*MergedRecord) map[int]*MergedRecord {
	result := make(map[int]*MergedRecord, len(records))
	for id, rec := range records {
		if rec == nil {
			result[id] = nil
			continue
		}
		copied := *rec
		result[id] = &copied
	}
	return result
}

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

package projection

import (
	"math"
	"testing"

	"github.com/uasimaging/preproc/core/geoid"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
	"github.com/uasimaging/preproc/flight-preproc/mrklog"
)

func makeRecords() map[int]*correlate.MergedRecord {
	logRecs := map[int]mrklog.Record{
		1:  {ID: 1, Lat: 45.463873, Lon: 9.190653, Ellh: 131.45},
		99: {ID: 99, Lat: 45.5, Lon: 9.2, Ellh: 130.0},
	}
	exifRecs := map[int]*imagemeta.ExifData{
		1: {ID: 1, Name: "DJI_0001", Lat: 45.46388, Lon: 9.19066, Ellh: 130.9},
	}
	return correlate.Merge(logRecs, exifRecs, &logger.NullLogger{}).Records
}

func TestProjectWorkingFields(t *testing.T) {
	records := makeRecords()
	out, stats, err := Project(records, Options{
		EPSGFrom:   4326,
		EPSGTo:     32632,
		Fields:     FieldsWorking,
		WithHeight: true,
	}, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if stats.Projected != 1 || stats.Skipped != 1 {
		t.Fatalf("stats: %+v", stats)
	}

	rec := out[1]
	if math.Abs(rec.E-514904.631) > 1e-3 || math.Abs(rec.N-5034500.589) > 1e-3 {
		t.Errorf("got E=%v N=%v", rec.E, rec.N)
	}
	if rec.H != 131.45 {
		t.Errorf("height should pass through unchanged, got %v", rec.H)
	}
	// The other provenance slots are untouched
	if !math.IsNaN(rec.EMrk) || !math.IsNaN(rec.EExif) {
		t.Errorf("only the working slots should be written")
	}
}

func TestProjectCopiesByDefault(t *testing.T) {
	records := makeRecords()
	out, _, err := Project(records, Options{
		EPSGFrom: 4326,
		EPSGTo:   32632,
		Fields:   FieldsMrk,
	}, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	if !math.IsNaN(records[1].EMrk) {
		t.Errorf("input must stay untouched when InPlace is false")
	}
	if math.IsNaN(out[1].EMrk) {
		t.Errorf("output must carry the projection")
	}
}

func TestProjectInPlaceMatchesCopy(t *testing.T) {
	opts := Options{EPSGFrom: 4326, EPSGTo: 32632, Fields: FieldsExif}

	copied, _, err := Project(makeRecords(), opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	inPlace := makeRecords()
	opts.InPlace = true
	out, _, err := Project(inPlace, opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	if out[1] != inPlace[1] {
		t.Errorf("InPlace must write into the given records")
	}
	if out[1].EExif != copied[1].EExif || out[1].NExif != copied[1].NExif {
		t.Errorf("in-place and copy runs must agree: %v vs %v", out[1].EExif, copied[1].EExif)
	}
}

func TestProjectConfigErrorLeavesInputAlone(t *testing.T) {
	records := makeRecords()

	// Same source and destination code is a configuration error
	_, _, err := Project(records, Options{
		EPSGFrom: 4326,
		EPSGTo:   4326,
		InPlace:  true,
	}, &logger.NullLogger{})
	if err == nil {
		t.Fatalf("expected config error")
	}
	if !math.IsNaN(records[1].E) {
		t.Errorf("records must not be touched on config error")
	}

	_, _, err = Project(records, Options{
		EPSGFrom: 4326,
		EPSGTo:   32632,
		Fields:   FieldSet(9),
		InPlace:  true,
	}, &logger.NullLogger{})
	if err == nil {
		t.Fatalf("expected invalid field set error")
	}
}

func TestProjectGeoidCorrection(t *testing.T) {
	// Constant 47m undulation over the Milan area
	values := make([]float64, 9)
	for i := range values {
		values[i] = 47
	}
	grid, err := geoid.NewGrid(3, 3, values, geoid.Affine{A: 1, B: 0, C: 9, D: 0, E: -1, F: 46})
	if err != nil {
		t.Fatalf("%v", err)
	}

	out, stats, err := Project(makeRecords(), Options{
		EPSGFrom: 4326,
		EPSGTo:   32632,
		Fields:   FieldsWorking,
		Geoid:    grid,
	}, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if stats.Projected != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if math.Abs(out[1].H-(131.45-47)) > 1e-9 {
		t.Errorf("orthometric height: got %v, want %v", out[1].H, 131.45-47)
	}
}

func TestProjectDeterministic(t *testing.T) {
	opts := Options{EPSGFrom: 4326, EPSGTo: 32632, Fields: FieldsWorking}

	a, _, err := Project(makeRecords(), opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}
	b, _, err := Project(makeRecords(), opts, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}
	if a[1].E != b[1].E || a[1].N != b[1].N {
		t.Errorf("repeat runs must be bit-identical: %v/%v vs %v/%v", a[1].E, a[1].N, b[1].E, b[1].N)
	}
}

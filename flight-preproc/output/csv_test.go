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

package output

import (
	"fmt"
	"strings"
	"testing"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
	"github.com/uasimaging/preproc/flight-preproc/mrklog"
)

func makeTestRecords() correlate.Result {
	logRecs := map[int]mrklog.Record{
		1: {ID: 1, ClockTime: 100.5, Lat: 45.463873, Lon: 9.190653, Ellh: 131.45,
			StdE: 0.021, StdN: 0.019, StdV: 0.046, Qual: 50, Flag: "FIX"},
		2: {ID: 2, ClockTime: 102.5, Lat: 45.463921, Lon: 9.1907, Ellh: 131.6,
			StdE: 0.1, StdN: 0.1, StdV: 0.2, Qual: 16, Flag: "FLT"},
		9: {ID: 9, ClockTime: 120.0, Lat: 45.5, Lon: 9.2, Ellh: 130.0, Qual: 50, Flag: "FIX"},
	}
	exifRecs := map[int]*imagemeta.ExifData{
		1: {ID: 1, Name: "DJI_0001", Path: "/card/DJI_0001.JPG",
			Date: "2023:04:05", Time: "09:17:33", Lat: 45.46388, Lon: 9.19066, Ellh: 130.9},
		2: {ID: 2, Name: "DJI_0002", Path: "/card/DJI_0002.JPG",
			Date: "2023:04:05", Time: "09:17:35", Lat: 45.46393, Lon: 9.19071, Ellh: 131.1},
	}
	return correlate.Merge(logRecs, exifRecs, &logger.NullLogger{})
}

func Example_buildCSV() {
	result := makeTestRecords()

	opts := Options{Scaling: DefaultQualityScaling()}
	opts.Scaling.Factors = [3]float64{1, 2, 5}

	csv := BuildCSV(result.Records, opts, &logger.NullLogger{})
	fmt.Print(csv)

	// Output:
	// ID,Image Name,Image Path,Date [yyyy:mm:dd],Time [hh:mm:ss],Lon [deg],Lat [deg],h [m],stdE [m],stdN [m],stdV [m]
	// 1,DJI_0001.JPG,/card/DJI_0001.JPG,2023:04:05,09:17:33,9.19065300,45.46387300,131.450,0.0210,0.0190,0.0460
	// 2,DJI_0002.JPG,/card/DJI_0002.JPG,2023:04:05,09:17:35,9.19070000,45.46392100,131.600,0.2000,0.2000,0.4000
}

func TestBuildCSVExifCoords(t *testing.T) {
	result := makeTestRecords()

	csv := BuildCSV(result.Records, Options{
		UseExifCoords: true,
		Scaling:       DefaultQualityScaling(),
	}, &logger.NullLogger{})

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %v lines, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "45.46388000") {
		t.Errorf("row should carry EXIF latitude: %v", lines[1])
	}
}

func TestBuildCSVProjectedColumns(t *testing.T) {
	result := makeTestRecords()
	result.Records[1].E = 514904.631
	result.Records[1].N = 5034500.589
	result.Records[1].H = 84.45

	csv := BuildCSV(result.Records, Options{
		Projected: true,
		ZoneLabel: "UTM32N",
		Scaling:   DefaultQualityScaling(),
	}, &logger.NullLogger{})

	if !strings.Contains(csv, "East UTM32N [m]") {
		t.Errorf("missing projected header: %v", csv)
	}
	if !strings.Contains(csv, "514904.631,5034500.589,84.450") {
		t.Errorf("missing projected values: %v", csv)
	}
}

func TestBuildCSVUnknownQualityWarns(t *testing.T) {
	result := makeTestRecords()
	result.Records[2].QualMrk = 7

	jobLog := &logger.RecorderLogger{}
	csv := BuildCSV(result.Records, Options{Scaling: DefaultQualityScaling()}, jobLog)

	// Stds stay unscaled
	if !strings.Contains(csv, "0.1000,0.1000,0.2000") {
		t.Errorf("unknown quality should leave stds unscaled: %v", csv)
	}

	warned := false
	for _, line := range jobLog.Lines {
		if strings.Contains(line, "unknown quality code") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning, got %v", jobLog.Lines)
	}
}

func TestWriteCSV(t *testing.T) {
	fs := fileaccess.MakeMemoryAccess()

	err := WriteCSV(fs, "reports", "flight1/cameras.csv", makeTestRecords().Records,
		Options{Scaling: DefaultQualityScaling()}, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	data, err := fs.ReadObject("reports", "flight1/cameras.csv")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if !strings.HasPrefix(string(data), "ID,Image Name") {
		t.Errorf("unexpected content: %v", string(data))
	}
}

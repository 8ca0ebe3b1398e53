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
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
)

func TestWriteXLSX(t *testing.T) {
	fs := fileaccess.MakeMemoryAccess()
	result := makeTestRecords()

	meta := ReportMeta{RunID: "0db81a62-e0c5-441e-9ec2-f312e31fed35", GeneratedUnixSec: 1680685053}
	err := WriteXLSX(fs, "reports", "flight1/report.xlsx", result,
		Options{Scaling: DefaultQualityScaling()}, meta, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	data, err := fs.ReadObject("reports", "flight1/report.xlsx")
	if err != nil {
		t.Fatalf("%v", err)
	}

	// Reopen and spot-check cells
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer book.Close()

	checkCell := func(sheet string, cell string, want string) {
		t.Helper()
		got, err := book.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("%v!%v: %v", sheet, cell, err)
		}
		if got != want {
			t.Errorf("%v!%v: got %q, want %q", sheet, cell, got, want)
		}
	}

	checkCell("EXIF", "A1", "ID")
	checkCell("EXIF", "B2", "DJI_0001")
	checkCell("LOG", "M2", "FIX")
	checkCell("LOG", "A4", "9")
	// Event 9 has no image, its EXIF row carries the ID only
	checkCell("EXIF", "B4", "")

	checkCell("Summary", "A1", "Run ID")
	checkCell("Summary", "B1", meta.RunID)
	checkCell("Summary", "B2", "2023-04-05 08:57:33 UTC")
	checkCell("Summary", "B5", "1")
	checkCell("Summary", "A6", "Unmatched IDs")
	checkCell("Summary", "B6", "9")
}

func TestWriteXLSXProjected(t *testing.T) {
	fs := fileaccess.MakeMemoryAccess()
	result := makeTestRecords()
	result.Records[1].EMrk = 514904.631
	result.Records[1].NMrk = 5034500.589

	err := WriteXLSX(fs, "reports", "flight1/report.xlsx", result, Options{
		Projected: true,
		ZoneLabel: "UTM32N",
		Scaling:   DefaultQualityScaling(),
	}, ReportMeta{RunID: "test"}, &logger.NullLogger{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	data, err := fs.ReadObject("reports", "flight1/report.xlsx")
	if err != nil {
		t.Fatalf("%v", err)
	}
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer book.Close()

	got, err := book.GetCellValue("LOG", "F1")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got != "East UTM32N [m]" {
		t.Errorf("projected header: got %q", got)
	}
	got, err = book.GetCellValue("LOG", "F2")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if got != "514904.631" {
		t.Errorf("projected easting: got %q", got)
	}
}

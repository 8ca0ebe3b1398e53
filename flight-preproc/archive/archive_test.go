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

package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		_, err = f.Write([]byte(content))
		if err != nil {
			t.Fatalf("%v", err)
		}
	}
	err := w.Close()
	if err != nil {
		t.Fatalf("%v", err)
	}
	return buf.Bytes()
}

func TestDownloadFlight(t *testing.T) {
	remoteFS := fileaccess.MakeMemoryAccess()
	bucket := "uas-flights"

	zipData := makeZip(t, map[string]string{
		"images/DJI_0001.JPG": "jpeg bytes 1",
		"images/DJI_0002.JPG": "jpeg bytes 2",
	})
	remoteFS.WriteObject(bucket, "flight-archive/F042/images.zip", zipData)
	remoteFS.WriteObject(bucket, "flight-archive/F042/DJI_202304051736.MRK", []byte("1,286657.2"))

	dl := NewFlightDownloader(remoteFS, &fileaccess.FSAccess{}, &logger.NullLogger{}, bucket)

	logPath, imageDir, err := dl.DownloadFlight("F042", t.TempDir())
	if err != nil {
		t.Fatalf("%v", err)
	}

	if filepath.Base(logPath) != "DJI_202304051736.MRK" {
		t.Errorf("marker log: got %v", logPath)
	}
	logData, err := os.ReadFile(logPath)
	if err != nil || string(logData) != "1,286657.2" {
		t.Errorf("marker log content: %v %v", string(logData), err)
	}

	// Zip contents flattened into the image dir
	for _, name := range []string{"DJI_0001.JPG", "DJI_0002.JPG"} {
		_, err = os.Stat(filepath.Join(imageDir, name))
		if err != nil {
			t.Errorf("missing unzipped image %v: %v", name, err)
		}
	}
}

func TestDownloadFlightEmpty(t *testing.T) {
	dl := NewFlightDownloader(fileaccess.MakeMemoryAccess(), &fileaccess.FSAccess{}, &logger.NullLogger{}, "uas-flights")

	_, _, err := dl.DownloadFlight("NOPE", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no files found") {
		t.Errorf("expected no-files error, got %v", err)
	}
}

func TestDownloadFlightNoMarkerLog(t *testing.T) {
	remoteFS := fileaccess.MakeMemoryAccess()
	remoteFS.WriteObject("uas-flights", "flight-archive/F001/notes.txt", []byte("wind 3 m/s"))

	dl := NewFlightDownloader(remoteFS, &fileaccess.FSAccess{}, &logger.NullLogger{}, "uas-flights")

	_, _, err := dl.DownloadFlight("F001", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no marker log") {
		t.Errorf("expected missing-log error, got %v", err)
	}
}

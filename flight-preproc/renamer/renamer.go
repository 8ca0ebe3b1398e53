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

// Batch renaming of survey images. Vendor file names repeat across memory
// cards, so images are copied into a destination directory under names built
// from their EXIF capture time plus a progressive sequence number, and a
// renaming table records the mapping.
package renamer

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
)

// Entry - one row of the renaming table
type Entry struct {
	ID      int
	OldName string
	NewName string
	Date    string
	Time    string
	Camera  string
	Focal   float64
	Lat     float64
	Lon     float64
	Ellh    float64
}

// Options - renaming run configuration
type Options struct {
	DestDir  string
	BaseName string // defaults to "IMG"

	// DeleteOriginal removes each source image after a successful copy
	DeleteOriginal bool
}

// NewName builds the destination file name from EXIF capture time and a
// progressive sequence number, keeping the source extension
func NewName(data *imagemeta.ExifData, baseName string, seq int) string {
	date := strings.ReplaceAll(data.Date, ":", "")
	clock := strings.ReplaceAll(data.Time, ":", "")
	return fmt.Sprintf("%v_%v_%v_%04d%v", baseName, date, clock, seq, filepath.Ext(data.Path))
}

// RenameAll copies every image with the given extension in srcDir into the
// destination directory under its new name. Images whose EXIF cannot be read
// are skipped with a log, they never fail the batch. Returns the renaming
// table in source file name order.
func RenameAll(srcDir string, ext string, opts Options, jobLog logger.ILogger) ([]Entry, error) {
	if opts.BaseName == "" {
		opts.BaseName = "IMG"
	}
	if opts.DestDir == "" {
		return nil, errors.New("no destination directory configured")
	}

	files, err := imagemeta.ListImages(srcDir, ext)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(opts.DestDir, 0755)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create destination: %v", opts.DestDir)
	}

	entries := []Entry{}
	for seq, file := range files {
		data, err := imagemeta.ReadExif(file)
		if err != nil {
			jobLog.Errorf("Skipping %v: %v", file, err)
			continue
		}

		newName := NewName(data, opts.BaseName, seq)
		err = copyFile(file, filepath.Join(opts.DestDir, newName))
		if err != nil {
			jobLog.Errorf("Skipping %v: %v", file, err)
			continue
		}

		if opts.DeleteOriginal {
			err = os.Remove(file)
			if err != nil {
				jobLog.Errorf("Failed to delete original %v: %v", file, err)
			}
		}

		entries = append(entries, Entry{
			ID:      seq,
			OldName: filepath.Base(file),
			NewName: newName,
			Date:    data.Date,
			Time:    data.Time,
			Camera:  data.Camera,
			Focal:   data.Focal,
			Lat:     data.Lat,
			Lon:     data.Lon,
			Ellh:    data.Ellh,
		})
	}

	jobLog.Infof("Renamed %v of %v images into %v", len(entries), len(files), opts.DestDir)
	return entries, nil
}

// WriteTable stores the renaming table as CSV through the given file access
func WriteTable(fs fileaccess.FileAccess, root string, path string, entries []Entry, jobLog logger.ILogger) error {
	var sb strings.Builder
	sb.WriteString("id,old_name,new_name,date,time,camera,focal,lat,lon,ellh\n")

	for _, e := range entries {
		fields := []string{
			fmt.Sprintf("%v", e.ID),
			e.OldName,
			e.NewName,
			e.Date,
			e.Time,
			e.Camera,
			floatField(e.Focal, "%.1f"),
			floatField(e.Lat, "%.8f"),
			floatField(e.Lon, "%.8f"),
			floatField(e.Ellh, "%.3f"),
		}
		sb.WriteString(strings.Join(fields, ",") + "\n")
	}

	err := fs.WriteObject(root, path, []byte(sb.String()))
	if err != nil {
		return err
	}

	jobLog.Infof("Wrote renaming table: %v", path)
	return nil
}

// floatField - empty CSV field for values the EXIF block didn't carry
func floatField(v float64, format string) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf(format, v)
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

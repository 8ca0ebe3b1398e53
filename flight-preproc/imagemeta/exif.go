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

package imagemeta

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/uasimaging/preproc/core/logger"
)

// ExifData - one image's identifying metadata. Lat/Lon/Ellh are NaN when the
// image carries no GPS tags (indoor calibration shots, GPS-denied flights).
type ExifData struct {
	ID   int
	Name string
	Path string
	Date string // YYYY:MM:DD
	Time string // HH:MM:SS
	Lat  float64
	Lon  float64
	Ellh float64

	// Camera model and nominal focal length, empty/NaN when the camera
	// didn't write them
	Camera string
	Focal  float64
}

// ReadExif - reads one image's EXIF block
func ReadExif(path string) (*ExifData, error) {
	id, err := IDFromName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open image: %v", path)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode EXIF: %v", path)
	}

	result := &ExifData{
		ID:   id,
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
		Lat:   math.NaN(),
		Lon:   math.NaN(),
		Ellh:  math.NaN(),
		Focal: math.NaN(),
	}

	if tag, tagErr := x.Get(exif.Model); tagErr == nil {
		if model, strErr := tag.StringVal(); strErr == nil {
			result.Camera = strings.ReplaceAll(strings.TrimSpace(model), " ", "_")
		}
	}
	if tag, tagErr := x.Get(exif.FocalLength); tagErr == nil {
		if num, den, ratErr := tag.Rat2(0); ratErr == nil && den != 0 {
			result.Focal = float64(num) / float64(den)
		}
	}

	result.Date, result.Time, err = captureDateTime(x)
	if err != nil {
		return nil, errors.Wrapf(err, "image %v", path)
	}

	// GPS tags are optional - a missing fix is not an error, the marker log
	// still correlates by ID
	if lat, lon, err := x.LatLong(); err == nil {
		result.Lat = lat
		result.Lon = lon

		if altTag, altErr := x.Get(exif.GPSAltitude); altErr == nil {
			if num, den, ratErr := altTag.Rat2(0); ratErr == nil && den != 0 {
				result.Ellh = float64(num) / float64(den)

				// AltitudeRef 1 means below sea level
				if refTag, refErr := x.Get(exif.GPSAltitudeRef); refErr == nil {
					if ref, intErr := refTag.Int(0); intErr == nil && ref == 1 {
						result.Ellh = -result.Ellh
					}
				}
			}
		}
	}

	return result, nil
}

// captureDateTime - the original capture timestamp, split into the
// YYYY:MM:DD / HH:MM:SS pair the reports use
func captureDateTime(x *exif.Exif) (string, string, error) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		// Some cameras only write DateTime
		tag, err = x.Get(exif.DateTime)
		if err != nil {
			return "", "", errors.New("no capture timestamp in EXIF")
		}
	}

	val, err := tag.StringVal()
	if err != nil {
		return "", "", errors.Wrap(err, "bad capture timestamp tag")
	}

	return SplitDateTime(val)
}

// SplitDateTime - splits an EXIF "YYYY:MM:DD HH:MM:SS" timestamp
func SplitDateTime(val string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(val), " ", 2)
	if len(parts) != 2 || len(parts[0]) != 10 || len(parts[1]) < 8 {
		return "", "", errors.Errorf("unexpected capture timestamp format: %v", val)
	}
	return parts[0], parts[1][:8], nil
}

// GetImages - reads EXIF from every image with the given extension in a
// directory, keyed by progressive image ID. An unreadable image yields a nil
// entry for its ID (so the gap stays visible downstream) and an error log,
// never a failed batch. Files whose names carry no ID cannot be keyed at all
// and are skipped with a log.
func GetImages(dir string, ext string, jobLog logger.ILogger) (map[int]*ExifData, error) {
	files, err := ListImages(dir, ext)
	if err != nil {
		return nil, err
	}

	result := map[int]*ExifData{}
	for _, file := range files {
		id, err := IDFromName(file)
		if err != nil {
			jobLog.Errorf("Skipping %v: %v", file, err)
			continue
		}

		data, err := ReadExif(file)
		if err != nil {
			jobLog.Errorf("Error reading image %v: %v", file, err)
			result[id] = nil
			continue
		}

		result[id] = data
	}

	jobLog.Infof("Read EXIF for %v images from %v", len(result), dir)
	return result, nil
}

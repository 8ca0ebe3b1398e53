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

// Enumerates survey images and pulls the identifying metadata out of their
// EXIF tags: the progressive ID from the file name, the capture timestamp and
// the camera's own GPS position. The GNSS positions in the marker log are the
// authoritative ones - EXIF positions are the camera's coarse fix, kept so
// the two can be compared downstream.
package imagemeta

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ListImages - all files with the given extension (case-insensitive, with or
// without leading dot) directly in dir, sorted by name. Not recursive: a
// flight's images sit flat in one memory card directory.
func ListImages(dir string, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list image directory: %v", dir)
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	result := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			result = append(result, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(result)
	return result, nil
}

// IDFromName - extracts the progressive image ID from a file name like
// DJI_0042.JPG: the numeric part after the last underscore of the stem
func IDFromName(name string) (int, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	parts := strings.Split(stem, "_")
	last := parts[len(parts)-1]

	id, err := strconv.Atoi(last)
	if err != nil {
		return 0, errors.Errorf("no numeric image ID in file name: %v", name)
	}
	return id, nil
}

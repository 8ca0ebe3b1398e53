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

package utils

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// UnzipDirectory - extracts a zip (eg a flight image archive pulled from S3)
// into dest. flattenPaths drops any directory structure inside the zip, which
// is what we want for memory card dumps that nest images a few levels deep.
func UnzipDirectory(src string, dest string, flattenPaths bool) ([]string, error) {
	var filenames []string
	r, err := zip.OpenReader(src)
	if err != nil {
		return filenames, err
	}
	defer r.Close()

	for _, f := range r.File {
		// Mac laptops sneak __MACOSX entries into archives, ignore them
		if strings.HasPrefix(f.Name, "__MACOSX") {
			continue
		}

		thisPath := f.Name
		if flattenPaths {
			// May end in a /, in which case there's nothing to write
			if strings.HasSuffix(thisPath, "/") {
				continue
			}
			thisPath = path.Base(thisPath)
		}

		fpath := filepath.Join(dest, thisPath)

		// Guard against ZipSlip: https://snyk.io/research/zip-slip-vulnerability
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return filenames, os.ErrInvalid
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return filenames, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return filenames, err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return filenames, err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return filenames, err
		}

		_, err = io.Copy(outFile, rc)

		outFile.Close()
		rc.Close()

		if err != nil {
			return filenames, err
		}

		filenames = append(filenames, fpath)
	}

	return filenames, nil
}

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
	"os"
	"path/filepath"
	"testing"
)

func TestReadFileLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "log.mrk")
	err := os.WriteFile(p, []byte("line one\nline two\nline three"), 0644)
	if err != nil {
		t.Fatalf("%v", err)
	}

	lines, err := ReadFileLines(p)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(lines) != 3 || lines[1] != "line two" {
		t.Errorf("got %v", lines)
	}

	_, err = ReadFileLines(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestFilesEqual(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")

	os.WriteFile(a, []byte("same"), 0644)
	os.WriteFile(b, []byte("same"), 0644)
	os.WriteFile(c, []byte("diff"), 0644)

	if err := FilesEqual(a, b); err != nil {
		t.Errorf("%v", err)
	}
	if err := FilesEqual(a, c); err == nil {
		t.Errorf("expected mismatch")
	}
}

func TestUnzipDirectoryFlatten(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "images.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("%v", err)
	}
	w := zip.NewWriter(f)
	for _, name := range []string{"DCIM/100MEDIA/DJI_0001.JPG", "__MACOSX/junk", "DCIM/"} {
		if name == "DCIM/" {
			continue
		}
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("%v", err)
		}
		entry.Write([]byte("data"))
	}
	if err = w.Close(); err != nil {
		t.Fatalf("%v", err)
	}
	f.Close()

	dest := filepath.Join(dir, "out")
	files, err := UnzipDirectory(zipPath, dest, true)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "DJI_0001.JPG" {
		t.Errorf("got %v", files)
	}
}

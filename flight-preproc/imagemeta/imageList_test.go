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
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func Example_iDFromName() {
	id, _ := IDFromName("DJI_0042.JPG")
	fmt.Println(id)

	id, _ = IDFromName("/some/flight/dir/DJI_20230405_0917.JPG")
	fmt.Println(id)

	_, err := IDFromName("notes.txt")
	fmt.Println(err)

	// Output:
	// 42
	// 917
	// no numeric image ID in file name: notes.txt
}

func Example_splitDateTime() {
	d, tm, _ := SplitDateTime("2023:04:05 09:17:33")
	fmt.Println(d, tm)

	_, _, err := SplitDateTime("sometime yesterday")
	fmt.Println(err)

	// Output:
	// 2023:04:05 09:17:33
	// unexpected capture timestamp format: sometime yesterday
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"DJI_0001.JPG", "DJI_0002.jpg", "DJI_0003.DNG", "flight.MRK", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0}, 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
	}
	os.Mkdir(filepath.Join(dir, "subdir.jpg"), 0755)

	// Extension match is case-insensitive, dot optional, dirs ignored
	files, err := ListImages(dir, "jpg")
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %v files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "DJI_0001.JPG" || filepath.Base(files[1]) != "DJI_0002.jpg" {
		t.Errorf("unexpected listing order: %v", files)
	}

	files, err = ListImages(dir, ".DNG")
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %v DNG files, want 1", len(files))
	}
}

func TestListImagesMissingDir(t *testing.T) {
	_, err := ListImages(filepath.Join(t.TempDir(), "nope"), "jpg")
	if err == nil {
		t.Errorf("expected error for missing directory")
	}
}

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

package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/renamer"
)

func main() {
	fmt.Println("================================")
	fmt.Println("=  UAS survey image renamer    =")
	fmt.Println("================================")

	var argSrcDir = flag.String("srcdir", "", "Directory containing the source images")
	var argDestDir = flag.String("destdir", "renamed", "Destination directory for renamed copies")
	var argExt = flag.String("ext", "jpg", "Image extension to process")
	var argBase = flag.String("base", "IMG", "Base name for renamed images")
	var argTable = flag.String("table", "renaming.csv", "Renaming table file name, written into the destination directory")
	var argDelete = flag.Bool("delete", false, "Delete originals after copying")
	var argDebug = flag.Bool("debug", false, "Verbose logging")

	flag.Parse()

	jobLog := &logger.StdOutLogger{}
	jobLog.SetLogLevel(logger.LogInfo)
	if *argDebug {
		jobLog.SetLogLevel(logger.LogDebug)
	}

	if *argSrcDir == "" {
		jobLog.Errorf("No source directory given, use -srcdir")
		printFail()
		return
	}

	jobLog.Infof("----- Renaming %v images from: %v -----", *argExt, *argSrcDir)

	entries, err := renamer.RenameAll(*argSrcDir, *argExt, renamer.Options{
		DestDir:        *argDestDir,
		BaseName:       *argBase,
		DeleteOriginal: *argDelete,
	}, jobLog)
	if err != nil {
		jobLog.Errorf("RENAME ERROR: %v", err)
		printFail()
		return
	}

	tablePath := filepath.Join(*argDestDir, *argTable)
	err = renamer.WriteTable(&fileaccess.FSAccess{}, "", tablePath, entries, jobLog)
	if err != nil {
		jobLog.Errorf("WRITE ERROR: %v", err)
		printFail()
		return
	}

	jobLog.Infof("--------  SUCCESS  --------")
}

func printFail() {
	fmt.Printf("\n****************************\n")
	fmt.Printf("**  FAIL    FAIL    FAIL  **\n")
	fmt.Printf("****************************\n\n")
}

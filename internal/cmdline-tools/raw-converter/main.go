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
	"strings"

	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/rawconvert"
)

func main() {
	fmt.Println("================================")
	fmt.Println("=  UAS raw image converter     =")
	fmt.Println("================================")

	var argSrcDir = flag.String("srcdir", "", "Directory containing the raw files")
	var argDestDir = flag.String("destdir", "converted", "Destination directory for converted files")
	var argExt = flag.String("ext", "dng", "Raw file extension to convert")
	var argCommand = flag.String("command", "", "Converter binary to run per file")
	var argArgs = flag.String("args", "", "Converter arguments, comma separated. {input} expands to the raw file, {outdir} to the destination directory")
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

	args := []string{}
	if *argArgs != "" {
		args = strings.Split(*argArgs, ",")
	}

	jobLog.Infof("----- Converting %v files from: %v -----", *argExt, *argSrcDir)

	converted, err := rawconvert.ConvertAll(*argSrcDir, rawconvert.Options{
		Command:   *argCommand,
		Args:      args,
		DestDir:   *argDestDir,
		Extension: *argExt,
	}, jobLog)
	if err != nil {
		jobLog.Errorf("CONVERT ERROR: %v", err)
		printFail()
		return
	}

	jobLog.Infof("Converted %v files into %v", converted, *argDestDir)
	jobLog.Infof("--------  SUCCESS  --------")
}

func printFail() {
	fmt.Printf("\n****************************\n")
	fmt.Printf("**  FAIL    FAIL    FAIL  **\n")
	fmt.Printf("****************************\n\n")
}

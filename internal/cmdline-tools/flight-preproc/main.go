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

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/core/timestamper"
	"github.com/uasimaging/preproc/flight-preproc/archive"
	"github.com/uasimaging/preproc/flight-preproc/pipeline"
)

func main() {
	fmt.Println("================================")
	fmt.Println("=  UAS flight preprocessor     =")
	fmt.Println("================================")

	var argConfig = flag.String("config", "", "Path to job config YAML")
	var argFlight = flag.String("flight", "", "Flight ID to download from the archive bucket before processing (optional)")
	var argBucket = flag.String("bucket", "", "Flight archive S3 bucket, required with -flight")
	var argWorkDir = flag.String("workdir", ".", "Working directory for downloaded flights")
	var argDebug = flag.Bool("debug", false, "Verbose logging")

	flag.Parse()

	jobLog := &logger.StdOutLogger{}
	jobLog.SetLogLevel(logger.LogInfo)
	if *argDebug {
		jobLog.SetLogLevel(logger.LogDebug)
	}

	if *argConfig == "" {
		jobLog.Errorf("No job config given, use -config")
		printFail()
		return
	}

	cfg, err := pipeline.LoadConfig(*argConfig)
	if err != nil {
		jobLog.Errorf("%v", err)
		printFail()
		return
	}

	localFS := &fileaccess.FSAccess{}

	// If a flight ID is given, pull the flight down from S3 first and point
	// the job at the downloaded copy
	if *argFlight != "" {
		if *argBucket == "" {
			jobLog.Errorf("-flight requires -bucket")
			printFail()
			return
		}

		sess, err := session.NewSession()
		if err != nil {
			jobLog.Errorf("Failed to create AWS session: %v", err)
			printFail()
			return
		}
		remoteFS := fileaccess.MakeS3Access(s3.New(sess))

		dl := archive.NewFlightDownloader(remoteFS, localFS, jobLog, *argBucket)
		logPath, imageDir, err := dl.DownloadFlight(*argFlight, *argWorkDir)
		if err != nil {
			jobLog.Errorf("%v", err)
			printFail()
			return
		}

		cfg.LogPath = logPath
		cfg.ImageDir = imageDir
	}

	jobLog.Infof("----- Processing flight log: %v -----", cfg.LogPath)

	summary, err := pipeline.Run(cfg, localFS, &timestamper.UnixTimeNowStamper{}, jobLog)
	if err != nil {
		jobLog.Errorf("RUN ERROR: %v", err)
		printFail()
		return
	}

	jobLog.Infof("Run %v: %v events, %v matched, %v unmatched", summary.RunID, summary.Events, summary.Matched, summary.Unmatched)
	jobLog.Infof("Camera file: %v", summary.CSVPath)
	jobLog.Infof("Spreadsheet: %v", summary.XLSXPath)
	jobLog.Infof("--------  SUCCESS  --------")
}

func printFail() {
	fmt.Printf("\n****************************\n")
	fmt.Printf("**  FAIL    FAIL    FAIL  **\n")
	fmt.Printf("****************************\n\n")
}

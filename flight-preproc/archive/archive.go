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

// Retrieval of archived flights. Field crews upload each flight as a marker
// log plus zipped images, this package pulls a flight down and lays it out
// locally for the pipeline.
package archive

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/core/utils"
	"github.com/uasimaging/preproc/flight-preproc/mrklog"
)

// RootFlightArchive - where uploaded flights sit in the bucket
const RootFlightArchive = "flight-archive"

type FlightDownloader struct {
	remoteFS     fileaccess.FileAccess
	localFS      fileaccess.FileAccess
	jobLog       logger.ILogger
	flightBucket string
}

func NewFlightDownloader(
	remoteFS fileaccess.FileAccess,
	localFS fileaccess.FileAccess,
	jobLog logger.ILogger,
	flightBucket string) *FlightDownloader {
	return &FlightDownloader{
		remoteFS:     remoteFS,
		localFS:      localFS,
		jobLog:       jobLog,
		flightBucket: flightBucket,
	}
}

// DownloadFlight fetches everything uploaded for a flight ID. Zip files are
// unzipped into the image directory and deleted, everything else is saved
// as-is.
//
// Returns:
// Marker log path
// Image directory path
// Error (if any)
func (dl *FlightDownloader) DownloadFlight(flightID string, workingDir string) (string, string, error) {
	dl.jobLog.Debugf("Preparing to download flight %v...", flightID)

	downloadPath, err := fileaccess.MakeEmptyLocalDirectory(workingDir, "download")
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate directory for flight downloads")
	}
	imagePath, err := fileaccess.MakeEmptyLocalDirectory(workingDir, "images")
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate directory for flight images")
	}

	searchPath := path.Join(RootFlightArchive, flightID)
	dl.jobLog.Infof("Searching for flight files in: s3://%v/%v", dl.flightBucket, searchPath)

	remotePaths, err := dl.remoteFS.ListObjects(dl.flightBucket, searchPath)
	if err != nil {
		return "", "", err
	}
	if len(remotePaths) <= 0 {
		return "", "", errors.Errorf("no files found for flight: %v", flightID)
	}

	logPath := ""
	unzippedCount := 0

	for _, remotePath := range remotePaths {
		fileName := path.Base(remotePath)

		if strings.HasSuffix(strings.ToLower(fileName), ".zip") {
			savePath := path.Join(downloadPath, fileName)
			err = dl.fetchFile(remotePath, savePath)
			if err != nil {
				return "", "", err
			}

			dl.jobLog.Debugf("Unzipping: \"%v\"", savePath)
			unzipped, err := utils.UnzipDirectory(savePath, imagePath, true)
			if err != nil {
				return "", "", errors.Wrapf(err, "failed to unzip %v", savePath)
			}
			unzippedCount += len(unzipped)
			continue
		}

		savePath := path.Join(imagePath, fileName)
		err = dl.fetchFile(remotePath, savePath)
		if err != nil {
			return "", "", err
		}

		if strings.EqualFold(path.Ext(fileName), mrklog.MarkerLogExtension) {
			logPath = savePath
		}
	}

	if logPath == "" {
		return "", "", errors.Errorf("flight %v has no marker log", flightID)
	}

	dl.jobLog.Infof("Flight %v downloaded: %v files unzipped, marker log %v", flightID, unzippedCount, path.Base(logPath))
	return logPath, imagePath, nil
}

// Fetches from the flight bucket, writes to savePath
func (dl *FlightDownloader) fetchFile(pathFrom string, savePath string) error {
	dl.jobLog.Debugf("-Save: s3://%v/%v", dl.flightBucket, pathFrom)
	dl.jobLog.Debugf("-->to: %v", savePath)

	data, err := dl.remoteFS.ReadObject(dl.flightBucket, pathFrom)
	if err != nil {
		return err
	}

	return dl.localFS.WriteObject(savePath, "", data)
}

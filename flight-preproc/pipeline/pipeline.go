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

package pipeline

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/crs"
	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/geoid"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/core/timestamper"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
	"github.com/uasimaging/preproc/flight-preproc/mrklog"
	"github.com/uasimaging/preproc/flight-preproc/output"
	"github.com/uasimaging/preproc/flight-preproc/projection"
)

// Summary - what one pipeline run did. Persisted next to the reports so
// later tooling can see what a run produced without re-running it.
type Summary struct {
	RunID     string `json:"runId"`
	Events    int    `json:"events"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
	Projected int    `json:"projected"`
	Skipped   int    `json:"skipped"`
	CSVPath   string `json:"csvPath"`
	XLSXPath  string `json:"xlsxPath"`
}

// Run executes one preprocessing job and writes its reports through the given
// file access. Stage failures stop the run; per-record problems inside a
// stage are logged and counted by that stage.
func Run(cfg JobConfig, fs fileaccess.FileAccess, ts timestamper.ITimeStamper, jobLog logger.ILogger) (*Summary, error) {
	err := cfg.applyDefaultsAndValidate()
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	jobLog.Infof("Starting preprocessing run %v", runID)

	// Parse the marker log
	logRecs, err := mrklog.Read(cfg.LogPath, jobLog)
	if err != nil {
		return nil, err
	}

	// Read image EXIF
	exifRecs, err := imagemeta.GetImages(cfg.ImageDir, cfg.ImageExtension, jobLog)
	if err != nil {
		return nil, err
	}

	// Correlate
	result := correlate.Merge(logRecs, exifRecs, jobLog)

	summary := &Summary{
		RunID:     runID,
		Events:    len(result.Records),
		Matched:   len(result.Records) - result.UnmatchedCount(),
		Unmatched: result.UnmatchedCount(),
	}

	// Reproject
	reportOpts := output.Options{
		UseExifCoords: cfg.UseExifCoords,
		Scaling:       cfg.Scaling(),
	}
	if cfg.Project {
		stats, zoneLabel, err := projectAll(cfg, result.Records, jobLog)
		if err != nil {
			return nil, err
		}

		summary.Projected = stats.Projected
		summary.Skipped = stats.Skipped
		reportOpts.Projected = true
		reportOpts.ZoneLabel = zoneLabel
	}

	// Write reports
	summary.CSVPath = path.Join(cfg.OutputDir, cfg.CSVName)
	err = output.WriteCSV(fs, "", summary.CSVPath, result.Records, reportOpts, jobLog)
	if err != nil {
		return nil, err
	}

	summary.XLSXPath = path.Join(cfg.OutputDir, cfg.XLSXName)
	meta := output.ReportMeta{RunID: runID, GeneratedUnixSec: ts.GetTimeNowSec()}
	err = output.WriteXLSX(fs, "", summary.XLSXPath, result, reportOpts, meta, jobLog)
	if err != nil {
		return nil, err
	}

	err = fs.WriteJSON("", path.Join(cfg.OutputDir, cfg.SummaryName), summary)
	if err != nil {
		return nil, err
	}

	jobLog.Infof("Run %v complete: %v events, %v matched, %v unmatched", runID, summary.Events, summary.Matched, summary.Unmatched)
	return summary, nil
}

// LoadSummary reads back a persisted run summary
func LoadSummary(fs fileaccess.FileAccess, root string, path string) (*Summary, error) {
	summary := &Summary{}
	err := fs.ReadJSON(root, path, summary, false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read run summary: %v", path)
	}
	return summary, nil
}

// projectAll fills the projection slots the reports read: the working set
// that drives the CSV, plus the marker log and EXIF sets shown side by side
// in the spreadsheet. Returned stats count the working set only.
func projectAll(cfg JobConfig, records map[int]*correlate.MergedRecord, jobLog logger.ILogger) (projection.Stats, string, error) {
	epsgTo, zoneLabel, err := destinationCRS(cfg)
	if err != nil {
		return projection.Stats{}, "", err
	}

	grid, err := loadGeoidGrid(cfg)
	if err != nil {
		return projection.Stats{}, "", err
	}

	fields := projection.FieldsWorking
	if cfg.UseExifCoords {
		fields = projection.FieldsExif
	}

	projOpts := projection.Options{
		EPSGFrom:   cfg.EPSGFrom,
		EPSGTo:     epsgTo,
		Fields:     fields,
		WithHeight: cfg.WithHeight,
		Geoid:      grid,
		InPlace:    true,
	}
	_, stats, err := projection.Project(records, projOpts, jobLog)
	if err != nil {
		return projection.Stats{}, "", err
	}

	for _, extra := range []projection.FieldSet{projection.FieldsMrk, projection.FieldsExif} {
		if extra == fields {
			continue
		}
		projOpts.Fields = extra
		if _, _, err = projection.Project(records, projOpts, jobLog); err != nil {
			return projection.Stats{}, "", err
		}
	}

	if fields == projection.FieldsExif {
		// The CSV reads the working projection slots
		for _, rec := range records {
			if rec != nil {
				rec.E, rec.N, rec.H = rec.EExif, rec.NExif, rec.HExif
			}
		}
	}

	return stats, zoneLabel, nil
}

// loadGeoidGrid reads the configured geoid grid, picking the reader from the
// file extension. Returns nil when the job doesn't use one.
func loadGeoidGrid(cfg JobConfig) (*geoid.Grid, error) {
	if cfg.GeoidGridPath == "" {
		return nil, nil
	}

	ext := filepath.Ext(cfg.GeoidGridPath)
	if strings.EqualFold(ext, ".tif") || strings.EqualFold(ext, ".tiff") {
		worldPath := strings.TrimSuffix(cfg.GeoidGridPath, ext) + ".tfw"
		return geoid.ReadTIFFGrid(cfg.GeoidGridPath, worldPath, cfg.GeoidScale, cfg.GeoidOffset)
	}

	return geoid.ReadASCIIGrid(cfg.GeoidGridPath)
}

// destinationCRS resolves the configured destination to an EPSG code and a
// report column label
func destinationCRS(cfg JobConfig) (int, string, error) {
	if cfg.UTMZone != "" {
		dest, err := crs.FromUTMZone(cfg.UTMZone)
		if err != nil {
			return 0, "", err
		}
		return dest.EPSG, "UTM" + cfg.UTMZone, nil
	}

	dest, err := crs.FromEPSG(cfg.EPSGTo)
	if err != nil {
		return 0, "", errors.Wrap(err, "destination CRS")
	}

	label := fmt.Sprintf("EPSG:%v", dest.EPSG)
	if dest.IsProjected() {
		hemisphere := "N"
		if !dest.Northern {
			hemisphere = "S"
		}
		label = fmt.Sprintf("UTM%v%v", dest.UTMZone, hemisphere)
	}
	return dest.EPSG, label, nil
}

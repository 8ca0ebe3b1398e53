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

// End-to-end flight preprocessing: parse the marker log, read image EXIF,
// correlate, reproject and write the reports, as one configured job.
package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/uasimaging/preproc/flight-preproc/output"
)

// JobConfig - one preprocessing job, normally loaded from a YAML file
type JobConfig struct {
	// Inputs
	LogPath        string `yaml:"logPath"`
	ImageDir       string `yaml:"imageDir"`
	ImageExtension string `yaml:"imageExtension"`

	// Reprojection. EPSGTo and UTMZone are alternatives, UTMZone wins if
	// both are set.
	Project    bool   `yaml:"project"`
	EPSGFrom   int    `yaml:"epsgFrom"`
	EPSGTo     int    `yaml:"epsgTo"`
	UTMZone    string `yaml:"utmZone"`
	WithHeight bool   `yaml:"withHeight"`

	// Optional geoid undulation grid for orthometric heights. ESRI ASCII
	// grids are read directly; a .tif/.tiff grid needs a world file next to
	// it (same name, .tfw extension) and gets level*scale+offset applied to
	// its raw sample levels.
	GeoidGridPath string  `yaml:"geoidGridPath"`
	GeoidScale    float64 `yaml:"geoidScale"`
	GeoidOffset   float64 `yaml:"geoidOffset"`

	// Report options
	UseExifCoords  bool      `yaml:"useExifCoords"`
	QualityFlags   []float64 `yaml:"qualityFlags"`
	QualityFactors []float64 `yaml:"qualityFactors"`

	// Outputs
	OutputDir   string `yaml:"outputDir"`
	CSVName     string `yaml:"csvName"`
	XLSXName    string `yaml:"xlsxName"`
	SummaryName string `yaml:"summaryName"`
}

// LoadConfig reads and validates a job configuration file
func LoadConfig(path string) (JobConfig, error) {
	cfg := JobConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config: %v", path)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config: %v", path)
	}

	err = cfg.applyDefaultsAndValidate()
	if err != nil {
		return cfg, errors.Wrapf(err, "invalid config: %v", path)
	}

	return cfg, nil
}

func (cfg *JobConfig) applyDefaultsAndValidate() error {
	if cfg.ImageExtension == "" {
		cfg.ImageExtension = "jpg"
	}
	if cfg.EPSGFrom == 0 {
		cfg.EPSGFrom = 4326
	}
	if cfg.CSVName == "" {
		cfg.CSVName = "cameras.csv"
	}
	if cfg.XLSXName == "" {
		cfg.XLSXName = "report.xlsx"
	}
	if cfg.SummaryName == "" {
		cfg.SummaryName = "summary.json"
	}
	if cfg.GeoidScale == 0 {
		cfg.GeoidScale = 1
	}

	if cfg.LogPath == "" {
		return errors.New("no marker log path")
	}
	if cfg.ImageDir == "" {
		return errors.New("no image directory")
	}
	if cfg.OutputDir == "" {
		return errors.New("no output directory")
	}
	if cfg.Project && cfg.EPSGTo == 0 && cfg.UTMZone == "" {
		return errors.New("projection enabled but no destination CRS (set epsgTo or utmZone)")
	}

	if len(cfg.QualityFlags) != len(cfg.QualityFactors) {
		return errors.New("qualityFlags and qualityFactors must have the same length")
	}
	if len(cfg.QualityFlags) != 0 && len(cfg.QualityFlags) != 3 {
		return errors.Errorf("expected 3 quality flags, got %v", len(cfg.QualityFlags))
	}

	return nil
}

// Scaling builds the report scaling config, falling back to the DJI defaults
// when the job doesn't configure one
func (cfg JobConfig) Scaling() output.QualityScaling {
	scaling := output.DefaultQualityScaling()
	for i := range cfg.QualityFlags {
		scaling.Flags[i] = cfg.QualityFlags[i]
		scaling.Factors[i] = cfg.QualityFactors[i]
	}
	return scaling
}

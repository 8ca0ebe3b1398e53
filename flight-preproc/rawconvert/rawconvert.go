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

// Raw image conversion by driving an external converter binary once per file.
// The converter's command line is configured with placeholders, so any tool
// that takes an input path and an output directory can be wired in.
package rawconvert

import (
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/imagemeta"
)

// NoOpCommand skips the actual conversion. Only for testing - tests run on
// different platforms and we don't want them to depend on a real converter
// binary being installed.
const NoOpCommand = "noop"

// Placeholders substituted into the configured argument list
const (
	PlaceholderInput  = "{input}"
	PlaceholderOutDir = "{outdir}"
)

// Options - conversion run configuration
type Options struct {
	// Command names the converter binary. Must be on PATH or an absolute
	// path.
	Command string

	// Args is the converter's argument list. {input} expands to the raw
	// file path, {outdir} to the destination directory. If no {input}
	// placeholder is present the file path is appended.
	Args []string

	DestDir string

	// Extension of the raw files to convert, eg "dng"
	Extension string
}

// buildArgs expands the placeholders for one input file
func buildArgs(opts Options, file string) []string {
	args := make([]string, 0, len(opts.Args)+1)
	haveInput := false
	for _, arg := range opts.Args {
		if strings.Contains(arg, PlaceholderInput) {
			haveInput = true
		}
		arg = strings.ReplaceAll(arg, PlaceholderInput, file)
		arg = strings.ReplaceAll(arg, PlaceholderOutDir, opts.DestDir)
		args = append(args, arg)
	}
	if !haveInput {
		args = append(args, file)
	}
	return args
}

// ConvertAll runs the converter over every raw file in srcDir. A missing
// converter binary fails before any file is touched; per-file converter
// failures are logged and counted, they never stop the batch. Returns how
// many files converted successfully.
func ConvertAll(srcDir string, opts Options, jobLog logger.ILogger) (int, error) {
	if opts.Command == "" {
		return 0, errors.New("no converter command configured")
	}
	if opts.Extension == "" {
		return 0, errors.New("no raw file extension configured")
	}
	if opts.Command != NoOpCommand {
		_, err := exec.LookPath(opts.Command)
		if err != nil {
			return 0, errors.Wrapf(err, "converter not found: %v", opts.Command)
		}
	}

	if opts.DestDir != "" {
		err := os.MkdirAll(opts.DestDir, 0755)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to create destination: %v", opts.DestDir)
		}
	}

	files, err := imagemeta.ListImages(srcDir, opts.Extension)
	if err != nil {
		return 0, err
	}

	converted := 0
	for _, file := range files {
		args := buildArgs(opts, file)
		jobLog.Debugf("exec.Command starting \"%v\", args: [%v]", opts.Command, strings.Join(args, ","))

		if opts.Command != NoOpCommand {
			cmd := exec.Command(opts.Command, args...)
			out, err := cmd.CombinedOutput()
			if err != nil {
				jobLog.Errorf("Conversion failed for %v: %v", file, err)
				jobLog.Errorf("Converter output: %v", string(out))
				continue
			}
		}
		converted++
	}

	jobLog.Infof("Converted %v of %v raw files", converted, len(files))
	return converted, nil
}

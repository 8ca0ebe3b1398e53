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

package output

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/uasimaging/preproc/core/fileaccess"
	"github.com/uasimaging/preproc/core/logger"
	"github.com/uasimaging/preproc/flight-preproc/correlate"
)

// ReportMeta - identification stamped on the spreadsheet summary sheet
type ReportMeta struct {
	RunID            string
	GeneratedUnixSec int64
}

// sheetWriter collects the first error so cell writes can be chained without
// checking each one
type sheetWriter struct {
	book  *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col int, row int, value interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.book.SetCellValue(w.sheet, cell, value)
}

// setFloat writes a number, leaving the cell empty for NaN
func (w *sheetWriter) setFloat(col int, row int, value float64) {
	if math.IsNaN(value) {
		return
	}
	w.set(col, row, value)
}

func (w *sheetWriter) headerRow(names []string, boldStyle int) {
	for i, name := range names {
		w.set(i+1, 1, name)
	}
	if w.err != nil {
		return
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.book.SetCellStyle(w.sheet, "A1", last, boldStyle)
}

// WriteXLSX builds the inspection spreadsheet - an EXIF sheet with the camera
// positions, a LOG sheet with the GNSS events and a Summary sheet with run
// identification and the unmatched count - and stores it through the given
// file access at root/path.
func WriteXLSX(fs fileaccess.FileAccess, root string, path string, result correlate.Result, opts Options, meta ReportMeta, jobLog logger.ILogger) error {
	book := excelize.NewFile()
	defer book.Close()

	err := book.SetSheetName("Sheet1", "EXIF")
	if err != nil {
		return errors.Wrap(err, "failed to build spreadsheet")
	}
	for _, sheet := range []string{"LOG", "Summary"} {
		_, err = book.NewSheet(sheet)
		if err != nil {
			return errors.Wrap(err, "failed to build spreadsheet")
		}
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to build spreadsheet")
	}

	ids := correlate.SortedIDs(result.Records)

	err = writeExifSheet(book, ids, result.Records, opts, bold)
	if err == nil {
		err = writeLogSheet(book, ids, result.Records, opts, bold)
	}
	if err == nil {
		err = writeSummarySheet(book, result, opts, meta, bold)
	}
	if err != nil {
		return errors.Wrap(err, "failed to build spreadsheet")
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return errors.Wrap(err, "failed to build spreadsheet")
	}

	err = fs.WriteObject(root, path, buf.Bytes())
	if err != nil {
		return err
	}

	jobLog.Infof("Wrote spreadsheet report: %v", path)
	return nil
}

func writeExifSheet(book *excelize.File, ids []int, records map[int]*correlate.MergedRecord, opts Options, bold int) error {
	w := sheetWriter{book: book, sheet: "EXIF"}

	header := []string{"ID", "Image Name", "Image Path", "Date-Time", "Lon [deg]", "Lat [deg]", "h [m]"}
	if opts.Projected {
		header = append(header,
			fmt.Sprintf("East %v [m]", opts.ZoneLabel),
			fmt.Sprintf("North %v [m]", opts.ZoneLabel),
			fmt.Sprintf("h %v [m]", opts.ZoneLabel),
		)
	}
	w.headerRow(header, bold)

	row := 1
	for _, id := range ids {
		rec := records[id]
		row++
		if rec == nil {
			w.set(1, row, id)
			continue
		}

		w.set(1, row, rec.ID)
		w.set(2, row, rec.NameExif)
		w.set(3, row, rec.PathExif)
		w.set(4, row, rec.DateExif+" "+rec.TimeExif)
		w.setFloat(5, row, rec.LonExif)
		w.setFloat(6, row, rec.LatExif)
		w.setFloat(7, row, rec.EllhExif)
		if opts.Projected {
			w.setFloat(8, row, rec.EExif)
			w.setFloat(9, row, rec.NExif)
			w.setFloat(10, row, rec.HExif)
		}
	}

	return w.err
}

func writeLogSheet(book *excelize.File, ids []int, records map[int]*correlate.MergedRecord, opts Options, bold int) error {
	w := sheetWriter{book: book, sheet: "LOG"}

	header := []string{"ID", "Clock time [s]", "Lon [deg]", "Lat [deg]", "h [m]"}
	if opts.Projected {
		header = append(header,
			fmt.Sprintf("East %v [m]", opts.ZoneLabel),
			fmt.Sprintf("North %v [m]", opts.ZoneLabel),
			fmt.Sprintf("h %v [m]", opts.ZoneLabel),
		)
	}
	header = append(header, "ESDV [m]", "NSDV [m]", "VSDV [m]", "dE [m]", "dN [m]", "dV [m]", "Quality", "Flag")
	w.headerRow(header, bold)

	row := 1
	for _, id := range ids {
		rec := records[id]
		row++
		if rec == nil {
			w.set(1, row, id)
			continue
		}

		w.set(1, row, rec.ID)
		w.setFloat(2, row, rec.ClockTimeMrk)
		w.setFloat(3, row, rec.LonMrk)
		w.setFloat(4, row, rec.LatMrk)
		w.setFloat(5, row, rec.EllhMrk)

		col := 5
		if opts.Projected {
			w.setFloat(col+1, row, rec.EMrk)
			w.setFloat(col+2, row, rec.NMrk)
			w.setFloat(col+3, row, rec.HMrk)
			col += 3
		}

		w.setFloat(col+1, row, rec.StdEMrk)
		w.setFloat(col+2, row, rec.StdNMrk)
		w.setFloat(col+3, row, rec.StdVMrk)
		// Antenna offsets arrive in mm, report in metres
		w.setFloat(col+4, row, rec.DEMrk/1000)
		w.setFloat(col+5, row, rec.DNMrk/1000)
		w.setFloat(col+6, row, rec.DVMrk/1000)
		w.setFloat(col+7, row, rec.QualMrk)
		w.set(col+8, row, rec.FlagMrk)
	}

	return w.err
}

func writeSummarySheet(book *excelize.File, result correlate.Result, opts Options, meta ReportMeta, bold int) error {
	w := sheetWriter{book: book, sheet: "Summary"}

	generated := time.Unix(meta.GeneratedUnixSec, 0).UTC().Format("2006-01-02 15:04:05 UTC")

	rows := [][2]interface{}{
		{"Run ID", meta.RunID},
		{"Generated", generated},
		{"Events", len(result.Records)},
		{"Matched", len(result.Records) - result.UnmatchedCount()},
		{"Unmatched", result.UnmatchedCount()},
	}
	if result.UnmatchedCount() > 0 {
		ids := make([]string, len(result.Unmatched))
		for i, id := range result.Unmatched {
			ids[i] = fmt.Sprintf("%v", id)
		}
		rows = append(rows, [2]interface{}{"Unmatched IDs", strings.Join(ids, ", ")})
	}

	for i, kv := range rows {
		w.set(1, i+1, kv[0])
		w.set(2, i+1, kv[1])
	}

	if w.err != nil {
		return w.err
	}

	last, err := excelize.CoordinatesToCellName(1, len(rows))
	if err != nil {
		return err
	}
	return book.SetCellStyle("Summary", "A1", last, bold)
}

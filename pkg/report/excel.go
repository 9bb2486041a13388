/*
 * Copyright 2025 Mobilesec Labs.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package report renders the per-device aggregates and the threat-age tally
// into a two-sheet xlsx workbook.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mobilesec/mrareport/pkg/logger"
	"github.com/mobilesec/mrareport/pkg/reconcile"
	"github.com/mobilesec/mrareport/pkg/threatage"
)

const (
	// SheetDevices is the per-device report sheet.
	SheetDevices = "Device and Threat Report"
	// SheetAging is the age-bucket tally sheet.
	SheetAging = "Threat Aging"

	noThreats = "No threats detected"
)

var headers = []string{
	"Device GUID", "User Email", "Platform", "Manufacturer", "Model",
	"OS Version", "Latest OS Version", "Security Patch Level",
	"Latest Security Patch Level", "SDK Version", "Last Check-in",
	"Connection Status", "Threats",
}

// Write renders the workbook to path, overwriting any prior report. Device
// rows are sorted by GUID for deterministic output.
func Write(path string, reports map[string]*reconcile.DeviceReport, tally threatage.Tally, log logger.Logger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetDevices); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return err
	}

	// Track the longest cell per column for width sizing.
	maxLen := make([]int, len(headers))

	for col, header := range headers {
		cell, cellErr := excelize.CoordinatesToCellName(col+1, 1)
		if cellErr != nil {
			return cellErr
		}

		if err := f.SetCellValue(SheetDevices, cell, header); err != nil {
			return err
		}

		if err := f.SetCellStyle(SheetDevices, cell, cell, headerStyle); err != nil {
			return err
		}

		maxLen[col] = len(header)
	}

	guids := make([]string, 0, len(reports))
	for guid := range reports {
		guids = append(guids, guid)
	}

	sort.Strings(guids)

	log.Info().Int("devices", len(guids)).Msg("Generating Excel report")

	for row, guid := range guids {
		report := reports[guid]
		device := &report.Device

		connection := "Connected"
		if report.Disconnected {
			connection = "Disconnected"
		}

		values := []string{
			guid,
			device.Email,
			device.Platform,
			device.Manufacturer,
			device.Model,
			device.OSVersion,
			device.LatestOSVersion,
			device.SecurityPatchLevel,
			device.LatestSecurityPatchLevel,
			device.SDKVersion,
			device.CheckinTime,
			connection,
			threatCell(report.Threats),
		}

		for col, value := range values {
			cell, cellErr := excelize.CoordinatesToCellName(col+1, row+2)
			if cellErr != nil {
				return cellErr
			}

			if err := f.SetCellValue(SheetDevices, cell, value); err != nil {
				return err
			}

			if col == len(values)-1 {
				if err := f.SetCellStyle(SheetDevices, cell, cell, wrapStyle); err != nil {
					return err
				}
			}

			if len(value) > maxLen[col] {
				maxLen[col] = len(value)
			}
		}
	}

	for col := range headers {
		name, nameErr := excelize.ColumnNumberToName(col + 1)
		if nameErr != nil {
			return nameErr
		}

		width := float64(maxLen[col]+2) * 1.2
		if err := f.SetColWidth(SheetDevices, name, name, width); err != nil {
			return err
		}
	}

	if err := writeAgingSheet(f, tally); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	log.Info().Str("path", path).Msg("Excel report generated")

	return nil
}

func writeAgingSheet(f *excelize.File, tally threatage.Tally) error {
	if _, err := f.NewSheet(SheetAging); err != nil {
		return err
	}

	if err := f.SetSheetRow(SheetAging, "A1", &[]interface{}{"Age Bucket", "Number of Threats"}); err != nil {
		return err
	}

	for i, bucket := range threatage.Buckets {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetAging, cell, &[]interface{}{bucket, tally[bucket]}); err != nil {
			return err
		}
	}

	return nil
}

// threatCell combines a device's threats into a single multiline cell.
func threatCell(threats []reconcile.ThreatSummary) string {
	if len(threats) == 0 {
		return noThreats
	}

	lines := make([]string, 0, len(threats))

	for _, t := range threats {
		age := "N/A"
		if t.AgeDays != nil {
			age = fmt.Sprintf("%d days", *t.AgeDays)
		}

		lines = append(lines, fmt.Sprintf("Name: %s, Age: %s, Status: %s, Risk: %s",
			t.Name, age, t.Status, t.Risk))
	}

	return strings.Join(lines, "\n")
}

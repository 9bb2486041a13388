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

// Package reconcile joins fetched threats against the device store and
// builds the per-device aggregates plus the age-bucket tally.
package reconcile

import (
	"errors"
	"time"

	"github.com/mobilesec/mrareport/pkg/devicestore"
	"github.com/mobilesec/mrareport/pkg/logger"
	"github.com/mobilesec/mrareport/pkg/mra"
	"github.com/mobilesec/mrareport/pkg/threatage"
)

const (
	statusResolved         = "RESOLVED"
	protectionDisconnected = "DISCONNECTED"

	unknown = "Unknown"
)

// DeviceLookup is the read side of the device store.
type DeviceLookup interface {
	Get(guid string) (*devicestore.Device, error)
}

// ThreatSummary is one threat's contribution to a device report. AgeDays is
// nil when the detection timestamp was absent or unparseable.
type ThreatSummary struct {
	Name    string
	AgeDays *int
	Status  string
	Risk    string
}

// DeviceReport aggregates a device's stored attributes with its threats.
// A device referenced by a threat but absent from the store keeps the N/A
// placeholder attributes it is initialized with.
type DeviceReport struct {
	Device       devicestore.Device
	Disconnected bool
	Threats      []ThreatSummary
}

func newDeviceReport(guid string) *DeviceReport {
	return &DeviceReport{
		Device: devicestore.Device{
			GUID:                     guid,
			Email:                    devicestore.NotAvailable,
			CheckinTime:              devicestore.NotAvailable,
			OSVersion:                devicestore.NotAvailable,
			ProtectionStatus:         devicestore.NotAvailable,
			Manufacturer:             devicestore.NotAvailable,
			Model:                    devicestore.NotAvailable,
			LatestOSVersion:          devicestore.NotAvailable,
			LatestSecurityPatchLevel: devicestore.NotAvailable,
			SecurityPatchLevel:       devicestore.NotAvailable,
			SDKVersion:               devicestore.NotAvailable,
			Platform:                 devicestore.NotAvailable,
		},
		Threats: []ThreatSummary{},
	}
}

// Run attributes every threat to a device report (keyed by GUID, "N/A" when
// the threat carries none) and tallies unresolved threats into age buckets.
// Per-device threat lists keep fetch order and are not deduplicated. A threat
// whose detection timestamp fails to parse is logged and kept in the list
// with an unknown age, but contributes to no bucket.
func Run(threats []mra.Threat, store DeviceLookup, now time.Time, log logger.Logger) (map[string]*DeviceReport, threatage.Tally, error) {
	reports := make(map[string]*DeviceReport)
	tally := threatage.NewTally()

	for i := range threats {
		threat := &threats[i]

		guid := threat.DeviceGUID
		if guid == "" {
			guid = devicestore.NotAvailable
		}

		report, ok := reports[guid]
		if !ok {
			report = newDeviceReport(guid)
			reports[guid] = report
		}

		device, err := store.Get(guid)

		switch {
		case err == nil:
			report.Device = *device
			report.Disconnected = device.ProtectionStatus == protectionDisconnected
		case errors.Is(err, devicestore.ErrDeviceNotFound):
			// Threats against unknown devices are still reported.
		default:
			return nil, nil, err
		}

		summary := ThreatSummary{
			Name:   orUnknown(threat.Classification),
			Status: orUnknown(threat.Status),
			Risk:   orUnknown(threat.Risk),
		}

		if threat.DetectedAt != "" {
			detected, parseErr := threatage.Parse(threat.DetectedAt)
			if parseErr != nil {
				log.Warn().
					Err(parseErr).
					Str("device_guid", guid).
					Msg("Error processing threat")
			} else {
				age := threatage.Age(detected, now)
				summary.AgeDays = &age

				if threat.Status != statusResolved {
					tally.Record(age)
				}
			}
		}

		report.Threats = append(report.Threats, summary)
	}

	return reports, tally, nil
}

func orUnknown(v string) string {
	if v == "" {
		return unknown
	}

	return v
}

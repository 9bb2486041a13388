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

// Package devicestore persists the latest known snapshot of each device in
// a local SQLite table keyed by GUID. The file is reused across runs as a
// cache; rows are only ever inserted or overwritten, never deleted.
package devicestore

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mobilesec/mrareport/pkg/logger"
	"github.com/mobilesec/mrareport/pkg/mra"
)

// NotAvailable is stored in place of any field absent from the source
// payload, so downstream joins never see empty values.
const NotAvailable = "N/A"

// ErrDeviceNotFound indicates no row exists for the requested GUID.
var ErrDeviceNotFound = errors.New("device not found")

const upsertBatchSize = 500

// Device is one stored device row.
type Device struct {
	GUID                     string `gorm:"column:guid;primaryKey"`
	Email                    string `gorm:"column:email"`
	CheckinTime              string `gorm:"column:checkin_time"`
	OSVersion                string `gorm:"column:os_version"`
	ProtectionStatus         string `gorm:"column:protection_status"`
	Manufacturer             string `gorm:"column:manufacturer"`
	Model                    string `gorm:"column:model"`
	LatestOSVersion          string `gorm:"column:latest_os_version"`
	LatestSecurityPatchLevel string `gorm:"column:latest_security_patch_level"`
	SecurityPatchLevel       string `gorm:"column:security_patch_level"`
	SDKVersion               string `gorm:"column:sdk_version"`
	Platform                 string `gorm:"column:platform"`
}

// TableName overrides the GORM default.
func (Device) TableName() string {
	return "devices"
}

// FromAPIDevice converts an API payload into a storable row, substituting
// the N/A sentinel for every absent field.
func FromAPIDevice(d *mra.Device) Device {
	return Device{
		GUID:                     orNA(d.GUID),
		Email:                    orNA(d.Email),
		CheckinTime:              orNA(d.CheckinTime),
		OSVersion:                orNA(d.Software.OSVersion),
		ProtectionStatus:         orNA(d.ProtectionStatus),
		Manufacturer:             orNA(d.Hardware.Manufacturer),
		Model:                    orNA(d.Hardware.Model),
		LatestOSVersion:          orNA(d.Software.LatestOSVersion),
		LatestSecurityPatchLevel: orNA(d.Software.LatestSecurityPatchLevel),
		SecurityPatchLevel:       orNA(d.Software.SecurityPatchLevel),
		SDKVersion:               orNA(d.Software.SDKVersion),
		Platform:                 orNA(d.Platform),
	}
}

func orNA(v string) string {
	if v == "" {
		return NotAvailable
	}

	return v
}

// Store wraps the SQLite-backed device table.
type Store struct {
	db  *gorm.DB
	log logger.Logger
}

// Open opens (creating if absent) the device database at path and migrates
// the schema. Migration is idempotent.
func Open(path string, log logger.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open device database: %w", err)
	}

	if err := db.AutoMigrate(&Device{}); err != nil {
		return nil, fmt.Errorf("failed to migrate device schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// UpsertAll inserts or overwrites each device row by GUID, last write wins.
// Rows are written in batches; each batch runs in its own transaction, so an
// interrupted run never leaves a partially written row visible.
func (s *Store) UpsertAll(devices []Device) error {
	if len(devices) == 0 {
		return nil
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guid"}},
		UpdateAll: true,
	}).CreateInBatches(devices, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to upsert devices: %w", err)
	}

	s.log.Info().Int("devices", len(devices)).Msg("Device database refreshed")

	return nil
}

// Get returns the stored row for guid, or ErrDeviceNotFound.
func (s *Store) Get(guid string) (*Device, error) {
	var device Device

	err := s.db.First(&device, "guid = ?", guid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}

		return nil, fmt.Errorf("failed to look up device %s: %w", guid, err)
	}

	return &device, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

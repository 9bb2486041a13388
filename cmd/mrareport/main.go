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

// mrareport fetches the device inventory and threat list from the Lookout
// Mobile Risk API, refreshes the local device snapshot, and writes a
// two-sheet xlsx report of per-device risk and threat aging.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/mobilesec/mrareport/pkg/config"
	"github.com/mobilesec/mrareport/pkg/devicestore"
	"github.com/mobilesec/mrareport/pkg/logger"
	"github.com/mobilesec/mrareport/pkg/mra"
	"github.com/mobilesec/mrareport/pkg/reconcile"
	"github.com/mobilesec/mrareport/pkg/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	baseLog := logger.New(logger.Config{Level: cfg.LogLevel})
	runLog := logger.NewWithLogger(baseLog.With().Str("run_id", uuid.NewString()).Logger())

	runLog.Info().Msg("Starting the device and threat reporting tool")

	if err := run(context.Background(), cfg, runLog); err != nil {
		runLog.Fatal().Err(err).Msg("Run failed")
	}

	runLog.Info().Msg("Run completed")
}

func run(ctx context.Context, cfg *config.Config, runLog logger.Logger) error {
	client := mra.NewClient(cfg.Endpoint, cfg.ApplicationKey, cfg.PageSize, cfg.HTTPTimeout, runLog)

	accessToken, err := client.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	runLog.Info().Msg("Access token obtained")

	store, err := devicestore.Open(cfg.DBPath, runLog)
	if err != nil {
		return err
	}
	defer store.Close()

	devices, err := client.FetchDevices(ctx, accessToken, cfg.TargetEmail)
	if err != nil {
		return err
	}

	rows := make([]devicestore.Device, 0, len(devices))
	for i := range devices {
		rows = append(rows, devicestore.FromAPIDevice(&devices[i]))
	}

	if err := store.UpsertAll(rows); err != nil {
		return err
	}

	threats, err := client.FetchThreats(ctx, accessToken)
	if err != nil {
		return err
	}

	runLog.Info().Msg("Processing threats and device information")

	reports, tally, err := reconcile.Run(threats, store, time.Now().UTC(), runLog)
	if err != nil {
		return err
	}

	return report.Write(cfg.ReportPath, reports, tally, runLog)
}

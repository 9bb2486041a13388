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

// Package config loads the reporter configuration from the environment.
// A .env file in the working directory is honored if present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingApplicationKey indicates the API credential was not provided.
	ErrMissingApplicationKey = errors.New("REACT_APP_APPLICATION_KEY is not set")
	errInvalidPageSize       = errors.New("PAGE_SIZE must be a positive integer")
	errInvalidTimeout        = errors.New("HTTP_TIMEOUT must be a valid duration")
)

const (
	defaultEndpoint   = "https://api.lookout.com"
	defaultDBPath     = "devices.db"
	defaultReportPath = "device_and_threat_report.xlsx"
	defaultPageSize   = 1000

	// The upstream tool issued requests with no timeout at all; a bounded
	// default is new behavior, overridable via HTTP_TIMEOUT.
	defaultHTTPTimeout = 60 * time.Second
)

// Config holds everything a single reporting run needs.
type Config struct {
	Endpoint       string
	ApplicationKey string
	DBPath         string
	ReportPath     string
	PageSize       int
	HTTPTimeout    time.Duration
	TargetEmail    string
	LogLevel       string
}

// Load reads configuration from environment variables, loading a local
// .env file first when one exists. Only the application key is required.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		Endpoint:       getEnvDefault("LOOKOUT_API_URL", defaultEndpoint),
		ApplicationKey: os.Getenv("REACT_APP_APPLICATION_KEY"),
		DBPath:         getEnvDefault("DEVICE_DB_PATH", defaultDBPath),
		ReportPath:     getEnvDefault("REPORT_PATH", defaultReportPath),
		PageSize:       defaultPageSize,
		HTTPTimeout:    defaultHTTPTimeout,
		TargetEmail:    os.Getenv("TARGET_EMAIL"),
		LogLevel:       getEnvDefault("LOG_LEVEL", "info"),
	}

	if cfg.ApplicationKey == "" {
		return nil, ErrMissingApplicationKey
	}

	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidPageSize, raw)
		}

		cfg.PageSize = size
	}

	if raw := os.Getenv("HTTP_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidTimeout, raw)
		}

		cfg.HTTPTimeout = timeout
	}

	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"LOOKOUT_API_URL", "DEVICE_DB_PATH", "REPORT_PATH",
		"PAGE_SIZE", "HTTP_TIMEOUT", "TARGET_EMAIL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_APPLICATION_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.lookout.com", cfg.Endpoint)
	assert.Equal(t, "test-key", cfg.ApplicationKey)
	assert.Equal(t, "devices.db", cfg.DBPath)
	assert.Equal(t, "device_and_threat_report.xlsx", cfg.ReportPath)
	assert.Equal(t, 1000, cfg.PageSize)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.TargetEmail)
}

func TestLoad_MissingApplicationKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_APPLICATION_KEY", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingApplicationKey)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_APPLICATION_KEY", "test-key")
	t.Setenv("LOOKOUT_API_URL", "https://lookout.example.com")
	t.Setenv("PAGE_SIZE", "50")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("TARGET_EMAIL", "a@x.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://lookout.example.com", cfg.Endpoint)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "a@x.com", cfg.TargetEmail)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_APPLICATION_KEY", "test-key")

	t.Setenv("PAGE_SIZE", "zero")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("PAGE_SIZE", "-5")

	_, err = Load()
	require.Error(t, err)

	t.Setenv("PAGE_SIZE", "")
	t.Setenv("HTTP_TIMEOUT", "fast")

	_, err = Load()
	require.Error(t, err)
}

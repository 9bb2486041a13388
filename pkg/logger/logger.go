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

// Package logger provides JSON structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log level and destination.
type Config struct {
	Level  string `json:"level"`
	Debug  bool   `json:"debug"`
	Output string `json:"output"`
}

// Logger is the logging interface passed to components.
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	Fatal() *zerolog.Event
	With() zerolog.Context
	WithComponent(component string) zerolog.Logger
}

type logWrapper struct {
	logger zerolog.Logger
}

// New creates a Logger from the given config. Invalid levels fall back to info.
func New(config Config) Logger {
	var output io.Writer = os.Stdout

	if config.Output == "stderr" {
		output = os.Stderr
	}

	level := zerolog.InfoLevel

	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		if parsed, err := zerolog.ParseLevel(config.Level); err == nil {
			level = parsed
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &logWrapper{logger: zlog}
}

// NewWithLogger wraps an existing zerolog.Logger.
func NewWithLogger(zlog zerolog.Logger) Logger {
	return &logWrapper{logger: zlog}
}

func (l *logWrapper) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *logWrapper) Info() *zerolog.Event  { return l.logger.Info() }
func (l *logWrapper) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *logWrapper) Error() *zerolog.Event { return l.logger.Error() }
func (l *logWrapper) Fatal() *zerolog.Event { return l.logger.Fatal() }
func (l *logWrapper) With() zerolog.Context { return l.logger.With() }

func (l *logWrapper) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

// NewTestLogger creates a no-op logger for testing that discards all output.
func NewTestLogger() Logger {
	return &logWrapper{logger: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}

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

// Package threatage classifies threat detection timestamps into whole-day
// ages and fixed aging buckets.
package threatage

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnparsableTimestamp indicates a detection timestamp matched none of
// the accepted layouts. Callers treat this as recoverable: skip the threat,
// continue the run.
var ErrUnparsableTimestamp = errors.New("unable to parse detection timestamp")

// Accepted layouts, tried in order: fractional-seconds UTC first, then bare.
var detectionLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05",
}

// Bucket labels, in report order.
const (
	BucketUnderDay   = "< 1 day"
	BucketWeek       = "1-7 days"
	BucketMonth      = "8-30 days"
	BucketQuarter    = "31-90 days"
	BucketOverNinety = "> 90 days"
)

// Buckets lists the five age buckets in fixed report order.
var Buckets = []string{BucketUnderDay, BucketWeek, BucketMonth, BucketQuarter, BucketOverNinety}

// Parse parses a detection timestamp against the accepted layouts.
// Timestamps carry no zone indicator and are interpreted as UTC.
func Parse(detectedAt string) (time.Time, error) {
	for _, layout := range detectionLayouts {
		if t, err := time.Parse(layout, detectedAt); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s", ErrUnparsableTimestamp, detectedAt)
}

// Age returns the whole number of days elapsed between detection and now,
// truncated.
func Age(detected, now time.Time) int {
	return int(now.Sub(detected).Hours() / 24)
}

// Bucket maps a whole-day age to its bucket label. Ranges are
// lower-bound-inclusive: [0,1) [1,8) [8,31) [31,91), then 91 and up.
func Bucket(ageDays int) string {
	switch {
	case ageDays < 1:
		return BucketUnderDay
	case ageDays < 8:
		return BucketWeek
	case ageDays < 31:
		return BucketMonth
	case ageDays < 91:
		return BucketQuarter
	default:
		return BucketOverNinety
	}
}

// Tally counts threats per age bucket.
type Tally map[string]int

// NewTally returns a tally with every bucket present at zero.
func NewTally() Tally {
	t := make(Tally, len(Buckets))
	for _, b := range Buckets {
		t[b] = 0
	}

	return t
}

// Record increments the bucket for the given age.
func (t Tally) Record(ageDays int) {
	t[Bucket(ageDays)]++
}

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

package threatage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AcceptedLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "fractional seconds UTC",
			input: "2025-06-15T10:30:00.123456Z",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "without fractional seconds or zone",
			input: "2025-06-15T10:30:00",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParse_Unparseable(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "not-a-date", "06/15/2025", "2025-06-15 10:30:00"} {
		_, err := Parse(input)
		require.ErrorIs(t, err, ErrUnparsableTimestamp, "input %q", input)
	}
}

func TestAge_TruncatesToWholeDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, Age(now.Add(-6*time.Hour), now))
	assert.Equal(t, 1, Age(now.Add(-36*time.Hour), now))
	assert.Equal(t, 5, Age(now.AddDate(0, 0, -5), now))
}

func TestBucket_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ageDays int
		want    string
	}{
		{0, BucketUnderDay},
		{1, BucketWeek},
		{7, BucketWeek},
		{8, BucketMonth},
		{30, BucketMonth},
		{31, BucketQuarter},
		{90, BucketQuarter},
		{91, BucketOverNinety},
		{400, BucketOverNinety},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.ageDays), "age %d", tt.ageDays)
	}
}

func TestTally_Record(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	require.Len(t, tally, len(Buckets))

	tally.Record(0)
	tally.Record(40)
	tally.Record(40)

	assert.Equal(t, 1, tally[BucketUnderDay])
	assert.Equal(t, 2, tally[BucketQuarter])
	assert.Equal(t, 0, tally[BucketWeek])
	assert.Equal(t, 0, tally[BucketMonth])
	assert.Equal(t, 0, tally[BucketOverNinety])
}

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Version
		wantErr error
	}{
		{"major only", "5", Version{Major: 5, Precision: 1}, nil},
		{"major minor", "7.10", Version{Major: 7, Minor: 10, Precision: 2}, nil},
		{"full", "8.1.1", NewVersion(8, 1, 1), nil},
		{"v prefix", "v6.22.3", NewVersion(6, 22, 3), nil},
		{"snapshot suffix", "7.10.0-SNAPSHOT", Version{Major: 7, Minor: 10, Precision: 3, Extras: "-SNAPSHOT"}, nil},
		{"build metadata", "8.0.0+build.7", Version{Major: 8, Precision: 3, Extras: "+build.7"}, nil},
		{"empty", "", Version{}, ErrEmptyVersion},
		{"too many", "1.2.3.4", Version{}, ErrTooManyComponents},
		{"non numeric", "a.b", Version{}, ErrNonNumeric},
		{"empty component", "1..2", Version{}, ErrNonNumeric},
		{"negative", "-1", Version{}, ErrNegativeComponent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "5", MustParseVersion("5").String())
	assert.Equal(t, "7.10", MustParseVersion("7.10").String())
	assert.Equal(t, "7.10.0", MustParseVersion("7.10.0-SNAPSHOT").String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"5.0.0", "5.0.0", 0},
		{"5", "5.0.0", 0},
		{"4.4.1", "5.0.0", -1},
		{"7.10.0", "7.9.9", 1},
		{"8.0.1", "8.0.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseVersion(tt.a).Compare(MustParseVersion(tt.b)))
		})
	}
}

func TestAtLeast(t *testing.T) {
	minimum := NewVersion(5, 0, 0)
	assert.True(t, MustParseVersion("5.0.0").AtLeast(minimum))
	assert.True(t, MustParseVersion("7.10.1").AtLeast(minimum))
	assert.False(t, MustParseVersion("4.4.0").AtLeast(minimum))
}

func TestMustParseVersionPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("x") })
}

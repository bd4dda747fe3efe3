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

package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		kind   Kind
		str    string
		truthy bool
	}{
		{"nil", nil, KindNull, "", false},
		{"string", "web1", KindString, "web1", true},
		{"empty string", "", KindString, "", false},
		{"bool", true, KindBool, "true", true},
		{"false", false, KindBool, "false", false},
		{"float", 1.5, KindNumber, "1.5", true},
		{"int", 42, KindNumber, "42", true},
		{"zero", 0.0, KindNumber, "0", false},
		{"json number", json.Number("7"), KindNumber, "7", true},
		{"list", []any{"a", 1.0}, KindList, "a, 1", true},
		{"empty list", []any{}, KindList, "", false},
		{"string slice", []string{"x", "y"}, KindList, "x, y", true},
		{"map", map[string]any{"name": "Debian"}, KindMap, `{"name":"Debian"}`, true},
		{"other type", struct{ A int }{1}, KindString, "{1}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
			assert.Equal(t, tt.truthy, v.Truthy())
		})
	}
}

func TestValueList(t *testing.T) {
	assert.Nil(t, Null.List())
	assert.Equal(t, []string{"/etc"}, ValueOf("/etc").Strings())
	assert.Equal(t, []string{"/etc", "/var"}, ValueOf([]any{"/etc", "/var"}).Strings())
}

func TestValueGet(t *testing.T) {
	v := ValueOf(map[string]any{
		"os": map[string]any{
			"name":    "Debian",
			"release": map[string]any{"full": "12.5"},
		},
	})

	assert.Equal(t, "12.5", v.Get("os", "release", "full").String())
	assert.True(t, v.Get("os", "missing", "full").IsNull())
	assert.True(t, ValueOf("scalar").Get("x").IsNull())
	assert.Equal(t, v, v.Get())
	assert.Equal(t, []string{"name", "release"}, v.Get("os").Keys())
}

func TestValueMarshalJSON(t *testing.T) {
	b, err := json.Marshal(ValueOf([]string{"a"}))
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(b))

	b, err = json.Marshal(Null)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

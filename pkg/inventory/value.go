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
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindNumber
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindBool:   "bool",
	KindNumber: "number",
	KindList:   "list",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is a type-tagged view over a JSON-like value (fact, parameter or
// derived attribute). The zero Value is null.
type Value struct {
	kind Kind
	raw  any
}

// Null is the absent value.
var Null = Value{}

// ValueOf classifies v. Values that are not JSON-like are rendered through
// fmt and tagged as strings.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null
	case Value:
		return val
	case string:
		return Value{kind: KindString, raw: val}
	case bool:
		return Value{kind: KindBool, raw: val}
	case float64:
		return Value{kind: KindNumber, raw: val}
	case float32:
		return Value{kind: KindNumber, raw: float64(val)}
	case int:
		return Value{kind: KindNumber, raw: float64(val)}
	case int64:
		return Value{kind: KindNumber, raw: float64(val)}
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Value{kind: KindString, raw: val.String()}
		}
		return Value{kind: KindNumber, raw: f}
	case []any:
		return Value{kind: KindList, raw: val}
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return Value{kind: KindList, raw: items}
	case map[string]any:
		return Value{kind: KindMap, raw: val}
	default:
		return Value{kind: KindString, raw: fmt.Sprintf("%v", val)}
	}
}

// Kind returns the tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns the underlying value. Numbers are always float64.
func (v Value) Any() any { return v.raw }

// Truthy follows JSON truthiness: null, false, "", 0 and empty collections
// are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.raw.(string) != ""
	case KindBool:
		return v.raw.(bool)
	case KindNumber:
		return v.raw.(float64) != 0
	case KindList:
		return len(v.raw.([]any)) > 0
	case KindMap:
		return len(v.raw.(map[string]any)) > 0
	default:
		return false
	}
}

// String renders scalars plainly, lists comma-separated and maps as JSON.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.raw.(string)
	case KindBool:
		return strconv.FormatBool(v.raw.(bool))
	case KindNumber:
		return strconv.FormatFloat(v.raw.(float64), 'f', -1, 64)
	case KindList:
		return strings.Join(v.Strings(), ", ")
	default:
		b, err := json.Marshal(v.raw)
		if err != nil {
			return fmt.Sprintf("%v", v.raw)
		}
		return string(b)
	}
}

// List returns the elements of a list. A scalar is returned as a single
// element list and null as an empty one.
func (v Value) List() []Value {
	switch v.kind {
	case KindNull:
		return nil
	case KindList:
		items := v.raw.([]any)
		out := make([]Value, len(items))
		for i, it := range items {
			out[i] = ValueOf(it)
		}
		return out
	default:
		return []Value{v}
	}
}

// Strings returns the string form of every element of List.
func (v Value) Strings() []string {
	items := v.List()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.String())
	}
	return out
}

// Get returns the value at key for maps and Null otherwise. Several keys
// descend into nested maps.
func (v Value) Get(keys ...string) Value {
	cur := v
	for _, k := range keys {
		if cur.kind != KindMap {
			return Null
		}
		cur = ValueOf(cur.raw.(map[string]any)[k])
	}
	return cur
}

// Keys returns the sorted keys of a map value.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	m := v.raw.(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the underlying value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

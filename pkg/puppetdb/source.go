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

package puppetdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NVIDIA/infinitory/pkg/errors"
)

// Collections understood by the engine.
const (
	CollectionInventory = "inventory"
	CollectionNodes     = "nodes"
	CollectionResources = "resources"
	CollectionReports   = "reports"
)

// Source executes a query against a CMDB and returns the raw records.
//
// The query is either a PQL string ("resources { ... }") or a JSON-encoded
// AST query ("[\"=\", \"hash\", \"...\"]") evaluated against collection.
// Implementations must be safe for sequential use; the engine never issues
// queries concurrently against a single Source.
type Source interface {
	Query(ctx context.Context, collection, query string) ([]json.RawMessage, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, collection, query string) ([]json.RawMessage, error)

// Query calls f.
func (f SourceFunc) Query(ctx context.Context, collection, query string) ([]json.RawMessage, error) {
	return f(ctx, collection, query)
}

// IsAST reports whether query is an AST query rather than PQL.
func IsAST(query string) bool {
	for _, r := range query {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// Decode unmarshals every record into a T. The first record that fails to
// decode aborts with ErrCodeQuery.
func Decode[T any](records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, raw := range records {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.WrapWithContext(errors.ErrCodeQuery,
				fmt.Sprintf("failed to decode record %d", i), err,
				map[string]any{"index": i})
		}
		out = append(out, v)
	}
	return out, nil
}

// QueryInto runs query against src and decodes the records into T.
func QueryInto[T any](ctx context.Context, src Source, collection, query string) ([]T, error) {
	records, err := src.Query(ctx, collection, query)
	if err != nil {
		return nil, err
	}
	return Decode[T](records)
}

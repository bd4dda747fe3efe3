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

// Package puppetdbtest provides an in-memory puppetdb.Source for tests.
package puppetdbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call records one query issued against a Source.
type Call struct {
	Collection string
	Query      string
}

type key struct {
	collection string
	query      string
}

// Source answers queries from canned responses keyed by collection and exact
// query text. Unregistered queries return an empty result.
type Source struct {
	mu        sync.Mutex
	responses map[key][]json.RawMessage
	failures  map[key]error
	calls     []Call
}

// NewSource returns an empty fake.
func NewSource() *Source {
	return &Source{
		responses: make(map[key][]json.RawMessage),
		failures:  make(map[key]error),
	}
}

// Set registers the records returned for query. Records are marshaled with
// encoding/json; json.RawMessage values are used verbatim.
func (s *Source) Set(collection, query string, records ...any) {
	raw := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		if m, ok := r.(json.RawMessage); ok {
			raw = append(raw, m)
			continue
		}
		b, err := json.Marshal(r)
		if err != nil {
			panic(fmt.Sprintf("puppetdbtest: cannot marshal record: %v", err))
		}
		raw = append(raw, b)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key{collection, query}] = raw
}

// SetError makes query fail with err.
func (s *Source) SetError(collection, query string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key{collection, query}] = err
}

// Query implements puppetdb.Source.
func (s *Source) Query(ctx context.Context, collection, query string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Collection: collection, Query: query})

	k := key{collection, query}
	if err, ok := s.failures[k]; ok {
		return nil, err
	}
	out := make([]json.RawMessage, len(s.responses[k]))
	copy(out, s.responses[k])
	return out, nil
}

// Calls returns the queries issued so far.
func (s *Source) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times collection was queried.
func (s *Source) CallCount(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Collection == collection {
			n++
		}
	}
	return n
}

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
	"fmt"
	"strings"
)

// ActiveNodesPredicate restricts queries to nodes that are neither
// deactivated nor expired.
const ActiveNodesPredicate = "nodes { deactivated is null and expired is null }"

// Filter accumulates PQL predicate fragments that are ANDed into every
// query rendered from it. Fragments are kept in insertion order and are not
// de-duplicated; adding the same fragment twice only adds a redundant clause.
type Filter struct {
	fragments []string
}

// NewFilter returns a filter seeded with the given fragments.
func NewFilter(initial ...string) *Filter {
	f := &Filter{}
	for _, p := range initial {
		f.Add(p)
	}
	return f
}

// Add appends a predicate fragment. Blank fragments are ignored.
func (f *Filter) Add(predicate string) {
	if strings.TrimSpace(predicate) == "" {
		return
	}
	f.fragments = append(f.fragments, predicate)
}

// AddActive restricts the filter to active, non-expired nodes.
func (f *Filter) AddActive() {
	f.Add(ActiveNodesPredicate)
}

// Fragments returns a copy of the accumulated fragments.
func (f *Filter) Fragments() []string {
	out := make([]string, len(f.fragments))
	copy(out, f.fragments)
	return out
}

// Render produces the PQL query for collection, ANDing every fragment with
// extra when extra is not blank. With a single clause the clause is used
// verbatim, with several each clause is parenthesised so that an "or" inside
// one fragment cannot change the meaning of another.
func (f *Filter) Render(collection, extra string) string {
	clauses := f.Fragments()
	if strings.TrimSpace(extra) != "" {
		clauses = append(clauses, extra)
	}

	switch len(clauses) {
	case 0:
		return collection + " {}"
	case 1:
		return fmt.Sprintf("%s { %s }", collection, clauses[0])
	}

	wrapped := make([]string, len(clauses))
	for i, c := range clauses {
		wrapped[i] = "(" + c + ")"
	}
	return fmt.Sprintf("%s { %s }", collection, strings.Join(wrapped, " and "))
}

// Quote returns s as a double-quoted PQL string literal.
func Quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

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
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
)

var (
	// ErrNodesNotLoaded is returned by the join steps when LoadNodes has not
	// run yet.
	ErrNodesNotLoaded = errors.New(errors.ErrCodeInternal, "nodes must be loaded before joining resources")

	// ErrNodesAlreadyLoaded is returned by a second call to LoadNodes.
	ErrNodesAlreadyLoaded = errors.New(errors.ErrCodeInternal, "nodes already loaded")
)

// Store is the node-keyed record table for a single run. It is not safe for
// concurrent use; the generator drives it from one goroutine.
type Store struct {
	filter *puppetdb.Filter
	nodes  map[string]*Node
	order  []*Node
	roles  map[string][]*Node
	loaded bool
}

// NewStore returns an empty store whose queries are restricted by filter.
// A nil filter matches everything.
func NewStore(filter *puppetdb.Filter) *Store {
	if filter == nil {
		filter = puppetdb.NewFilter()
	}
	return &Store{
		filter: filter,
		nodes:  make(map[string]*Node),
		roles:  make(map[string][]*Node),
	}
}

// Filter returns the filter applied to every query.
func (s *Store) Filter() *puppetdb.Filter {
	return s.filter
}

// LoadNodes fetches the inventory collection and stores every node by
// certname in load order. Source errors are returned unchanged.
func (s *Store) LoadNodes(ctx context.Context, src puppetdb.Source) error {
	if s.loaded {
		return ErrNodesAlreadyLoaded
	}

	start := time.Now()
	q := s.filter.Render(puppetdb.CollectionInventory, "")
	nodes, err := puppetdb.QueryInto[*Node](ctx, src, puppetdb.CollectionInventory, q)
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}

	for _, n := range nodes {
		if n == nil || n.Certname == "" {
			slog.Warn("skipping inventory record without certname")
			continue
		}
		if _, dup := s.nodes[n.Certname]; dup {
			slog.Warn("duplicate inventory record", "certname", n.Certname)
			continue
		}
		s.nodes[n.Certname] = n
		s.order = append(s.order, n)
	}
	s.loaded = true

	slog.Info("nodes loaded", "count", len(s.order), "duration", time.Since(start))
	return nil
}

// Loaded reports whether LoadNodes has completed.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Len returns the number of loaded nodes.
func (s *Store) Len() int {
	return len(s.order)
}

// Node returns the node with the given certname.
func (s *Store) Node(certname string) (*Node, bool) {
	n, ok := s.nodes[certname]
	return n, ok
}

// Nodes returns the loaded nodes in load order.
func (s *Store) Nodes() []*Node {
	return slices.Clone(s.order)
}

// QueryResources runs a resource query restricted by the store filter and
// condition. The query is issued before returning so source errors surface
// here; the sequence then yields each resource paired with its node.
// Resources declared absent are skipped unless includeAbsent is set, and
// resources whose node is not loaded are skipped silently.
func (s *Store) QueryResources(ctx context.Context, src puppetdb.Source, condition string, includeAbsent bool) (iter.Seq2[*Node, *Resource], error) {
	if !s.loaded {
		return nil, ErrNodesNotLoaded
	}

	q := s.filter.Render(puppetdb.CollectionResources, condition)
	resources, err := puppetdb.QueryInto[*Resource](ctx, src, puppetdb.CollectionResources, q)
	if err != nil {
		return nil, err
	}

	return func(yield func(*Node, *Resource) bool) {
		for _, r := range resources {
			if r == nil {
				continue
			}
			if !includeAbsent && r.Absent() {
				continue
			}
			node, ok := s.nodes[r.Certname]
			if !ok {
				continue
			}
			if !yield(node, r) {
				return
			}
		}
	}, nil
}

// QueryClasses is QueryResources restricted to Class resources titled
// className.
func (s *Store) QueryClasses(ctx context.Context, src puppetdb.Source, className string) (iter.Seq2[*Node, *Resource], error) {
	return s.QueryResources(ctx, src, ClassCondition(className), false)
}

// ClassCondition returns the resource condition matching a class.
func ClassCondition(className string) string {
	return fmt.Sprintf("type = %s and title = %s", puppetdb.Quote("Class"), puppetdb.Quote(className))
}

// SortedNodes returns every node ordered by the string form of
// Lookup(section, key). Missing values sort as the empty string and ties
// keep load order.
func (s *Store) SortedNodes(section, key string) []*Node {
	out := slices.Clone(s.order)
	slices.SortStableFunc(out, func(a, b *Node) int {
		return cmp.Compare(a.Lookup(section, key).String(), b.Lookup(section, key).String())
	})
	return out
}

// RoleEntry is one role and the nodes that carry it.
type RoleEntry struct {
	Name  string  `json:"name" yaml:"name"`
	Nodes []*Node `json:"-" yaml:"-"`
}

// Certnames returns the certnames of the role's nodes in index order.
func (r RoleEntry) Certnames() []string {
	return certnames(r.Nodes)
}

// MarshalJSON encodes the role with the certnames of its nodes.
func (r RoleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string   `json:"name"`
		Certnames []string `json:"certnames"`
	}{r.Name, r.Certnames()})
}

func certnames(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Certname
	}
	return out
}

// SortedRoles returns the role index ordered by role name.
func (s *Store) SortedRoles() []RoleEntry {
	out := make([]RoleEntry, 0, len(s.roles))
	for name, nodes := range s.roles {
		out = append(out, RoleEntry{Name: name, Nodes: slices.Clone(nodes)})
	}
	slices.SortFunc(out, func(a, b RoleEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

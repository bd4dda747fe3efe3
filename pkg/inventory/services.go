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
	"encoding/json"
	"slices"
)

// Undef is how Puppet serialises an undefined parameter.
const Undef = ":undef"

// Service describes a service class declared by nodes through the
// profile_metadata fact.
type Service struct {
	ClassName   string         `json:"class_name" yaml:"class_name"`
	HumanName   string         `json:"human_name" yaml:"human_name"`
	Team        string         `json:"team,omitempty" yaml:"team,omitempty"`
	OwnerUID    string         `json:"owner_uid,omitempty" yaml:"owner_uid,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
	Nodes       []*Node        `json:"-" yaml:"-"`
}

// Field returns a raw descriptor field.
func (s *Service) Field(key string) Value {
	return ValueOf(s.Fields[key])
}

// Lookup implements Addressable. Every section addresses descriptor fields.
func (s *Service) Lookup(_, key string) Value {
	return s.Field(key)
}

// Certnames returns the certnames of the declaring nodes.
func (s *Service) Certnames() []string {
	return certnames(s.Nodes)
}

// MarshalJSON encodes the descriptor with the certnames of its nodes.
func (s *Service) MarshalJSON() ([]byte, error) {
	type plain Service
	return json.Marshal(struct {
		*plain
		Certnames []string `json:"certnames"`
	}{(*plain)(s), s.Certnames()})
}

// HasTeam reports whether the service names a team.
func (s *Service) HasTeam() bool {
	return s.Team != "" && s.Team != Undef
}

// HasOwner reports whether the service names an owner.
func (s *Service) HasOwner() bool {
	return s.OwnerUID != "" && s.OwnerUID != Undef
}

// NewService builds a descriptor from one profile_metadata.services entry.
// It returns false when the entry has no class name.
func NewService(entry Value) (*Service, bool) {
	if entry.Kind() != KindMap {
		return nil, false
	}
	className := entry.Get("class_name").String()
	if className == "" {
		return nil, false
	}
	fields, _ := entry.Any().(map[string]any)
	return &Service{
		ClassName:   className,
		HumanName:   entry.Get("human_name").String(),
		Team:        entry.Get("team").String(),
		OwnerUID:    entry.Get("owner_uid").String(),
		Description: entry.Get("description").String(),
		Fields:      fields,
	}, true
}

// Services returns the service descriptors declared by a node, ordered by
// human name.
func (n *Node) Services() []*Service {
	var out []*Service
	for _, entry := range n.Fact("profile_metadata", "services").List() {
		if svc, ok := NewService(entry); ok {
			out = append(out, svc)
		}
	}
	slices.SortStableFunc(out, func(a, b *Service) int {
		return cmp.Compare(a.HumanName, b.HumanName)
	})
	return out
}

// SortedServices scans every node's profile_metadata.services fact. The
// first descriptor seen for a class wins and every declaring node is
// appended to it. The result is ordered by human name.
func (s *Store) SortedServices() []*Service {
	byClass := make(map[string]*Service)
	var order []*Service

	for _, node := range s.order {
		for _, entry := range node.Fact("profile_metadata", "services").List() {
			svc, ok := NewService(entry)
			if !ok {
				continue
			}
			existing, seen := byClass[svc.ClassName]
			if !seen {
				existing = svc
				byClass[svc.ClassName] = svc
				order = append(order, svc)
			}
			existing.Nodes = append(existing.Nodes, node)
		}
	}

	slices.SortStableFunc(order, func(a, b *Service) int {
		return cmp.Compare(a.HumanName, b.HumanName)
	})
	return order
}

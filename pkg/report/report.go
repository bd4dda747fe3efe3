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

package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/infinitory/pkg/errorparser"
	"github.com/NVIDIA/infinitory/pkg/header"
	"github.com/NVIDIA/infinitory/pkg/inventory"
)

// SortSection and SortKey address the attribute nodes are ordered by.
const (
	SortSection = inventory.SectionFacts
	SortKey     = "fqdn"
)

// Fielder is a record whose columns are addressable by key.
type Fielder interface {
	Field(key string) any
}

// Envelope nests a record under the "other" section so that error rows are
// addressed the same way as node attributes.
type Envelope[T Fielder] struct {
	Other T `json:"other" yaml:"other"`
}

// Lookup implements inventory.Addressable.
func (e Envelope[T]) Lookup(section, key string) inventory.Value {
	if section != inventory.SectionOther {
		return inventory.Null
	}
	return inventory.ValueOf(e.Other.Field(key))
}

// Wrap envelopes every record.
func Wrap[T Fielder](records []T) []Envelope[T] {
	out := make([]Envelope[T], len(records))
	for i, r := range records {
		out[i] = Envelope[T]{Other: r}
	}
	return out
}

// Report is the finished, read-only view handed to report sinks.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	GeneratedAt  time.Time                           `json:"generatedAt" yaml:"generatedAt"`
	Nodes        []*inventory.Node                   `json:"nodes" yaml:"nodes"`
	Roles        []inventory.RoleEntry               `json:"roles" yaml:"roles"`
	Services     []*inventory.Service                `json:"services" yaml:"services"`
	UniqueErrors []Envelope[errorparser.UniqueError] `json:"uniqueErrors" yaml:"uniqueErrors"`
	AllErrors    []Envelope[errorparser.ErrorRecord] `json:"allErrors" yaml:"allErrors"`
}

// Summary counts the rows of each view.
type Summary struct {
	Nodes        int `json:"nodes" yaml:"nodes"`
	Roles        int `json:"roles" yaml:"roles"`
	Services     int `json:"services" yaml:"services"`
	UniqueErrors int `json:"uniqueErrors" yaml:"uniqueErrors"`
	AllErrors    int `json:"allErrors" yaml:"allErrors"`
}

// Summary returns the row counts of r.
func (r *Report) Summary() Summary {
	return Summary{
		Nodes:        len(r.Nodes),
		Roles:        len(r.Roles),
		Services:     len(r.Services),
		UniqueErrors: len(r.UniqueErrors),
		AllErrors:    len(r.AllErrors),
	}
}

// RunID returns the identifier of the run that produced r.
func (r *Report) RunID() string {
	return r.Get(header.MetadataRunID)
}

type config struct {
	now     func() time.Time
	version string
	runID   string
	source  string
}

// Option configures Assemble.
type Option func(*config)

// WithClock sets the clock used for the generation time.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithVersion records the generating version in the header.
func WithVersion(v string) Option {
	return func(c *config) {
		c.version = v
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(c *config) {
		c.runID = id
	}
}

// WithSource records the PuppetDB endpoint in the header.
func WithSource(s string) Option {
	return func(c *config) {
		c.source = s
	}
}

// Assemble builds the report views from a populated store and parser. It
// performs no I/O and does not modify its inputs. A nil parser yields empty
// error views.
func Assemble(store *inventory.Store, parser *errorparser.Parser, opts ...Option) *Report {
	cfg := &config{now: time.Now}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	generated := cfg.now().UTC()
	r := &Report{
		Header: *header.New(
			header.WithKind(header.KindInventoryReport),
			header.WithTimestamp(generated),
			header.WithVersion(cfg.version),
			header.WithMetadata(header.MetadataRunID, cfg.runID),
			header.WithMetadata(header.MetadataSource, cfg.source),
		),
		GeneratedAt:  generated,
		Nodes:        store.SortedNodes(SortSection, SortKey),
		Roles:        store.SortedRoles(),
		Services:     store.SortedServices(),
		UniqueErrors: []Envelope[errorparser.UniqueError]{},
		AllErrors:    []Envelope[errorparser.ErrorRecord]{},
	}
	if parser != nil {
		r.UniqueErrors = Wrap(parser.UniqueErrors())
		r.AllErrors = Wrap(parser.AllErrors())
	}
	return r
}

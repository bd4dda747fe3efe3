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

package errorparser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/NVIDIA/infinitory/pkg/cache"
	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
)

// LatestReportsQuery lists each node's most recent report hash.
const LatestReportsQuery = `["extract", ["certname", "latest_report_hash"]]`

// ReportByHashQuery returns the AST query selecting one report.
func ReportByHashQuery(hash string) string {
	b, _ := json.Marshal([]string{"=", "hash", hash})
	return string(b)
}

// Option configures a Parser.
type Option func(*Parser)

// WithDebug logs a line per node while loading reports.
func WithDebug(debug bool) Option {
	return func(p *Parser) {
		p.debug = debug
	}
}

// Parser loads the latest report of every node through the report cache and
// folds their error and warning entries into a deduplicated list. A Parser
// serves a single run and is not safe for concurrent use.
type Parser struct {
	cache   *cache.Store
	debug   bool
	reports map[string]*Report
	unique  []*UniqueError
	all     []ErrorRecord
	hits    int
	misses  int
}

// New returns a parser backed by c.
func New(c *cache.Store, opts ...Option) *Parser {
	p := &Parser{
		cache:   c,
		reports: make(map[string]*Report),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type latestReport struct {
	Certname string  `json:"certname"`
	Hash     *string `json:"latest_report_hash"`
}

// LoadReports fetches the latest report of every node. Reports found in the
// cache are decoded from disk; the rest are fetched by hash and stored.
// Nodes without a report are skipped. Query and cache errors abort.
func (p *Parser) LoadReports(ctx context.Context, src puppetdb.Source) error {
	start := time.Now()

	latest, err := puppetdb.QueryInto[latestReport](ctx, src, puppetdb.CollectionNodes, LatestReportsQuery)
	if err != nil {
		return fmt.Errorf("failed to list latest reports: %w", err)
	}

	for _, lr := range latest {
		if lr.Hash == nil || *lr.Hash == "" {
			continue
		}

		raw, err := p.fetch(ctx, src, lr.Certname, *lr.Hash)
		if err != nil {
			return err
		}
		if raw == nil {
			continue
		}

		var report Report
		if err := json.Unmarshal(raw, &report); err != nil {
			return errors.WrapWithContext(errors.ErrCodeQuery, "failed to decode report", err,
				map[string]any{"certname": lr.Certname, "hash": *lr.Hash})
		}
		p.reports[lr.Certname] = &report
	}

	slog.Info("reports loaded",
		"reports", len(p.reports),
		"cache_hits", p.hits,
		"cache_misses", p.misses,
		"duration", time.Since(start))
	return nil
}

// fetch returns the raw report for hash, or nil when PuppetDB no longer has
// it.
func (p *Parser) fetch(ctx context.Context, src puppetdb.Source, certname, hash string) (json.RawMessage, error) {
	var raw json.RawMessage
	hit, err := p.cache.Get(hash, &raw)
	if err != nil {
		return nil, err
	}
	if hit {
		p.hits++
		if p.debug {
			slog.Debug("report cache hit", "certname", certname, "hash", hash)
		}
		return raw, nil
	}

	records, err := src.Query(ctx, puppetdb.CollectionReports, ReportByHashQuery(hash))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report for %s: %w", certname, err)
	}
	if len(records) == 0 {
		slog.Warn("latest report not found", "certname", certname, "hash", hash)
		return nil, nil
	}

	raw = records[0]
	if err := p.cache.Put(hash, raw); err != nil {
		return nil, err
	}
	p.misses++
	if p.debug {
		slog.Debug("report cache miss", "certname", certname, "hash", hash)
	}
	return raw, nil
}

// CacheStats returns the cache hits and misses of LoadReports.
func (p *Parser) CacheStats() (hits, misses int) {
	return p.hits, p.misses
}

// Reports returns the number of loaded reports.
func (p *Parser) Reports() int {
	return len(p.reports)
}

// Report returns the loaded report of certname.
func (p *Parser) Report(certname string) (*Report, bool) {
	r, ok := p.reports[certname]
	return r, ok
}

// SetReport registers a report for certname without going through PuppetDB.
func (p *Parser) SetReport(certname string, r *Report) {
	p.reports[certname] = r
}

// ExtractErrors walks every loaded report in certname order and records its
// error and warning entries. It is meant to run once per parser.
func (p *Parser) ExtractErrors() {
	for _, key := range slices.Sorted(maps.Keys(p.reports)) {
		report := p.reports[key]
		certname := report.Certname
		if certname == "" {
			certname = key
		}
		slog.Debug("extracting errors", "certname", certname, "status", report.Status)

		for _, entry := range report.Logs.Data {
			if !entry.Retained() {
				continue
			}
			p.all = append(p.all, ErrorRecord{
				Level:    entry.Level,
				Hostname: certname,
				Message:  entry.Message,
			})
			p.AppendUniqueError(CleanErrorMessage(entry.Message), entry.Level, certname)
		}
	}
	slog.Info("errors extracted", "all", len(p.all), "unique", len(p.unique))
}

// AppendUniqueError folds one occurrence of message into the unique list.
// An existing entry has its count incremented, its level replaced and
// certname added; otherwise a new entry with count 1 is appended.
func (p *Parser) AppendUniqueError(message, level, certname string) {
	for _, ue := range p.unique {
		if ue.Message == message {
			ue.Count++
			ue.Level = level
			ue.Certnames.Add(certname)
			return
		}
	}
	p.unique = append(p.unique, &UniqueError{
		Count:     1,
		Level:     level,
		Message:   message,
		Certnames: NewCertnameSet(certname),
	})
}

// UniqueErrors returns a copy of the deduplicated errors in first-seen order.
func (p *Parser) UniqueErrors() []UniqueError {
	out := make([]UniqueError, len(p.unique))
	for i, ue := range p.unique {
		out[i] = *ue
		out[i].Certnames = maps.Clone(ue.Certnames)
	}
	return out
}

// AllErrors returns a copy of every retained entry in extraction order.
func (p *Parser) AllErrors() []ErrorRecord {
	return slices.Clone(p.all)
}

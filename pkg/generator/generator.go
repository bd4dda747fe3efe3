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

package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/infinitory/pkg/cache"
	"github.com/NVIDIA/infinitory/pkg/errorparser"
	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/inventory"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
	"github.com/NVIDIA/infinitory/pkg/report"
)

// Generator runs one report generation: load nodes, load and aggregate
// report errors, join resources, assemble and hand the result to Sink. The
// steps run strictly in sequence and the first failure aborts the run
// without writing anything.
type Generator struct {
	// Version is recorded in the report header.
	Version string

	// Source is the PuppetDB query source.
	Source puppetdb.Source

	// SourceName is recorded in the report header, typically the PuppetDB URL.
	SourceName string

	// Filter restricts every query. If nil, only active nodes are included.
	Filter *puppetdb.Filter

	// Cache stores fetched reports between runs.
	Cache *cache.Store

	// Sink receives the assembled report. If nil, the report is only returned.
	Sink Sink

	// Debug logs per-node cache activity.
	Debug bool

	// Clock overrides the generation timestamp.
	Clock func() time.Time
}

type step struct {
	name string
	run  func(ctx context.Context) error
}

// Generate runs the pipeline and returns the report handed to the sink.
func (g *Generator) Generate(ctx context.Context) (*report.Report, error) {
	if g.Source == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "query source is required")
	}
	if g.Cache == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "report cache is required")
	}

	filter := g.Filter
	if filter == nil {
		filter = puppetdb.NewFilter()
		filter.AddActive()
	}

	start := time.Now()
	defer func() {
		generateDuration.Observe(time.Since(start).Seconds())
	}()

	store := inventory.NewStore(filter)
	parser := errorparser.New(g.Cache, errorparser.WithDebug(g.Debug))

	steps := []step{
		{"nodes", func(ctx context.Context) error { return store.LoadNodes(ctx, g.Source) }},
		{"reports", func(ctx context.Context) error { return parser.LoadReports(ctx, g.Source) }},
		{"errors", func(context.Context) error { parser.ExtractErrors(); return nil }},
		{"backups", func(ctx context.Context) error { return store.LoadBackups(ctx, g.Source) }},
		{"logging", func(ctx context.Context) error { return store.LoadLogging(ctx, g.Source) }},
		{"metrics", func(ctx context.Context) error { return store.LoadMetrics(ctx, g.Source) }},
		{"monitoring", func(ctx context.Context) error { return store.LoadMonitoring(ctx, g.Source) }},
		{"roles", func(ctx context.Context) error { return store.LoadRoles(ctx, g.Source) }},
	}

	for _, s := range steps {
		if err := g.runStep(ctx, s); err != nil {
			generateTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	opts := []report.Option{
		report.WithVersion(g.Version),
		report.WithSource(g.SourceName),
	}
	if g.Clock != nil {
		opts = append(opts, report.WithClock(g.Clock))
	}
	r := report.Assemble(store, parser, opts...)

	summary := r.Summary()
	reportNodes.Set(float64(summary.Nodes))
	reportUniqueErrors.Set(float64(summary.UniqueErrors))
	slog.Info("report assembled",
		"run", r.RunID(),
		"nodes", summary.Nodes,
		"roles", summary.Roles,
		"services", summary.Services,
		"unique_errors", summary.UniqueErrors,
		"all_errors", summary.AllErrors)

	if g.Sink != nil {
		if err := g.runStep(ctx, step{"write", func(ctx context.Context) error { return g.Sink.Write(ctx, r) }}); err != nil {
			generateTotal.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	generateTotal.WithLabelValues("success").Inc()
	slog.Info("report generated", "run", r.RunID(), "duration", time.Since(start))
	return r, nil
}

func (g *Generator) runStep(ctx context.Context, s step) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, fmt.Sprintf("generation aborted before %s", s.name), err)
	}

	slog.Debug("starting step", "step", s.name)
	stepStart := time.Now()
	err := s.run(ctx)
	generateStepDuration.WithLabelValues(s.name).Observe(time.Since(stepStart).Seconds())
	if err != nil {
		slog.Error("step failed", "step", s.name, "error", err)
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}

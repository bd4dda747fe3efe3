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
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/infinitory/pkg/cache"
	"github.com/NVIDIA/infinitory/pkg/errorparser"
	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/inventory"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
	"github.com/NVIDIA/infinitory/pkg/puppetdb/puppetdbtest"
	"github.com/NVIDIA/infinitory/pkg/report"
)

func activeFilter() *puppetdb.Filter {
	f := puppetdb.NewFilter()
	f.AddActive()
	return f
}

func seededSource(t *testing.T) *puppetdbtest.Source {
	t.Helper()
	f := activeFilter()
	src := puppetdbtest.NewSource()

	src.Set(puppetdb.CollectionInventory, f.Render(puppetdb.CollectionInventory, ""),
		map[string]any{"certname": "web1.example.com", "facts": map[string]any{"fqdn": "web1.example.com"}},
		map[string]any{"certname": "db1.example.com", "facts": map[string]any{"fqdn": "db1.example.com"}},
	)
	src.Set(puppetdb.CollectionResources, f.Render(puppetdb.CollectionResources, `type = "Backup::Job"`),
		map[string]any{"certname": "db1.example.com", "type": "Backup::Job", "title": "pg",
			"parameters": map[string]any{"files": []any{"/var/lib/postgresql"}}},
	)
	src.Set(puppetdb.CollectionResources, f.Render(puppetdb.CollectionResources, inventory.ClassCondition(inventory.MetricsClass)),
		map[string]any{"certname": "db1.example.com", "type": "Class", "title": inventory.MetricsClass, "parameters": map[string]any{}},
	)

	src.Set(puppetdb.CollectionNodes, errorparser.LatestReportsQuery,
		map[string]any{"certname": "web1.example.com", "latest_report_hash": "h-web1"},
		map[string]any{"certname": "db1.example.com", "latest_report_hash": nil},
	)
	rep, err := json.Marshal(errorparser.Report{
		Hash:     "h-web1",
		Certname: "web1.example.com",
		Status:   "failed",
		Logs: errorparser.ReportLogs{Data: []errorparser.LogEntry{
			{Level: errorparser.LevelErr, Message: "disk full"},
			{Level: "notice", Message: "applied"},
		}},
	})
	require.NoError(t, err)
	src.Set(puppetdb.CollectionReports, errorparser.ReportByHashQuery("h-web1"), json.RawMessage(rep))
	return src
}

func newCache(t *testing.T) *cache.Store {
	t.Helper()
	c, err := cache.New(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestGenerate(t *testing.T) {
	src := seededSource(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var written *report.Report
	g := &Generator{
		Version:    "v1.0.0",
		Source:     src,
		SourceName: "http://puppetdb:8080",
		Cache:      newCache(t),
		Clock:      func() time.Time { return at },
		Sink: SinkFunc(func(_ context.Context, r *report.Report) error {
			written = r
			return nil
		}),
	}

	r, err := g.Generate(t.Context())
	require.NoError(t, err)
	require.Same(t, r, written)

	assert.Equal(t, at, r.GeneratedAt)
	require.Len(t, r.Nodes, 2)
	assert.Equal(t, "db1.example.com", r.Nodes[0].Certname)
	assert.Equal(t, []string{"/var/lib/postgresql"}, r.Nodes[0].Other.Backups)
	assert.True(t, r.Nodes[0].Other.Metrics)
	assert.Equal(t, []string{}, r.Nodes[1].Other.Backups)
	assert.False(t, r.Nodes[1].Other.Logging)

	require.Len(t, r.UniqueErrors, 1)
	assert.Equal(t, "disk full", r.UniqueErrors[0].Other.Message)
	require.Len(t, r.AllErrors, 1)

	var order []string
	for _, c := range src.Calls() {
		order = append(order, c.Collection)
	}
	assert.Equal(t, []string{
		puppetdb.CollectionInventory,
		puppetdb.CollectionNodes,
		puppetdb.CollectionReports,
		puppetdb.CollectionResources, // backups
		puppetdb.CollectionResources, // logging
		puppetdb.CollectionResources, // metrics
		puppetdb.CollectionResources, // monitoring
		puppetdb.CollectionResources, // icinga
		puppetdb.CollectionResources, // roles
	}, order)
}

func TestGenerateSecondRunHitsCache(t *testing.T) {
	src := seededSource(t)
	c := newCache(t)

	for range 2 {
		g := &Generator{Source: src, Cache: c}
		_, err := g.Generate(t.Context())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.CallCount(puppetdb.CollectionReports))
}

func TestGenerateAbortsOnSourceError(t *testing.T) {
	src := seededSource(t)
	f := activeFilter()
	src.SetError(puppetdb.CollectionResources,
		f.Render(puppetdb.CollectionResources, inventory.ClassCondition(inventory.LoggingClass)),
		errors.New(errors.ErrCodeConnection, "connection reset"))

	sinkCalled := false
	g := &Generator{
		Source: src,
		Cache:  newCache(t),
		Sink: SinkFunc(func(context.Context, *report.Report) error {
			sinkCalled = true
			return nil
		}),
	}

	r, err := g.Generate(t.Context())
	require.Error(t, err)
	assert.Nil(t, r)
	assert.False(t, sinkCalled)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConnection))
	assert.Contains(t, err.Error(), "logging")
}

func TestGenerateSinkError(t *testing.T) {
	g := &Generator{
		Source: seededSource(t),
		Cache:  newCache(t),
		Sink: SinkFunc(func(context.Context, *report.Report) error {
			return stderrors.New("disk full")
		}),
	}

	_, err := g.Generate(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
}

func TestGenerateValidation(t *testing.T) {
	_, err := (&Generator{Cache: newCache(t)}).Generate(t.Context())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	_, err = (&Generator{Source: puppetdbtest.NewSource()}).Generate(t.Context())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	src := seededSource(t)
	_, err := (&Generator{Source: src, Cache: newCache(t)}).Generate(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout))
	assert.Empty(t, src.Calls())
}

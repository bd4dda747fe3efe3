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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/infinitory/pkg/errorparser"
	"github.com/NVIDIA/infinitory/pkg/header"
	"github.com/NVIDIA/infinitory/pkg/inventory"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
	"github.com/NVIDIA/infinitory/pkg/puppetdb/puppetdbtest"
)

func loadedStore(t *testing.T) *inventory.Store {
	t.Helper()
	store := inventory.NewStore(nil)
	src := puppetdbtest.NewSource()
	src.Set(puppetdb.CollectionInventory, "inventory {}",
		map[string]any{"certname": "web2", "facts": map[string]any{"fqdn": "web2.example.com"}},
		map[string]any{"certname": "db1", "facts": map[string]any{"fqdn": "db1.example.com"}},
		map[string]any{"certname": "web1", "facts": map[string]any{"fqdn": "web1.example.com"}},
	)
	require.NoError(t, store.LoadNodes(t.Context(), src))
	return store
}

func TestAssemble(t *testing.T) {
	store := loadedStore(t)

	parser := errorparser.New(nil)
	parser.SetReport("web1", &errorparser.Report{Certname: "web1", Logs: errorparser.ReportLogs{
		Data: []errorparser.LogEntry{{Level: errorparser.LevelErr, Message: "disk full"}},
	}})
	parser.SetReport("web2", &errorparser.Report{Certname: "web2", Logs: errorparser.ReportLogs{
		Data: []errorparser.LogEntry{{Level: errorparser.LevelErr, Message: "disk full"}},
	}})
	parser.ExtractErrors()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := Assemble(store, parser,
		WithClock(func() time.Time { return at }),
		WithVersion("v1.0.0"),
		WithRunID("run-1"),
		WithSource("http://puppetdb:8080"),
	)

	assert.Equal(t, header.KindInventoryReport, r.Kind)
	assert.Equal(t, at, r.GeneratedAt)
	assert.Equal(t, "run-1", r.RunID())
	assert.Equal(t, "v1.0.0", r.Get(header.MetadataVersion))
	assert.Equal(t, "http://puppetdb:8080", r.Get(header.MetadataSource))

	var order []string
	for _, n := range r.Nodes {
		order = append(order, n.Certname)
	}
	assert.Equal(t, []string{"db1", "web1", "web2"}, order)

	require.Len(t, r.UniqueErrors, 1)
	assert.Equal(t, 2, r.UniqueErrors[0].Other.Count)
	assert.Equal(t, "2", r.UniqueErrors[0].Lookup(inventory.SectionOther, "count").String())
	assert.Equal(t, []string{"web1", "web2"}, r.UniqueErrors[0].Lookup(inventory.SectionOther, "certnames").Strings())
	assert.True(t, r.UniqueErrors[0].Lookup(inventory.SectionFacts, "count").IsNull())

	require.Len(t, r.AllErrors, 2)
	assert.Equal(t, "web1", r.AllErrors[0].Lookup(inventory.SectionOther, "hostname").String())

	assert.Equal(t, Summary{Nodes: 3, UniqueErrors: 1, AllErrors: 2}, r.Summary())
}

func TestAssembleDoesNotMutateInputs(t *testing.T) {
	store := loadedStore(t)
	before := store.Nodes()

	parser := errorparser.New(nil)
	parser.AppendUniqueError("m", errorparser.LevelErr, "web1")

	r := Assemble(store, parser)
	r.UniqueErrors[0].Other.Certnames.Add("intruder")
	r.Nodes[0], r.Nodes[1] = r.Nodes[1], r.Nodes[0]

	assert.Equal(t, before, store.Nodes())
	assert.False(t, parser.UniqueErrors()[0].Certnames.Has("intruder"))
}

func TestAssembleWithoutParser(t *testing.T) {
	r := Assemble(loadedStore(t), nil)

	assert.NotNil(t, r.UniqueErrors)
	assert.NotNil(t, r.AllErrors)
	assert.NotEmpty(t, r.RunID())

	other := Assemble(loadedStore(t), nil)
	assert.NotEqual(t, r.RunID(), other.RunID())
}

func TestReportJSONEnvelope(t *testing.T) {
	parser := errorparser.New(nil)
	parser.AppendUniqueError("disk full", errorparser.LevelErr, "a")

	r := Assemble(loadedStore(t), parser, WithRunID("r"))
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded struct {
		Kind         string `json:"kind"`
		UniqueErrors []struct {
			Other map[string]any `json:"other"`
		} `json:"uniqueErrors"`
		Nodes []map[string]any `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "InventoryReport", decoded.Kind)
	require.Len(t, decoded.UniqueErrors, 1)
	assert.Equal(t, "disk full", decoded.UniqueErrors[0].Other["message"])
	assert.Len(t, decoded.Nodes, 3)
}

func TestWrap(t *testing.T) {
	records := []errorparser.ErrorRecord{{Level: "err", Hostname: "a", Message: "m"}}
	wrapped := Wrap(records)
	require.Len(t, wrapped, 1)
	assert.Equal(t, records[0], wrapped[0].Other)

	var _ inventory.Addressable = wrapped[0]
}

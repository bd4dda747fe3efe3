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

// Package puppetdb queries a PuppetDB instance for inventory, resource and
// report records.
//
// Queries are built with Filter, which ANDs a fixed set of PQL fragments into
// every query:
//
//	f := puppetdb.NewFilter(`facts.kernel = "Linux"`)
//	f.AddActive()
//	q := f.Render(puppetdb.CollectionResources, `type = "Backup::Job"`)
//	// resources { (facts.kernel = "Linux") and (nodes { ... }) and (type = "Backup::Job") }
//
// Queries are executed through the Source interface. Client implements it
// over the PuppetDB v4 HTTP API; puppetdbtest provides an in-memory fake.
//
//	c, err := puppetdb.NewClient("puppetdb.example.com",
//	    puppetdb.WithTimeout(defaults.QueryTimeout))
//	records, err := c.Query(ctx, puppetdb.CollectionInventory, q)
//
// Client errors carry pkg/errors codes: CONNECTION when the server cannot be
// reached, TIMEOUT when the context or per-query timeout expires, QUERY when
// PuppetDB rejects the query or returns an undecodable body, and
// SERVICE_UNAVAILABLE for 5xx responses.
package puppetdb

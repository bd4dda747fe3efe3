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

// Package inventory holds the node-keyed record table built from PuppetDB.
//
// A Store moves through three states in a single run:
//
//   - Empty: constructed with NewStore
//   - NodesLoaded: LoadNodes has fetched the inventory collection
//   - Enriched: join steps have written derived attributes into Node.Other
//
// Join steps (LoadBackups, LoadLogging, LoadMetrics, LoadMonitoring,
// LoadRoles) query resources and match them to loaded nodes by certname.
// Resources for nodes that are not loaded, for example deactivated nodes
// excluded by the filter, are skipped. Each join writes only its own keys of
// Other, so their relative order does not change the result.
//
// Every record exposed to the rendering layer implements Addressable and
// returns a type-tagged Value, so columns can be addressed as
// (section, key) without reflection:
//
//	store := inventory.NewStore(filter)
//	if err := store.LoadNodes(ctx, src); err != nil {
//	    return err
//	}
//	if err := store.LoadBackups(ctx, src); err != nil {
//	    return err
//	}
//	for _, n := range store.SortedNodes(inventory.SectionFacts, "fqdn") {
//	    fmt.Println(n.Certname, n.Lookup(inventory.SectionOther, inventory.KeyBackups))
//	}
package inventory

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

// Package report assembles the ordered views rendered by the report sinks.
//
// Assemble reads a populated inventory.Store and errorparser.Parser and
// returns a Report holding:
//
//   - nodes ordered by facts.fqdn (stable, load order breaks ties)
//   - the role index ordered by role name
//   - the service registry ordered by human name
//   - unique and all errors, each wrapped as {"other": record}
//
// The envelope lets a column such as ("other", "count") address an error row
// the same way ("other", "roles") addresses a node.
package report

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

// Package render writes a finished report as a static site.
//
// The output directory holds HTML pages for nodes, roles, services and
// errors, a nodes.csv export with every column, and nodes/index.json with
// the full node list. Tables are described by Cell values, a closed set of
// formatters that each render an HTML and a CSV form of a record attribute.
//
// Renderer implements generator.Sink:
//
//	r, err := render.New("output")
//	if err != nil {
//	    return err
//	}
//	gen := &generator.Generator{Source: client, Cache: store, Sink: r}
//
// The output directory is removed before each write.
package render

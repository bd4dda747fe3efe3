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

// Package generator drives a complete inventory report run.
//
// The run is strictly sequential:
//
//	nodes → reports → errors → backups → logging → metrics → monitoring → roles → assemble → write
//
// Each step must finish before the next begins and the first error aborts
// the run, so a sink never sees a partial report.
//
//	g := &generator.Generator{
//	    Version: version,
//	    Source:  client,
//	    Cache:   reportCache,
//	    Sink:    generator.MultiSink{renderer, exporter},
//	}
//	r, err := g.Generate(ctx)
package generator

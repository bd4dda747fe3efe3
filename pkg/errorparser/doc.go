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

// Package errorparser collects error and warning log entries from the
// latest Puppet report of every node and deduplicates them.
//
// Reports are expensive to fetch, so LoadReports goes through a
// cache.Store keyed by report hash:
//
//	c, err := cache.New(root)
//	p := errorparser.New(c, errorparser.WithDebug(debug))
//	if err := p.LoadReports(ctx, src); err != nil {
//	    return err
//	}
//	p.ExtractErrors()
//	for _, ue := range p.UniqueErrors() {
//	    fmt.Println(ue.Count, ue.Level, ue.Message)
//	}
//
// Messages starting with one of CommonErrorPrefixes are reduced to that
// prefix before deduplication. The level of a unique error is the level of
// its most recent occurrence.
package errorparser

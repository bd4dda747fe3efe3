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

// Package cache stores PuppetDB report payloads on disk keyed by report hash.
//
// The cache root is always passed in explicitly; DefaultRoot offers a
// per-user location. Entries older than the max age (one hour by default)
// are removed synchronously by New. There is no background eviction.
//
//	c, err := cache.New(root)
//	var report errorparser.Report
//	hit, err := c.Get(hash, &report)
//	if !hit {
//	    // fetch, then
//	    err = c.Put(hash, report)
//	}
//
// Several processes may share a root. Writes go through a temporary file and
// a rename, so a reader sees either the old entry, the new one or none. Two
// runs fetching the same hash store identical content and the last rename
// wins.
package cache

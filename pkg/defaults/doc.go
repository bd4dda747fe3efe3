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

// Package defaults provides centralized configuration constants for infinitory.
//
// Timeouts are organized by component:
//
//   - Query source timeouts: PuppetDB requests and whole report runs
//   - Report cache: eviction age and default directory name
//   - Render: page rendering concurrency and list truncation
//   - Server timeouts: for the report file server
//   - HTTP client timeouts: for outbound PuppetDB connections
//
// Usage:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.GenerateTimeout)
//	defer cancel()
package defaults

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

// Package api wires a rendered infinitory report into the HTTP server.
//
// # Usage
//
//	if err := api.Serve(ctx, api.Options{Dir: "output"}); err != nil {
//	    log.Fatalf("server error: %v", err)
//	}
//
// # Endpoints
//
// Report files (with rate limiting):
//   - GET /            - report home page (index.html)
//   - GET /nodes/...   - node table, node pages, index.json
//   - GET /nodes.csv   - full node export
//
// System endpoints (no rate limiting):
//   - GET /health  - liveness probe
//   - GET /ready   - readiness; fails until index.html exists
//   - GET /metrics - Prometheus metrics
//
// All report responses carry Cache-Control: no-cache.
//
// # Configuration
//
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: logging level (debug, info, warn, error)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/infinitory/pkg/api.version=1.0.0'"
package api

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

// Package server provides the HTTP server that hosts a generated
// infinitory report.
//
// # Architecture
//
// The server wraps net/http with the pieces every deployment needs:
//
//   - Rate limiting using a token bucket (golang.org/x/time/rate)
//   - Request ID tracking through the X-Request-Id header
//   - Panic recovery that answers with a JSON error body
//   - Graceful shutdown on SIGINT and SIGTERM
//   - Health and readiness probes for Kubernetes
//   - Prometheus metrics at /metrics
//
// Application handlers are mounted with WithHandler and always run behind
// the middleware chain. System endpoints bypass it.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("infinitoryd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.Handler{"/": files}),
//	    server.WithReadyCheck(check),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig reads two environment variables:
//
//   - PORT: listen port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown budget (default 30)
//
// # Errors
//
// Errors are returned as ErrorResponse JSON documents carrying a code, a
// message, the request id and whether the request may be retried.
package server

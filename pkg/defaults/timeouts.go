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

package defaults

import "time"

// Query source timeouts for PuppetDB operations.
const (
	// QueryTimeout bounds a single PuppetDB query. Inventory and resource
	// queries against large fleets routinely take tens of seconds.
	QueryTimeout = 2 * time.Minute

	// GenerateTimeout bounds a complete report run.
	GenerateTimeout = 30 * time.Minute

	// QueryRateLimit is the default number of PuppetDB requests per second.
	// Report lookups on cache misses issue one request per node.
	QueryRateLimit = 20

	// QueryRateBurst is the default burst for the PuppetDB rate limiter.
	QueryRateBurst = 40
)

// Report cache settings.
const (
	// ReportCacheMaxAge is the age after which cached report payloads are
	// evicted when the cache is opened.
	ReportCacheMaxAge = 1 * time.Hour

	// ReportCacheDirName is the directory name used under the user cache dir
	// when no explicit cache root is configured.
	ReportCacheDirName = "infinitory"
)

// Render settings.
const (
	// RenderConcurrency is the maximum number of pages rendered in parallel.
	RenderConcurrency = 8

	// TruncatedListLength is the number of items shown by truncated list cells.
	TruncatedListLength = 5
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Kubernetes and registry timeouts for publishing.
const (
	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second

	// PublishTimeout is the timeout for pushing a report to an OCI registry.
	PublishTimeout = 5 * time.Minute
)

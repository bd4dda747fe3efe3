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

// Package logging provides structured logging utilities for infinitory components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so the CLI, the report generator and the file server all log the same way.
// It supports environment-based log level configuration, module/version
// context injection, and source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: cache hits/misses, per-query timings, with source location
//   - INFO: run progress (default)
//   - WARN/WARNING: degraded but recoverable conditions
//   - ERROR: failures that abort a run
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("infinitory", version)
//	    slog.Info("loading nodes", "host", host)
//	}
//
// Setting an explicit level (the --log-level flag):
//
//	logging.SetDefaultStructuredLoggerWithLevel("infinitory", version, "debug")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given:
//
//	LOG_LEVEL=debug infinitory generate -o report
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "nodes loaded",
//	    "module": "infinitory",
//	    "version": "v1.0.0",
//	    "count": 412
//	}
package logging

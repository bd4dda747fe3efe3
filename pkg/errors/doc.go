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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// A report run distinguishes three fatal failure kinds: the query source is
// unreachable (ErrCodeConnection), a query was rejected (ErrCodeQuery), or a
// cached report payload could not be decoded (ErrCodeCacheCorruption).
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeConnection,
//	    "failed to query PuppetDB",
//	    cause,
//	    map[string]any{
//	        "collection": "inventory",
//	        "url":        baseURL,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeQuery) {
//	    // malformed query
//	}
package errors

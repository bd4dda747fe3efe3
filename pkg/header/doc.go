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

// Package header provides the common document header for infinitory output.
//
// Every document written by the report sinks (the report JSON, the node
// list, ConfigMap exports) starts with a Header:
//
//	h := header.New(
//	    header.WithKind(header.KindInventoryReport),
//	    header.WithTimestamp(time.Now()),
//	    header.WithVersion(version),
//	    header.WithMetadata(header.MetadataRunID, runID),
//	)
//
// Serialized form:
//
//	{
//	  "kind": "InventoryReport",
//	  "apiVersion": "infinitory.nvidia.com/v1alpha1",
//	  "metadata": {
//	    "timestamp": "2025-06-01T12:00:00Z",
//	    "version": "v1.0.0",
//	    "run": "5c1c4b7e-..."
//	  }
//	}
package header

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

// Package oci publishes rendered reports to OCI registries with ORAS.
//
// A report directory is pushed as a single gzip layer inside an OCI 1.1
// artifact manifest of type application/vnd.infinitory.report:
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/inventory:latest")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, oci.PushOptions{SourceDir: "report", Reference: ref})
//
// Publisher wraps Push as a generator.Sink so a run can render and publish
// in one pass. Untagged references are tagged with the generation time.
//
// Credentials come from the Docker configuration (~/.docker/config.json)
// and its credential helpers.
package oci

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

// Package serializer encodes and decodes infinitory documents.
//
// Documents are written as JSON, YAML or a flattened FIELD/VALUE table:
//
//	w := serializer.NewWriter(serializer.FormatJSON, os.Stdout)
//	if err := w.Serialize(ctx, rep.Summary()); err != nil {
//	    return err
//	}
//
// NewExportWriter picks a destination from a target. A local path is replaced
// atomically through a temporary file. A cm://namespace/name
// path applies a ConfigMap with server-side apply, storing the document
// under report.<ext> together with its format and timestamp.
//
// FromFile reads a JSON or YAML document back, from a local file or from a
// ConfigMap written by ConfigMapWriter. The CLI uses it to load its
// configuration file.
//
// RespondJSON is the JSON response helper shared by HTTP handlers.
package serializer

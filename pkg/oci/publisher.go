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

package oci

import (
	"context"
	"log/slog"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/header"
	"github.com/NVIDIA/infinitory/pkg/report"
)

// AnnotationRunID records the run that produced a published report.
const AnnotationRunID = "com.nvidia.infinitory.run"

// Publisher pushes a rendered report directory after it has been written.
// It implements generator.Sink and must follow the renderer in a MultiSink.
type Publisher struct {
	// Dir is the rendered report directory.
	Dir string
	// Reference is the destination. An empty tag defaults to the report's
	// generation time.
	Reference   *Reference
	PlainHTTP   bool
	InsecureTLS bool

	// target replaces the remote repository in tests.
	target oras.Target
}

// TagLayout formats the default tag from the generation time.
const TagLayout = "20060102T150405Z"

// Write implements generator.Sink.
func (p *Publisher) Write(ctx context.Context, rep *report.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.PublishTimeout)
	defer cancel()

	ref := p.Reference
	if ref != nil && ref.Tag == "" {
		ref = ref.WithTag(rep.GeneratedAt.UTC().Format(TagLayout))
	}

	opts := PushOptions{
		SourceDir:   p.Dir,
		Reference:   ref,
		PlainHTTP:   p.PlainHTTP,
		InsecureTLS: p.InsecureTLS,
		Annotations: Annotations(rep),
	}

	var (
		res *PushResult
		err error
	)
	if p.target != nil {
		res, err = pushTo(ctx, opts, p.target)
	} else {
		res, err = Push(ctx, opts)
	}
	if err != nil {
		return err
	}

	slog.Info("report published",
		"reference", res.Reference,
		"digest", res.Digest)
	return nil
}

// Annotations returns the manifest annotations for rep.
func Annotations(rep *report.Report) map[string]string {
	a := map[string]string{
		ociv1.AnnotationCreated: rep.GeneratedAt.UTC().Format(time.RFC3339),
		ociv1.AnnotationTitle:   "Infinitory inventory report",
		ociv1.AnnotationVendor:  "NVIDIA",
	}
	if v := rep.Get(header.MetadataVersion); v != "" {
		a[ociv1.AnnotationVersion] = v
	}
	if id := rep.RunID(); id != "" {
		a[AnnotationRunID] = id
	}
	return a
}

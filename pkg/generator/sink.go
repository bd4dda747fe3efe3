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

package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/report"
	"github.com/NVIDIA/infinitory/pkg/serializer"
)

// Sink receives a finished report.
type Sink interface {
	Write(ctx context.Context, r *report.Report) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, r *report.Report) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, r *report.Report) error {
	return f(ctx, r)
}

// MultiSink writes the report to every sink in order and stops at the first
// failure.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, r *report.Report) error {
	for i, s := range m {
		if s == nil {
			continue
		}
		if err := s.Write(ctx, r); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}

// ExportSink hands the report, or a projection of it, to a serializer.
type ExportSink struct {
	// Serializer receives the document. It is closed after the write when
	// it implements serializer.Closer.
	Serializer serializer.Serializer

	// Select picks the exported document. If nil, the whole report is
	// exported.
	Select func(r *report.Report) any
}

// NewExportSink returns a sink writing the whole report to s.
func NewExportSink(s serializer.Serializer) *ExportSink {
	return &ExportSink{Serializer: s}
}

// Write implements Sink.
func (e *ExportSink) Write(ctx context.Context, r *report.Report) (err error) {
	if e.Serializer == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "export serializer is required")
	}
	if c, ok := e.Serializer.(serializer.Closer); ok {
		defer func() {
			if cerr := c.Close(); cerr != nil && err == nil {
				err = errors.Wrap(errors.ErrCodeInternal, "failed to close export", cerr)
			}
		}()
	}

	var doc any = r
	if e.Select != nil {
		doc = e.Select(r)
	}

	if err := e.Serializer.Serialize(ctx, doc); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	slog.Debug("report exported", "run", r.RunID())
	return nil
}

// SummaryOf selects the report summary for export.
func SummaryOf(r *report.Report) any {
	return r.Summary()
}

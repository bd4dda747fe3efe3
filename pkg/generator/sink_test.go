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
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/inventory"
	"github.com/NVIDIA/infinitory/pkg/report"
	"github.com/NVIDIA/infinitory/pkg/serializer"
)

func TestMultiSink(t *testing.T) {
	var calls []string
	sink := func(name string, err error) Sink {
		return SinkFunc(func(context.Context, *report.Report) error {
			calls = append(calls, name)
			return err
		})
	}

	m := MultiSink{sink("a", nil), nil, sink("b", stderrors.New("boom")), sink("c", nil)}
	err := m.Write(t.Context(), &report.Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink 2")
	assert.Equal(t, []string{"a", "b"}, calls)
}

type closingSerializer struct {
	docs     []any
	closed   int
	closeErr error
}

func (c *closingSerializer) Serialize(_ context.Context, doc any) error {
	c.docs = append(c.docs, doc)
	return nil
}

func (c *closingSerializer) Close() error {
	c.closed++
	return c.closeErr
}

func TestExportSinkReport(t *testing.T) {
	var buf bytes.Buffer
	rep := &report.Report{Nodes: []*inventory.Node{{Certname: "web1.example.com"}}}

	require.NoError(t, NewExportSink(serializer.NewWriter(serializer.FormatJSON, &buf)).Write(t.Context(), rep))

	var got struct {
		Nodes []struct {
			Certname string `json:"certname"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "web1.example.com", got.Nodes[0].Certname)
}

func TestExportSinkSummary(t *testing.T) {
	s := &closingSerializer{}
	rep := &report.Report{Nodes: []*inventory.Node{{Certname: "a"}, {Certname: "b"}}}

	sink := &ExportSink{Serializer: s, Select: SummaryOf}
	require.NoError(t, sink.Write(t.Context(), rep))

	require.Len(t, s.docs, 1)
	assert.Equal(t, report.Summary{Nodes: 2}, s.docs[0])
	assert.Equal(t, 1, s.closed)
}

func TestExportSinkErrors(t *testing.T) {
	err := (&ExportSink{}).Write(t.Context(), &report.Report{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	s := &closingSerializer{closeErr: stderrors.New("flush failed")}
	err = NewExportSink(s).Write(t.Context(), &report.Report{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

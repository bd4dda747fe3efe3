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

package puppetdb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/infinitory/pkg/errors"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Agent  string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var seen []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{Method: r.Method, Path: r.URL.Path, Agent: r.UserAgent()}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			var payload map[string]string
			if json.Unmarshal(raw, &payload) == nil {
				req.Query = payload["query"]
			}
		}
		seen = append(seen, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithRateLimit(0, 0)}, opts...)
	c, err := NewClient(url, opts...)
	require.NoError(t, err)
	return c
}

func TestClientQueryPQL(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `[{"certname":"a"},{"certname":"b"}]`)
	c := newTestClient(t, srv.URL)

	q := NewFilter().Render(CollectionInventory, "")
	records, err := c.Query(t.Context(), CollectionInventory, q)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"certname":"a"}`, string(records[0]))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/pdb/query/v4", got.Path)
	assert.Equal(t, "inventory {}", got.Query)
	assert.Equal(t, DefaultUserAgent, got.Agent)
}

func TestClientQueryAST(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `[]`)
	c := newTestClient(t, srv.URL, WithUserAgent("test-agent"))

	records, err := c.Query(t.Context(), CollectionReports, `["=", "hash", "abc"]`)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	require.Len(t, *seen, 1)
	assert.Equal(t, "/pdb/query/v4/reports", (*seen)[0].Path)
	assert.Equal(t, "test-agent", (*seen)[0].Agent)
}

func TestClientQueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{"bad query", http.StatusBadRequest, "PQL parse error", errors.ErrCodeQuery},
		{"server error", http.StatusInternalServerError, "boom", errors.ErrCodeUnavailable},
		{"service unavailable", http.StatusServiceUnavailable, "", errors.ErrCodeUnavailable},
		{"undecodable body", http.StatusOK, "not json", errors.ErrCodeQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			c := newTestClient(t, srv.URL)

			_, err := c.Query(t.Context(), CollectionInventory, "inventory {}")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Query(t.Context(), CollectionInventory, "inventory {}")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConnection), "got %v", err)
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := newTestClient(t, srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Query(context.Background(), CollectionInventory, "inventory {}")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConnection), "got %v", err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestClientSlowResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Query(t.Context(), CollectionInventory, "inventory {}")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConnection), "got %v", err)
	assert.False(t, errors.IsCode(err, errors.ErrCodeTimeout))
}

func TestClientCallerCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	c := newTestClient(t, srv.URL, WithTimeout(time.Minute))
	_, err := c.Query(ctx, CollectionInventory, "inventory {}")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTimeout), "got %v", err)
}

func TestClientCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		code    errors.ErrorCode
	}{
		{"current", `{"version":"7.13.0"}`, false, ""},
		{"minimum", `{"version":"5.0.0"}`, false, ""},
		{"too old", `{"version":"4.4.1"}`, true, errors.ErrCodeUnavailable},
		{"garbage", `{"version":"unknown"}`, true, errors.ErrCodeQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newTestServer(t, http.StatusOK, tt.body)
			c := newTestClient(t, srv.URL)

			err := c.CheckVersion(t.Context())
			require.Len(t, *seen, 1)
			assert.Equal(t, http.MethodGet, (*seen)[0].Method)
			assert.Equal(t, "/pdb/meta/v1/version", (*seen)[0].Path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestNewClientBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "puppetdb", want: "http://puppetdb:8080"},
		{in: "puppetdb.example.com:8081", want: "http://puppetdb.example.com:8081"},
		{in: "https://puppetdb.example.com/", want: "https://puppetdb.example.com"},
		{in: "http://puppetdb:8080/prefix", want: "http://puppetdb:8080/prefix"},
		{in: "", wantErr: true},
		{in: "ftp://puppetdb", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := NewClient(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestNewTLSConfigValidation(t *testing.T) {
	_, err := NewTLSConfig("cert.pem", "", "")
	require.Error(t, err)

	_, err = NewTLSConfig("", "", "/nonexistent/ca.pem")
	require.Error(t, err)

	cfg, err := NewTLSConfig("", "", "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Certificates)
	assert.Nil(t, cfg.RootCAs)
}

func TestQueryInto(t *testing.T) {
	src := SourceFunc(func(_ context.Context, collection, query string) ([]json.RawMessage, error) {
		assert.Equal(t, CollectionNodes, collection)
		return []json.RawMessage{
			json.RawMessage(`{"certname":"a","latest_report_hash":"h1"}`),
			json.RawMessage(`{"certname":"b","latest_report_hash":null}`),
		}, nil
	})

	type row struct {
		Certname string  `json:"certname"`
		Hash     *string `json:"latest_report_hash"`
	}
	rows, err := QueryInto[row](t.Context(), src, CollectionNodes, "[]")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "h1", *rows[0].Hash)
	assert.Nil(t, rows[1].Hash)
}

func TestDecodeRejectsBadRecord(t *testing.T) {
	_, err := Decode[map[string]any]([]json.RawMessage{json.RawMessage(`[1,2]`)})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeQuery))
}

func TestIsAST(t *testing.T) {
	assert.True(t, IsAST(`["extract", ["certname"]]`))
	assert.True(t, IsAST("  \n[\"=\", \"hash\", \"x\"]"))
	assert.False(t, IsAST("inventory {}"))
	assert.False(t, IsAST(""))
}

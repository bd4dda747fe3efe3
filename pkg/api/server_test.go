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

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/server"
)

func writeReport(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nodes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Infinitory</h1>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.csv"), []byte("certname\nweb1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".secret"), []byte("x"), 0o600))
	return dir
}

func TestReportHandler(t *testing.T) {
	h := ReportHandler(writeReport(t))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "index", method: http.MethodGet, path: "/", wantStatus: http.StatusOK, wantBody: "Infinitory"},
		{name: "csv", method: http.MethodGet, path: "/nodes.csv", wantStatus: http.StatusOK, wantBody: "web1"},
		{name: "missing", method: http.MethodGet, path: "/nope.html", wantStatus: http.StatusNotFound},
		{name: "dotfile", method: http.MethodGet, path: "/.secret", wantStatus: http.StatusNotFound},
		{name: "post", method: http.MethodPost, path: "/", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestReportReady(t *testing.T) {
	assert.NoError(t, ReportReady(writeReport(t))())

	err := ReportReady(t.TempDir())()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
}

func TestServeValidation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	tests := []struct {
		name string
		dir  string
		code errors.ErrorCode
	}{
		{name: "empty", dir: "", code: errors.ErrCodeInvalidRequest},
		{name: "missing", dir: filepath.Join(t.TempDir(), "missing"), code: errors.ErrCodeNotFound},
		{name: "file", dir: file, code: errors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Serve(t.Context(), Options{Dir: tt.dir})
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code))
		})
	}
}

func TestServerOptionsWiring(t *testing.T) {
	dir := writeReport(t)
	s := server.New(serverOptions(Options{Dir: dir, Address: "127.0.0.1", Port: 9191}, "v1.2.3")...)

	assert.Equal(t, "127.0.0.1:9191", s.Addr())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nodes.csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
}

func TestNotify(t *testing.T) {
	var states []string
	prev := sdNotify
	t.Cleanup(func() { sdNotify = prev })
	sdNotify = func(_ bool, state string) (bool, error) {
		states = append(states, state)
		return true, nil
	}

	notify("READY=1")()
	notify("STOPPING=1")()
	assert.Equal(t, []string{"READY=1", "STOPPING=1"}, states)
}

func TestNotifyWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	sent, err := sdNotify(false, "READY=1")
	require.NoError(t, err)
	assert.False(t, sent)
}

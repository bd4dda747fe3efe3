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

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestKind(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", KindPage},
		{"", KindPage},
		{"/nodes/", KindPage},
		{"/index.html", KindPage},
		{"/nodes/web1.example.com.html", KindPage},
		{"/errors/all", KindPage},
		{"/index.csv", KindCSV},
		{"/roles.CSV", KindCSV},
		{"/report.json", KindData},
		{"/report.yaml", KindData},
		{"/static/style.css", KindStatic},
		{"/static/sort.js", KindStatic},
		{"/health", KindSystem},
		{"/ready", KindSystem},
		{"/metrics", KindSystem},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, requestKind(tt.path))
		})
	}
}

func TestMetricsMiddlewareByKind(t *testing.T) {
	s := New()
	body := "fqdn,os\nweb1,Debian\n"

	mux := http.NewServeMux()
	mux.HandleFunc("GET /files/", s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))

	requests := httpRequestsTotal.WithLabelValues(http.MethodGet, "GET /files/", KindCSV, "200")
	bytes := httpResponseBytes.WithLabelValues(KindCSV)
	beforeRequests := testutil.ToFloat64(requests)
	beforeBytes := testutil.ToFloat64(bytes)

	for _, p := range []string{"/files/index.csv", "/files/roles.csv"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(requests)-beforeRequests, 0)
	assert.InDelta(t, float64(2*len(body)), testutil.ToFloat64(bytes)-beforeBytes, 0)
}

func TestMetricsMiddlewareUnmatchedRoute(t *testing.T) {
	s := New()
	h := s.metricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, KindStatic, "404")
	before := testutil.ToFloat64(c)

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

	assert.InDelta(t, 1, testutil.ToFloat64(c)-before, 0)
}

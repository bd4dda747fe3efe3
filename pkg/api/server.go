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
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/server"
)

const (
	name           = "infinitoryd"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/infinitory/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options configures Serve.
type Options struct {
	// Dir is the rendered report directory.
	Dir string

	// Address and Port override the server defaults when set.
	Address string
	Port    int

	// Version overrides the build version in logs and the index response.
	Version string
}

// ReportHandler serves a report directory. Responses are never cached so a
// regenerated report shows up on the next request.
func ReportHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			server.WriteError(w, r, http.StatusMethodNotAllowed, server.ErrCodeMethodNotAllowed,
				"Method not allowed", false, nil)
			return
		}
		if strings.HasPrefix(filepath.Base(r.URL.Path), ".") {
			server.WriteError(w, r, http.StatusNotFound, server.ErrCodeNotFound, "Not found", false, nil)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}

// ReportReady returns a readiness check that passes once dir holds a
// rendered report.
func ReportReady(dir string) func() error {
	return func() error {
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			return errors.WrapWithContext(errors.ErrCodeUnavailable, "report not generated", err,
				map[string]any{"path": index})
		}
		return nil
	}
}

// Serve hosts the report in opts.Dir and blocks until ctx is canceled or
// the process is signaled.
func Serve(ctx context.Context, opts Options) error {
	if opts.Dir == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "report directory is required")
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeNotFound, "report directory not found", err,
			map[string]any{"dir": opts.Dir})
	}
	if !info.IsDir() {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "report path is not a directory",
			map[string]any{"dir": opts.Dir})
	}

	v := version
	if opts.Version != "" {
		v = opts.Version
	}

	slog.Info("starting",
		"name", name,
		"version", v,
		"commit", commit,
		"date", date,
		"dir", opts.Dir,
	)

	s := server.New(serverOptions(opts, v)...)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func serverOptions(opts Options, v string) []server.Option {
	cfg := server.NewConfig()
	if opts.Address != "" {
		cfg.Address = opts.Address
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}

	return []server.Option{
		server.WithConfig(cfg),
		server.WithName(name),
		server.WithVersion(v),
		server.WithHandler(map[string]http.Handler{"/": ReportHandler(opts.Dir)}),
		server.WithReadyCheck(ReportReady(opts.Dir)),
		server.WithLifecycle(notify(daemon.SdNotifyReady), notify(daemon.SdNotifyStopping)),
	}
}

// notify reports state to systemd for Type=notify units. It does nothing
// when NOTIFY_SOCKET is unset.
func notify(state string) func() {
	return func() {
		sent, err := sdNotify(false, state)
		if err != nil {
			slog.Warn("systemd notify failed", "state", state, "error", err)
			return
		}
		if sent {
			slog.Debug("systemd notified", "state", state)
		}
	}
}

var sdNotify = daemon.SdNotify

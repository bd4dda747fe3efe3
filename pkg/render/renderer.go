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

package render

import (
	"bufio"
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/inventory"
	"github.com/NVIDIA/infinitory/pkg/report"
	"github.com/NVIDIA/infinitory/pkg/serializer"
)

// GenerationTimeLayout is the format of the time shown in page footers.
const GenerationTimeLayout = "2006-01-02 15:04:05Z"

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// Renderer writes reports into a directory.
type Renderer struct {
	dir         string
	concurrency int
	tmpl        *template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithConcurrency bounds the number of node and service pages written in
// parallel. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// New returns a renderer writing into dir. The directory is removed and
// recreated on every Write, so the filesystem root and the working
// directory are refused.
func New(dir string, opts ...Option) (*Renderer, error) {
	clean := filepath.Clean(dir)
	if dir == "" || clean == "." || clean == string(filepath.Separator) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"refusing to use output directory", map[string]any{"dir": dir})
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to parse templates", err)
	}

	r := &Renderer{
		dir:         clean,
		concurrency: defaults.RenderConcurrency,
		tmpl:        tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

type factRow struct {
	Key   string
	Value string
}

type page struct {
	Title          string
	BodyID         string
	Path           string
	GenerationTime string
	Timestamp      string

	Summary  report.Summary
	Columns  []Cell
	Rows     []inventory.Addressable
	Node     *inventory.Node
	Facts    []factRow
	Roles    []inventory.RoleEntry
	Services []*inventory.Service
	Service  *inventory.Service
}

// Write implements generator.Sink.
func (r *Renderer) Write(ctx context.Context, rep *report.Report) error {
	if rep == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "report is required")
	}
	start := time.Now()
	defer func() {
		renderDuration.Observe(time.Since(start).Seconds())
	}()

	if err := r.prepare(); err != nil {
		return err
	}

	base := func(path, tmpl, title string) page {
		return page{
			Title:          title,
			BodyID:         bodyID(tmpl),
			Path:           path,
			GenerationTime: rep.GeneratedAt.UTC().Format(GenerationTimeLayout),
			Timestamp:      rep.GeneratedAt.UTC().Format(time.RFC3339),
			Summary:        rep.Summary(),
		}
	}

	nodeRows := make([]inventory.Addressable, len(rep.Nodes))
	for i, n := range rep.Nodes {
		nodeRows[i] = n
	}

	home := base("", "home.html", "Home")
	if err := r.page("index.html", "home.html", home); err != nil {
		return err
	}

	nodes := base("../", "nodes.html", "Nodes")
	nodes.Columns = NodeColumns()
	nodes.Rows = nodeRows
	if err := r.page("nodes/index.html", "nodes.html", nodes); err != nil {
		return err
	}

	roles := base("../", "roles.html", "Roles")
	roles.Roles = rep.Roles
	if err := r.page("roles/index.html", "roles.html", roles); err != nil {
		return err
	}

	services := base("../", "services.html", "Services")
	services.Services = rep.Services
	if err := r.page("services/index.html", "services.html", services); err != nil {
		return err
	}

	unique := base("../", "errors.html", "Unique errors")
	unique.Columns = UniqueErrorColumns()
	unique.Rows = addressable(rep.UniqueErrors)
	if err := r.page("errors/index.html", "errors.html", unique); err != nil {
		return err
	}

	all := base("../", "all_errors.html", "All errors")
	all.Columns = AllErrorColumns()
	all.Rows = addressable(rep.AllErrors)
	if err := r.page("errors/all.html", "all_errors.html", all); err != nil {
		return err
	}

	if err := r.writeCSV(nodeRows); err != nil {
		return err
	}
	if err := r.writeJSON(ctx, rep.Nodes); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	nodeColumns := AllColumns()[1:]
	for _, n := range rep.Nodes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeTimeout, "rendering aborted", err)
			}
			p := base("../", "node.html", n.Certname)
			p.Columns = nodeColumns
			p.Node = n
			p.Facts = factRows(n)
			return r.page(filepath.Join("nodes", PageName(n.Certname)+".html"), "node.html", p)
		})
	}
	for _, svc := range rep.Services {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeTimeout, "rendering aborted", err)
			}
			p := base("../", "service.html", svc.HumanName)
			p.Service = svc
			return r.page(filepath.Join("services", PageName(svc.ClassName)+".html"), "service.html", p)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("report written",
		"dir", r.dir,
		"nodes", len(rep.Nodes),
		"services", len(rep.Services),
		"duration", time.Since(start))
	return nil
}

// prepare empties the output directory and copies the static assets.
func (r *Renderer) prepare() error {
	if err := os.RemoveAll(r.dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to remove output directory", err)
	}
	for _, sub := range []string{"", "nodes", "roles", "services", "errors"} {
		if err := os.MkdirAll(filepath.Join(r.dir, sub), 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
		}
	}

	err := fs.WalkDir(staticFS, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(r.dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := staticFS.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to copy static assets", err)
	}
	return nil
}

func (r *Renderer) page(name, tmpl string, data page) error {
	return r.create(name, func(w io.Writer) error {
		return r.tmpl.ExecuteTemplate(w, tmpl, data)
	})
}

func (r *Renderer) writeCSV(rows []inventory.Addressable) error {
	columns := AllColumns()
	return r.create("nodes.csv", func(w io.Writer) error {
		cw := csv.NewWriter(w)
		head := make([]string, len(columns))
		for i, c := range columns {
			head[i] = c.HeadCSV()
		}
		if err := cw.Write(head); err != nil {
			return err
		}
		for _, row := range rows {
			rec := make([]string, len(columns))
			for i, c := range columns {
				rec[i] = c.BodyCSV(row)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

func (r *Renderer) writeJSON(ctx context.Context, nodes []*inventory.Node) error {
	return r.create(filepath.Join("nodes", "index.json"), func(w io.Writer) error {
		return serializer.NewWriter(serializer.FormatJSON, w).Serialize(ctx, nodes)
	})
}

// create writes one file under the output directory through a buffer.
func (r *Renderer) create(name string, fill func(io.Writer) error) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create file", err,
			map[string]any{"path": path})
	}

	bw := bufio.NewWriter(f)
	if err := fill(bw); err != nil {
		_ = f.Close()
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to render file", err,
			map[string]any{"path": path})
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to close file", err,
			map[string]any{"path": path})
	}

	renderPages.WithLabelValues(pageKind(name)).Inc()
	return nil
}

func addressable[T inventory.Addressable](records []T) []inventory.Addressable {
	out := make([]inventory.Addressable, len(records))
	for i, rec := range records {
		out[i] = rec
	}
	return out
}

func factRows(n *inventory.Node) []factRow {
	keys := slices.Sorted(maps.Keys(n.Facts))
	out := make([]factRow, len(keys))
	for i, k := range keys {
		out[i] = factRow{Key: k, Value: inventory.ValueOf(n.Facts[k]).String()}
	}
	return out
}

// bodyID derives the page body id from its template name.
func bodyID(tmpl string) string {
	return nonWord.ReplaceAllString(dotSuffix.ReplaceAllString(tmpl, ""), "_")
}

// pageKind labels a written file for metrics.
func pageKind(name string) string {
	dir := filepath.Dir(name)
	switch {
	case dir == ".":
		return name
	case filepath.Base(name) == "index.html" || filepath.Base(name) == "all.html" || filepath.Ext(name) == ".json":
		return fmt.Sprintf("%s/%s", dir, filepath.Base(name))
	default:
		return dir
	}
}

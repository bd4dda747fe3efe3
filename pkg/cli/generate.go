/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/infinitory/pkg/cache"
	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/generator"
	"github.com/NVIDIA/infinitory/pkg/k8s/client"
	"github.com/NVIDIA/infinitory/pkg/oci"
	"github.com/NVIDIA/infinitory/pkg/puppetdb"
	"github.com/NVIDIA/infinitory/pkg/render"
	"github.com/NVIDIA/infinitory/pkg/report"
	"github.com/NVIDIA/infinitory/pkg/serializer"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Generate the inventory report from PuppetDB",
		Description: `Query PuppetDB and write a static HTML report including:
  - A table of all nodes with their roles, services, owners and teams
  - One page per node with every fact
  - Role and service views
  - Unique errors from each node's latest Puppet run
  - nodes.csv and nodes/index.json exports

Fetched Puppet reports are cached by hash under --cache-dir so repeated
runs only fetch reports that changed.

# Examples

Write a report for a local PuppetDB:
  infinitory generate --output /srv/www/inventory

Query over mutual TLS and publish the result to a registry:
  infinitory generate --host https://puppetdb.example.com:8081 \
    --tls-cert client.pem --tls-key client.key --tls-ca ca.pem \
    --output report --publish oci://ghcr.io/example/inventory

Export the report data to a ConfigMap:
  infinitory generate --output report --export cm://ops/infinitory`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Aliases: []string{"H"},
				Value:   "localhost",
				Usage:   "PuppetDB host or URL to query (a bare host means http://host:8080)",
				Sources: cli.EnvVars("INFINITORY_HOST", "PUPPETDB_HOST"),
			},
			outputFlag(),
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "Directory for cached Puppet reports (default: user cache dir)",
				Sources: cli.EnvVars("INFINITORY_CACHE_DIR"),
			},
			&cli.StringSliceFlag{
				Name:  "filter",
				Usage: "PQL condition ANDed into every query, e.g. 'facts.datacenter = \"pdx\"' (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "include-inactive",
				Usage: "Include deactivated and expired nodes",
			},
			&cli.StringFlag{
				Name:    "tls-cert",
				Usage:   "Client certificate for PuppetDB",
				Sources: cli.EnvVars("INFINITORY_TLS_CERT"),
			},
			&cli.StringFlag{
				Name:    "tls-key",
				Usage:   "Client key for PuppetDB",
				Sources: cli.EnvVars("INFINITORY_TLS_KEY"),
			},
			&cli.StringFlag{
				Name:    "tls-ca",
				Usage:   "CA bundle used to verify PuppetDB",
				Sources: cli.EnvVars("INFINITORY_TLS_CA"),
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Value: defaults.QueryRateLimit,
				Usage: "Maximum PuppetDB requests per second (0 disables limiting)",
			},
			&cli.IntFlag{
				Name:  "rate-burst",
				Value: defaults.QueryRateBurst,
				Usage: "Burst size for the PuppetDB rate limiter",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.QueryTimeout,
				Usage: "Timeout for a single PuppetDB query",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: defaults.RenderConcurrency,
				Usage: "Maximum pages rendered in parallel",
			},
			&cli.BoolFlag{
				Name:  "skip-version-check",
				Usage: "Do not check the PuppetDB server version",
			},
			&cli.StringFlag{
				Name:    "publish",
				Usage:   "Push the rendered report to an OCI registry (oci://registry/repository[:tag])",
				Sources: cli.EnvVars("INFINITORY_PUBLISH"),
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for --publish",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip registry certificate verification for --publish",
			},
			&cli.StringFlag{
				Name:    "export",
				Usage:   "Write the report data to a file or ConfigMap (cm://namespace/name)",
				Sources: cli.EnvVars("INFINITORY_EXPORT"),
			},
			&cli.StringFlag{
				Name:  "export-format",
				Value: string(serializer.FormatJSON),
				Usage: "Format for --export (json, yaml)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Debug logging including per-node cache activity",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log progress at info level",
			},
			formatFlag(),
			kubeconfigFlag(),
			configFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			initLogger(cmd)

			opts, err := optionsFromCmd(cmd)
			if err != nil {
				return err
			}

			src, err := newSource(ctx, opts)
			if err != nil {
				return err
			}

			rep, err := runGenerate(ctx, src, opts)
			if err != nil {
				return err
			}

			return printSummary(ctx, cmd.Root().Writer, opts.Summary, rep)
		},
	}
}

// newSource builds the PuppetDB client and checks the server version.
func newSource(ctx context.Context, opts *generateOptions) (*puppetdb.Client, error) {
	clientOpts := []puppetdb.Option{
		puppetdb.WithRateLimit(opts.RateLimit, opts.RateBurst),
		puppetdb.WithTimeout(opts.Timeout),
		puppetdb.WithUserAgent(fmt.Sprintf("%s/%s", name, version)),
	}
	if opts.TLSCert != "" || opts.TLSKey != "" || opts.TLSCA != "" {
		tlsCfg, err := puppetdb.NewTLSConfig(opts.TLSCert, opts.TLSKey, opts.TLSCA)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, puppetdb.WithTLSConfig(tlsCfg))
	}

	c, err := puppetdb.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, err
	}

	if !opts.SkipVersionCheck {
		if err := c.CheckVersion(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// runGenerate wires the cache, the sinks and the generator for one run.
func runGenerate(ctx context.Context, src puppetdb.Source, opts *generateOptions) (*report.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.GenerateTimeout)
	defer cancel()

	root := opts.CacheDir
	if root == "" {
		var err error
		if root, err = cache.DefaultRoot(); err != nil {
			return nil, err
		}
	}
	store, err := cache.New(root)
	if err != nil {
		return nil, err
	}
	if n := store.Evicted(); n > 0 {
		slog.Info("evicted stale cache entries", "count", n, "root", root)
	}

	sink, err := buildSink(opts)
	if err != nil {
		return nil, err
	}

	filter := puppetdb.NewFilter()
	if !opts.IncludeInactive {
		filter.AddActive()
	}
	for _, f := range opts.Filters {
		filter.Add(f)
	}

	g := &generator.Generator{
		Version:    version,
		Source:     src,
		SourceName: sourceName(src, opts.Host),
		Filter:     filter,
		Cache:      store,
		Sink:       sink,
		Debug:      opts.Debug,
	}
	return g.Generate(ctx)
}

// buildSink returns the renderer followed by the optional publisher and
// exporter. The publisher reads the rendered directory so it must come
// after the renderer.
func buildSink(opts *generateOptions) (generator.MultiSink, error) {
	r, err := render.New(opts.Output, render.WithConcurrency(opts.Concurrency))
	if err != nil {
		return nil, err
	}
	sinks := generator.MultiSink{r}

	if opts.Publish != "" {
		ref, err := oci.ParseReference(opts.Publish)
		if err != nil {
			return nil, fmt.Errorf("invalid --publish reference: %w", err)
		}
		sinks = append(sinks, &oci.Publisher{
			Dir:         r.Dir(),
			Reference:   ref,
			PlainHTTP:   opts.PlainHTTP,
			InsecureTLS: opts.InsecureTLS,
		})
	}

	if opts.Export != "" {
		if opts.Kubeconfig != "" {
			client.SetKubeconfig(opts.Kubeconfig)
		}
		w, err := serializer.NewExportWriter(opts.ExportFormat, opts.Export)
		if err != nil {
			return nil, fmt.Errorf("invalid --export target: %w", err)
		}
		sinks = append(sinks, generator.NewExportSink(w))
	}

	return sinks, nil
}

func sourceName(src puppetdb.Source, host string) string {
	if c, ok := src.(*puppetdb.Client); ok {
		return c.BaseURL()
	}
	return host
}

func printSummary(ctx context.Context, w io.Writer, format serializer.Format, rep *report.Report) error {
	if format == "" || rep == nil {
		return nil
	}
	return serializer.NewWriter(format, w).Serialize(ctx, rep.Summary())
}

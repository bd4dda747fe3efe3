/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/infinitory/pkg/logging"
)

const (
	name           = "infinitory"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the CLI with os.Args and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "PuppetDB inventory reports",
		Description: fmt.Sprintf(`infinitory builds a static HTML inventory of the nodes known to PuppetDB,
with per-role and per-service views and a de-duplicated list of the errors
from each node's latest Puppet run.

Version: %s
Commit:  %s
Built:   %s`, version, commit, date),
		Flags: []cli.Flag{
			logLevelFlag(),
		},
		Commands: []*cli.Command{
			generateCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}

// initLogger configures slog once flags are parsed. An explicit --log-level
// wins; otherwise --debug selects debug, --verbose info, and the default is
// warnings only.
func initLogger(cmd *cli.Command) {
	level := resolveLogLevel(cmd)
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
}

func resolveLogLevel(cmd *cli.Command) string {
	switch {
	case cmd.IsSet(flagLogLevel):
		return cmd.String(flagLogLevel)
	case cmd.Bool("debug"):
		return "debug"
	case cmd.Bool("verbose"):
		return "info"
	default:
		return "warn"
	}
}

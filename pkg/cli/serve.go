/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/infinitory/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a generated report over HTTP",
		Description: `Serve a report directory written by 'generate' with health, readiness
and Prometheus metrics endpoints. Readiness fails until the report exists,
so the server can start before the first generation finishes.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"o", "output"},
				Usage:   "Report directory to serve",
				Value:   "report",
				Sources: cli.EnvVars("INFINITORY_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Listen address",
				Sources: cli.EnvVars("INFINITORY_ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: $PORT or 8080)",
				Sources: cli.EnvVars("INFINITORY_PORT"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "Debug logging",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log requests at info level",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			initLogger(cmd)
			return api.Serve(ctx, serveOptions(cmd))
		},
	}
}

func serveOptions(cmd *cli.Command) api.Options {
	return api.Options{
		Dir:     cmd.String("dir"),
		Address: cmd.String("address"),
		Port:    cmd.Int("port"),
		Version: version,
	}
}

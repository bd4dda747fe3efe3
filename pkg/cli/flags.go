/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/infinitory/pkg/serializer"
)

// Flags shared by several commands. urfave flags keep parse state, so each
// command gets its own instance.
const (
	flagLogLevel   = "log-level"
	flagOutput     = "output"
	flagFormat     = "format"
	flagKubeconfig = "kubeconfig"
	flagConfig     = "config"
)

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagLogLevel,
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("INFINITORY_LOG_LEVEL", "LOG_LEVEL"),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Directory to put the report in. WARNING: this directory is removed if it already exists.",
		Sources: cli.EnvVars("INFINITORY_OUTPUT"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Summary format printed after generation (supported values: %v)", serializer.SupportedFormats()),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagKubeconfig,
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file for cm:// exports (overrides KUBECONFIG env)",
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   "YAML or JSON file with generation settings; flags override file values",
		Sources: cli.EnvVars("INFINITORY_CONFIG"),
	}
}

// parseOutputFormat returns the --format value, or "" when none was given.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	raw := cmd.String(flagFormat)
	if raw == "" {
		return "", nil
	}
	f := serializer.Format(raw)
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", raw)
	}
	return f, nil
}

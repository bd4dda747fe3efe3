/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/serializer"
)

// FileConfig is the optional settings file passed with --config.
type FileConfig struct {
	PuppetDB PuppetDBConfig `json:"puppetdb" yaml:"puppetdb"`
	CacheDir string         `json:"cacheDir,omitempty" yaml:"cacheDir,omitempty"`
	Output   string         `json:"output,omitempty" yaml:"output,omitempty"`
	Filters  []string       `json:"filters,omitempty" yaml:"filters,omitempty"`
	Publish  string         `json:"publish,omitempty" yaml:"publish,omitempty"`
	Export   string         `json:"export,omitempty" yaml:"export,omitempty"`
}

// PuppetDBConfig holds the connection settings for PuppetDB.
type PuppetDBConfig struct {
	Host      string    `json:"host,omitempty" yaml:"host,omitempty"`
	RateLimit float64   `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`
	RateBurst int       `json:"rateBurst,omitempty" yaml:"rateBurst,omitempty"`
	TLS       TLSConfig `json:"tls" yaml:"tls"`
}

// TLSConfig names the PEM files for mutual TLS.
type TLSConfig struct {
	Cert string `json:"cert,omitempty" yaml:"cert,omitempty"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
	CA   string `json:"ca,omitempty" yaml:"ca,omitempty"`
}

func loadFileConfig(path string) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}
	fc, err := serializer.FromFile[FileConfig](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
	}
	return fc, nil
}

// generateOptions is the merged result of the config file and flags.
type generateOptions struct {
	Host             string
	Output           string
	CacheDir         string
	Filters          []string
	IncludeInactive  bool
	TLSCert          string
	TLSKey           string
	TLSCA            string
	RateLimit        float64
	RateBurst        int
	Timeout          time.Duration
	Concurrency      int
	Publish          string
	PlainHTTP        bool
	InsecureTLS      bool
	Export           string
	ExportFormat     serializer.Format
	Kubeconfig       string
	SkipVersionCheck bool
	Summary          serializer.Format
	Debug            bool
}

func optionsFromCmd(cmd *cli.Command) (*generateOptions, error) {
	fc, err := loadFileConfig(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	summary, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	exportFormat := serializer.Format(cmd.String("export-format"))
	if exportFormat.IsUnknown() {
		return nil, fmt.Errorf("unknown export format: %q", exportFormat)
	}

	opts := &generateOptions{
		Host:             pickString(cmd, "host", fc.PuppetDB.Host),
		Output:           pickString(cmd, flagOutput, fc.Output),
		CacheDir:         pickString(cmd, "cache-dir", fc.CacheDir),
		Filters:          cmd.StringSlice("filter"),
		IncludeInactive:  cmd.Bool("include-inactive"),
		TLSCert:          pickString(cmd, "tls-cert", fc.PuppetDB.TLS.Cert),
		TLSKey:           pickString(cmd, "tls-key", fc.PuppetDB.TLS.Key),
		TLSCA:            pickString(cmd, "tls-ca", fc.PuppetDB.TLS.CA),
		RateLimit:        cmd.Float("rate-limit"),
		RateBurst:        cmd.Int("rate-burst"),
		Timeout:          cmd.Duration("timeout"),
		Concurrency:      cmd.Int("concurrency"),
		Publish:          pickString(cmd, "publish", fc.Publish),
		PlainHTTP:        cmd.Bool("plain-http"),
		InsecureTLS:      cmd.Bool("insecure-tls"),
		Export:           pickString(cmd, "export", fc.Export),
		ExportFormat:     exportFormat,
		Kubeconfig:       cmd.String(flagKubeconfig),
		SkipVersionCheck: cmd.Bool("skip-version-check"),
		Summary:          summary,
		Debug:            cmd.Bool("debug"),
	}

	if !cmd.IsSet("filter") && len(fc.Filters) > 0 {
		opts.Filters = fc.Filters
	}
	if !cmd.IsSet("rate-limit") && fc.PuppetDB.RateLimit > 0 {
		opts.RateLimit = fc.PuppetDB.RateLimit
	}
	if !cmd.IsSet("rate-burst") && fc.PuppetDB.RateBurst > 0 {
		opts.RateBurst = fc.PuppetDB.RateBurst
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.QueryTimeout
	}

	if opts.Output == "" {
		return nil, fmt.Errorf("output directory is required (--%s)", flagOutput)
	}
	if opts.Host == "" {
		return nil, fmt.Errorf("puppetdb host is required (--host)")
	}
	return opts, nil
}

// pickString returns the flag value when it was set explicitly or from the
// environment, otherwise the file value, otherwise the flag default.
func pickString(cmd *cli.Command, flag, fileValue string) string {
	if cmd.IsSet(flag) || fileValue == "" {
		return cmd.String(flag)
	}
	return fileValue
}

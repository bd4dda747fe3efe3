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
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/errors"
	"github.com/NVIDIA/infinitory/pkg/version"
)

const (
	// DefaultUserAgent is sent with every request unless overridden.
	DefaultUserAgent = "infinitory/1.0"

	queryPath   = "/pdb/query/v4"
	versionPath = "/pdb/meta/v1/version"

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 4 << 10
)

// MinimumServerVersion is the oldest PuppetDB release whose PQL dialect the
// engine relies on.
var MinimumServerVersion = version.MustParseVersion("5.0.0")

// Option configures a Client.
type Option func(*Client)

// Client is a Source backed by the PuppetDB HTTP query API.
type Client struct {
	baseURL   *url.URL
	userAgent string
	timeout   time.Duration
	tlsConfig *tls.Config
	limiter   *rate.Limiter
	http      *http.Client
	clientSet bool
}

// WithHTTPClient replaces the HTTP client. TLS options are ignored when a
// custom client is supplied.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
			cl.clientSet = true
		}
	}
}

// WithRateLimit bounds outbound requests per second. A non-positive limit
// disables limiting.
func WithRateLimit(limit float64, burst int) Option {
	return func(cl *Client) {
		if limit <= 0 {
			cl.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithTimeout bounds each individual query.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithTLSConfig sets the TLS configuration used for https endpoints.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(cl *Client) {
		cl.tlsConfig = cfg
	}
}

// NewClient returns a client for the PuppetDB instance at baseURL. A bare
// host name is accepted and treated as http://host:8080.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   u,
		userAgent: DefaultUserAgent,
		timeout:   defaults.QueryTimeout,
		limiter:   rate.NewLimiter(rate.Limit(defaults.QueryRateLimit), defaults.QueryRateBurst),
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.clientSet {
		c.http = &http.Client{Transport: newTransport(c.tlsConfig)}
	}

	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "puppetdb host is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid puppetdb url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"unsupported puppetdb url scheme", map[string]any{"scheme": u.Scheme})
	}
	if u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "puppetdb url has no host")
	}
	if u.Port() == "" && u.Scheme == "http" {
		u.Host = net.JoinHostPort(u.Hostname(), "8080")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

func newTransport(tlsConfig *tls.Config) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   defaults.HTTPConnectTimeout,
		KeepAlive: defaults.HTTPKeepAlive,
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: defaults.HTTPTLSHandshakeTimeout,
		IdleConnTimeout:     defaults.HTTPIdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		TLSClientConfig:     tlsConfig,
	}
}

// NewTLSConfig builds a client TLS configuration from PEM files. Any of the
// paths may be empty; cert and key must be given together.
func NewTLSConfig(certFile, keyFile, caFile string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if (certFile == "") != (keyFile == "") {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			"client certificate and key must be provided together")
	}
	if certFile != "" {
		pair, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to load client certificate", err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}
	if caFile != "" {
		pem, err := os.ReadFile(caFile)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read CA bundle", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"CA bundle contains no certificates", map[string]any{"path": caFile})
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// BaseURL returns the normalized PuppetDB endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Query implements Source. PQL queries are posted to the root query endpoint,
// AST queries to the collection endpoint.
func (c *Client) Query(ctx context.Context, collection, query string) ([]json.RawMessage, error) {
	endpoint := c.baseURL.JoinPath(queryPath)
	if IsAST(query) {
		endpoint = c.baseURL.JoinPath(queryPath, collection)
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode query", err)
	}

	start := time.Now()
	var records []json.RawMessage
	err = c.do(ctx, http.MethodPost, endpoint.String(), body, &records)
	queryDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	if err != nil {
		queriesTotal.WithLabelValues(collection, "error").Inc()
		return nil, errors.WrapWithContext(errors.CodeOf(err), "puppetdb query failed", err,
			map[string]any{"collection": collection, "query": query})
	}

	queriesTotal.WithLabelValues(collection, "success").Inc()
	recordsTotal.WithLabelValues(collection).Add(float64(len(records)))
	slog.Debug("puppetdb query complete",
		"collection", collection,
		"records", len(records),
		"duration", time.Since(start))

	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

// ServerVersion returns the PuppetDB release reported by the server.
func (c *Client) ServerVersion(ctx context.Context) (version.Version, error) {
	var meta struct {
		Version string `json:"version"`
	}
	if err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath(versionPath).String(), nil, &meta); err != nil {
		return version.Version{}, err
	}

	v, err := version.ParseVersion(meta.Version)
	if err != nil {
		return version.Version{}, errors.WrapWithContext(errors.ErrCodeQuery,
			"unparseable puppetdb version", err, map[string]any{"version": meta.Version})
	}
	return v, nil
}

// CheckVersion fails when the server is older than MinimumServerVersion.
func (c *Client) CheckVersion(ctx context.Context) error {
	v, err := c.ServerVersion(ctx)
	if err != nil {
		return err
	}
	if !v.AtLeast(MinimumServerVersion) {
		return errors.NewWithContext(errors.ErrCodeUnavailable,
			fmt.Sprintf("puppetdb %s is older than the supported minimum %s", v, MinimumServerVersion),
			map[string]any{"server": v.String()})
	}
	slog.Debug("puppetdb version ok", "version", v.String())
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeTimeout, "rate limiter wait aborted", err)
		}
	}

	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(parent, endpoint, "puppetdb unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		code := errors.ErrCodeQuery
		if resp.StatusCode >= http.StatusInternalServerError {
			code = errors.ErrCodeUnavailable
		}
		return errors.NewWithContext(code,
			fmt.Sprintf("puppetdb returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			map[string]any{"status": resp.StatusCode, "endpoint": endpoint})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return c.transportError(parent, endpoint, "puppetdb response read failed", err)
		}
		return errors.Wrap(errors.ErrCodeQuery, "failed to decode puppetdb response", err)
	}
	return nil
}

// transportError classifies a failed round trip. Cancellation by the caller
// is a TIMEOUT; everything else, including the per-query deadline, is a
// CONNECTION failure.
func (c *Client) transportError(parent context.Context, endpoint, msg string, err error) error {
	if parent.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, "puppetdb request aborted", err)
	}
	details := map[string]any{"endpoint": endpoint}
	if stderrors.Is(err, context.DeadlineExceeded) {
		msg = "puppetdb request timed out"
		details["timeout"] = c.timeout.String()
	}
	return errors.WrapWithContext(errors.ErrCodeConnection, msg, err, details)
}

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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/header"
	"github.com/NVIDIA/infinitory/pkg/k8s/client"
)

const (
	// ConfigMapDataPrefix is the data key prefix holding the document. The
	// format extension is appended (report.json, report.yaml).
	ConfigMapDataPrefix = "report."

	configMapFieldManager = "infinitory"
)

// ConfigMapWriter writes serialized data to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    client.Interface
}

// ConfigMapOption configures a ConfigMapWriter.
type ConfigMapOption func(*ConfigMapWriter)

// WithKubeClient sets the client used to apply the ConfigMap. By default
// the shared client from client.GetKubeClient is used.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownFormat(format),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type document interface {
	GetKind() header.Kind
	Get(key string) string
}

// Serialize applies a ConfigMap holding doc. The ConfigMap has:
//   - data.report.{json|yaml|txt}: the serialized document
//   - data.format: the format used
//   - data.timestamp: the document timestamp, or now when it has none
func (w *ConfigMapWriter) Serialize(ctx context.Context, doc any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	cs := w.client
	if cs == nil {
		var err error
		if cs, _, err = client.GetKubeClient(); err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	content, err := encode(w.format, doc)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	kind := header.KindInventoryReport.String()
	version := "unknown"
	timestamp := time.Now().UTC().Format(time.RFC3339)
	if d, ok := doc.(document); ok {
		if k := d.GetKind(); k != "" {
			kind = k.String()
		}
		if v := d.Get(header.MetadataVersion); v != "" {
			version = v
		}
		if ts := d.Get(header.MetadataTimestamp); ts != "" {
			timestamp = ts
		}
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "infinitory",
			"app.kubernetes.io/component": strings.ToLower(kind),
			"app.kubernetes.io/version":   version,
		}).
		WithData(map[string]string{
			ConfigMapDataPrefix + w.format.Extension(): string(content),
			"format":    string(w.format),
			"timestamp": timestamp,
		})

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"bytes", len(content))

	// Server-side apply creates or updates in one call.
	_, err = cs.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: configMapFieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op. It exists to satisfy the Closer interface.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// ParseConfigMapURI splits cm://namespace/name into its components.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	ns, n, ok := strings.Cut(strings.TrimPrefix(uri, ConfigMapURIScheme), "/")
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(ns)
	name = strings.TrimSpace(n)
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}
	return namespace, name, nil
}

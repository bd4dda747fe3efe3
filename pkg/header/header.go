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

package header

import (
	"time"
)

// APIVersion is the schema version of every infinitory document.
const APIVersion = "infinitory.nvidia.com/v1alpha1"

// Well-known metadata keys.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
	MetadataRunID     = "run"
	MetadataSource    = "source"
)

// Kind identifies the document type.
type Kind string

const (
	KindInventoryReport Kind = "InventoryReport"
	KindNodeList        Kind = "NodeList"
	KindErrorSummary    Kind = "ErrorSummary"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindInventoryReport, KindNodeList, KindErrorSummary:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair. Empty values are ignored.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if value == "" {
			return
		}
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind sets the Kind.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion overrides the API version.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// WithTimestamp records t, in UTC, as the generation time.
func WithTimestamp(t time.Time) Option {
	return WithMetadata(MetadataTimestamp, t.UTC().Format(time.RFC3339))
}

// WithVersion records the infinitory version that produced the document.
func WithVersion(v string) Option {
	return WithMetadata(MetadataVersion, v)
}

// Header carries Kubernetes-style type and metadata fields on every
// document infinitory writes.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New returns a header with the current API version and the given options
// applied.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		Metadata:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetKind returns the document kind.
func (h *Header) GetKind() Kind {
	if h == nil {
		return ""
	}
	return h.Kind
}

// Get returns a metadata value.
func (h *Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h.Metadata[key]
}

// Timestamp parses the generation time. It returns the zero time when the
// header has none.
func (h *Header) Timestamp() time.Time {
	t, err := time.Parse(time.RFC3339, h.Get(MetadataTimestamp))
	if err != nil {
		return time.Time{}
	}
	return t
}

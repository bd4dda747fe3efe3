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

package oci

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/NVIDIA/infinitory/pkg/errors"
)

// URIScheme prefixes registry targets (oci://ghcr.io/org/repo:tag).
const URIScheme = "oci://"

var repositoryPattern = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*(?:/[a-z0-9]+(?:[._-][a-z0-9]+)*)*$`)

// Reference is a parsed registry target.
type Reference struct {
	// Registry is the registry host, with an optional port.
	Registry string
	// Repository is the repository path within the registry.
	Repository string
	// Tag is empty when the target names none; callers apply a default.
	Tag string
}

// IsURI reports whether target uses the oci:// scheme.
func IsURI(target string) bool {
	return strings.HasPrefix(target, URIScheme)
}

// ParseReference parses an oci:// target.
func ParseReference(target string) (*Reference, error) {
	if !IsURI(target) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"OCI reference must start with "+URIScheme, map[string]any{"target": target})
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "OCI reference must not pin a digest")
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	if err := ValidateRegistryReference(r.Registry, r.Repository); err != nil {
		return nil, err
	}
	return r, nil
}

// ValidateRegistryReference checks the registry host and repository path.
func ValidateRegistryReference(registry, repository string) error {
	if registry == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "registry is required")
	}
	if strings.ContainsAny(registry, "/ ") {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid registry host", map[string]any{"registry": registry})
	}
	if !repositoryPattern.MatchString(repository) {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid repository name", map[string]any{"repository": repository})
	}
	return nil
}

// String returns the oci:// form of r.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns registry/repository[:tag].
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return r.Repo()
	}
	return fmt.Sprintf("%s:%s", r.Repo(), r.Tag)
}

// Repo returns registry/repository.
func (r *Reference) Repo() string {
	return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
}

// WithTag returns a copy of r with tag set.
func (r *Reference) WithTag(tag string) *Reference {
	c := *r
	c.Tag = tag
	return &c
}

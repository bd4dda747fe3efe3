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

package client

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetShared(t *testing.T) {
	t.Helper()
	reset := func() {
		clientOnce = sync.Once{}
		cachedClient = nil
		cachedConfig = nil
		clientErr = nil
		SetKubeconfig("")
	}
	reset()
	t.Cleanup(reset)
}

func TestResolveKubeconfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		assert.Equal(t, "/explicit", ResolveKubeconfig("/explicit"))
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		assert.Equal(t, "/from/env", ResolveKubeconfig(""))
	})

	t.Run("in-cluster when nothing found", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "")
		assert.Empty(t, ResolveKubeconfig(""))
	})

	t.Run("home config", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "")
		path := filepath.Join(home, ".kube", "config")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("apiVersion: v1\n"), 0o600))
		assert.Equal(t, path, ResolveKubeconfig(""))
	})
}

func TestBuildKubeClientErrors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "kubeconfig")
	require.NoError(t, os.WriteFile(invalid, []byte("not: [valid"), 0o600))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing")},
		{"invalid file", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildKubeClient(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to build kube config")
		})
	}
}

func TestGetKubeClientCachesResult(t *testing.T) {
	resetShared(t)
	SetKubeconfig(filepath.Join(t.TempDir(), "missing"))

	c1, cfg1, err1 := GetKubeClient()
	c2, cfg2, err2 := GetKubeClient()

	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.Nil(t, c1)
	assert.Nil(t, c2)
	assert.Nil(t, cfg1)
	assert.Nil(t, cfg2)
}

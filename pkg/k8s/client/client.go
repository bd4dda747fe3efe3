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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is kubernetes.Interface, aliased so callers and tests can use
// fake.NewClientset.
type Interface = kubernetes.Interface

var (
	mu           sync.Mutex
	clientOnce   sync.Once
	kubeconfig   string
	cachedClient Interface
	cachedConfig *rest.Config
	clientErr    error
)

// SetKubeconfig selects the kubeconfig used by GetKubeClient. It has no
// effect once the shared client has been created.
func SetKubeconfig(path string) {
	mu.Lock()
	defer mu.Unlock()
	kubeconfig = path
}

// GetKubeClient returns the shared client, creating it on first call. The
// result, including a failure, is cached.
func GetKubeClient() (Interface, *rest.Config, error) {
	clientOnce.Do(func() {
		mu.Lock()
		path := kubeconfig
		mu.Unlock()

		var cs *kubernetes.Clientset
		cs, cachedConfig, clientErr = BuildKubeClient(path)
		if clientErr == nil {
			cachedClient = cs
		}
	})
	return cachedClient, cachedConfig, clientErr
}

// ResolveKubeconfig returns the kubeconfig file to load. An explicit path
// wins, then KUBECONFIG, then ~/.kube/config when it exists. An empty
// result means in-cluster configuration.
func ResolveKubeconfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

// BuildKubeClient creates a new client, bypassing the shared one. See
// ResolveKubeconfig for how the configuration is found.
func BuildKubeClient(path string) (*kubernetes.Clientset, *rest.Config, error) {
	path = ResolveKubeconfig(path)

	var (
		config *rest.Config
		err    error
	)
	if path == "" {
		if config, err = rest.InClusterConfig(); err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		if config, err = clientcmd.BuildConfigFromFlags("", path); err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", path, err)
		}
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return cs, config, nil
}

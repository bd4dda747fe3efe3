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

package inventory

import (
	"encoding/json"
	"maps"
)

// Sections addressable through Lookup.
const (
	SectionFacts   = "facts"
	SectionTrusted = "trusted"
	SectionOther   = "other"
	SectionNode    = ""
)

// Keys of the derived attributes in Other.
const (
	KeyBackups                  = "backups"
	KeyLogging                  = "logging"
	KeyMetrics                  = "metrics"
	KeyMonitoring               = "monitoring"
	KeyRoles                    = "roles"
	KeyIcingaNotificationPeriod = "icinga_notification_period"
	KeyIcingaEnvironment        = "icinga_environment"
	KeyIcingaOwner              = "icinga_owner"
)

// Addressable is implemented by every record the report exposes to the
// rendering layer.
type Addressable interface {
	Lookup(section, key string) Value
}

// Node is one host as returned by the inventory collection, plus the
// attributes derived from its resources. Facts and Trusted are never
// modified after load.
type Node struct {
	Certname    string         `json:"certname" yaml:"certname"`
	Timestamp   string         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Environment string         `json:"environment,omitempty" yaml:"environment,omitempty"`
	Facts       map[string]any `json:"facts" yaml:"facts"`
	Trusted     map[string]any `json:"trusted" yaml:"trusted"`
	Other       Other          `json:"other" yaml:"other"`
}

// Other holds attributes derived by the join steps. It only grows during a
// run.
type Other struct {
	Backups                  []string       `json:"backups" yaml:"backups"`
	Logging                  bool           `json:"logging" yaml:"logging"`
	Metrics                  bool           `json:"metrics" yaml:"metrics"`
	Monitoring               bool           `json:"monitoring" yaml:"monitoring"`
	Roles                    []string       `json:"roles" yaml:"roles"`
	IcingaNotificationPeriod string         `json:"icinga_notification_period,omitempty" yaml:"icinga_notification_period,omitempty"`
	IcingaEnvironment        string         `json:"icinga_environment,omitempty" yaml:"icinga_environment,omitempty"`
	IcingaOwner              string         `json:"icinga_owner,omitempty" yaml:"icinga_owner,omitempty"`
	Extra                    map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewOther returns an Other with every list initialised.
func NewOther() Other {
	return Other{
		Backups: []string{},
		Roles:   []string{},
		Extra:   map[string]any{},
	}
}

// Lookup returns a derived attribute by key. Unknown keys are looked up in
// Extra.
func (o *Other) Lookup(key string) Value {
	switch key {
	case KeyBackups:
		return ValueOf(o.Backups)
	case KeyLogging:
		return ValueOf(o.Logging)
	case KeyMetrics:
		return ValueOf(o.Metrics)
	case KeyMonitoring:
		return ValueOf(o.Monitoring)
	case KeyRoles:
		return ValueOf(o.Roles)
	case KeyIcingaNotificationPeriod:
		return stringValue(o.IcingaNotificationPeriod)
	case KeyIcingaEnvironment:
		return stringValue(o.IcingaEnvironment)
	case KeyIcingaOwner:
		return stringValue(o.IcingaOwner)
	default:
		return ValueOf(o.Extra[key])
	}
}

// Set stores an extension attribute under key in Extra.
func (o *Other) Set(key string, v any) {
	if o.Extra == nil {
		o.Extra = map[string]any{}
	}
	o.Extra[key] = v
}

func stringValue(s string) Value {
	if s == "" {
		return Null
	}
	return ValueOf(s)
}

// Lookup addresses a node attribute by section and key. The empty section
// addresses top-level fields (certname, environment, timestamp).
func (n *Node) Lookup(section, key string) Value {
	switch section {
	case SectionFacts:
		return ValueOf(n.Facts[key])
	case SectionTrusted:
		return ValueOf(n.Trusted[key])
	case SectionOther:
		return n.Other.Lookup(key)
	case SectionNode:
		switch key {
		case "certname":
			return stringValue(n.Certname)
		case "environment":
			return stringValue(n.Environment)
		case "timestamp":
			return stringValue(n.Timestamp)
		}
	}
	return Null
}

// Fact is shorthand for Lookup(SectionFacts, key) with optional nested keys.
func (n *Node) Fact(key string, nested ...string) Value {
	return ValueOf(n.Facts[key]).Get(nested...)
}

// UnmarshalJSON decodes an inventory record and initialises Other.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Facts == nil {
		p.Facts = map[string]any{}
	}
	if p.Trusted == nil {
		p.Trusted = map[string]any{}
	}

	other := NewOther()
	if p.Other.Backups != nil {
		other.Backups = p.Other.Backups
	}
	if p.Other.Roles != nil {
		other.Roles = p.Other.Roles
	}
	maps.Copy(other.Extra, p.Other.Extra)
	other.Logging = p.Other.Logging
	other.Metrics = p.Other.Metrics
	other.Monitoring = p.Other.Monitoring
	other.IcingaNotificationPeriod = p.Other.IcingaNotificationPeriod
	other.IcingaEnvironment = p.Other.IcingaEnvironment
	other.IcingaOwner = p.Other.IcingaOwner
	p.Other = other

	*n = Node(p)
	return nil
}

// Resource is one applied configuration item.
type Resource struct {
	Certname    string         `json:"certname"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Exported    bool           `json:"exported"`
	File        string         `json:"file,omitempty"`
	Line        int            `json:"line,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Environment string         `json:"environment,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

// Param returns a resource parameter.
func (r *Resource) Param(name string) Value {
	return ValueOf(r.Parameters[name])
}

// Absent reports whether the resource is declared with ensure => absent.
func (r *Resource) Absent() bool {
	v := r.Param("ensure")
	return v.Kind() == KindString && v.String() == "absent"
}

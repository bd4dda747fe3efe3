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

package render

import "github.com/NVIDIA/infinitory/pkg/inventory"

const (
	facts = inventory.SectionFacts
	other = inventory.SectionOther
)

// NodeColumns are shown in the node index.
func NodeColumns() []Cell {
	return []Cell{
		Fqdn(facts, "fqdn"),
		Teams(other, "teams"),
		Services(other, "services"),
		Boolean(other, inventory.KeyMonitoring),
		Boolean(other, inventory.KeyBackups),
		Boolean(other, inventory.KeyLogging),
		Boolean(other, inventory.KeyMetrics),
		Roles(other, inventory.KeyRoles),
	}
}

// AllColumns are exported to nodes.csv. All but the first are shown on
// node pages.
func AllColumns() []Cell {
	return []Cell{
		Base(facts, "fqdn"),
		Teams(other, "teams"),
		Owners(other, "owners"),
		Services(other, "services"),
		Base(other, inventory.KeyIcingaNotificationPeriod).WithHeader("Icinga notification period"),
		Base(other, inventory.KeyIcingaEnvironment).WithHeader("Icinga environment"),
		Base(other, inventory.KeyIcingaOwner).WithHeader("Icinga owner"),
		Set(other, inventory.KeyBackups),
		Boolean(other, inventory.KeyLogging),
		Boolean(other, inventory.KeyMetrics),
		Base(facts, "whereami"),
		Base(facts, "primary_ip"),
		Os(facts, "os"),
		Roles(other, inventory.KeyRoles),
		Base(inventory.SectionTrusted, "certname"),
		Base(facts, "group"),
		Base(facts, "function"),
		Base(facts, "context"),
		Base(facts, "stage"),
		Base(facts, "function_number"),
	}
}

// UniqueErrorColumns are shown in the unique error table.
func UniqueErrorColumns() []Cell {
	return []Cell{
		Base(other, "count"),
		Base(other, "level"),
		Base(other, "message"),
		TruncatedList(other, "certnames"),
	}
}

// AllErrorColumns are shown in the table of every error.
func AllErrorColumns() []Cell {
	return []Cell{
		Base(other, "message"),
		Base(other, "level"),
		Base(other, "hostname"),
	}
}

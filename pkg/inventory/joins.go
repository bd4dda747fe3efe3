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
	"context"
	"log/slog"

	"github.com/NVIDIA/infinitory/pkg/puppetdb"
)

// Resource types and classes joined onto nodes.
const (
	BackupJobType          = "Backup::Job"
	LoggingClass           = "Profile::Logging::Rsyslog::Client"
	MetricsClass           = "Profile::Metrics"
	MonitoringClass        = "Profile::Server::Monitor"
	IcingaCommonClass      = "Profile::Monitoring::Icinga2::Common"
	RoleRegistrationType   = "Profile::Motd::Register"
	roleRegistrationSource = "/site[.]pp$"
)

// reservedRoles are registered by every node and never form a role.
var reservedRoles = map[string]bool{
	"role":           true,
	"role::delivery": true,
}

// LoadBackups appends the files of every Backup::Job to Other.Backups.
func (s *Store) LoadBackups(ctx context.Context, src puppetdb.Source) error {
	cond := "type = " + puppetdb.Quote(BackupJobType)
	seq, err := s.QueryResources(ctx, src, cond, false)
	if err != nil {
		return err
	}

	joined := 0
	for node, res := range seq {
		files := res.Param("files")
		if files.IsNull() {
			slog.Debug("backup job without files", "certname", node.Certname, "title", res.Title)
			continue
		}
		node.Other.Backups = append(node.Other.Backups, files.Strings()...)
		joined++
	}
	slog.Debug("backups joined", "resources", joined)
	return nil
}

// LoadLogging flags nodes that include the rsyslog client class.
func (s *Store) LoadLogging(ctx context.Context, src puppetdb.Source) error {
	return s.flagClass(ctx, src, LoggingClass, func(o *Other) { o.Logging = true })
}

// LoadMetrics flags nodes that include the metrics class.
func (s *Store) LoadMetrics(ctx context.Context, src puppetdb.Source) error {
	return s.flagClass(ctx, src, MetricsClass, func(o *Other) { o.Metrics = true })
}

// LoadMonitoring flags monitored nodes and copies their Icinga settings.
func (s *Store) LoadMonitoring(ctx context.Context, src puppetdb.Source) error {
	if err := s.flagClass(ctx, src, MonitoringClass, func(o *Other) { o.Monitoring = true }); err != nil {
		return err
	}

	seq, err := s.QueryClasses(ctx, src, IcingaCommonClass)
	if err != nil {
		return err
	}
	for node, res := range seq {
		node.Other.IcingaNotificationPeriod = res.Param("notification_period").String()
		node.Other.IcingaEnvironment = res.Param("icinga2_environment").String()
		node.Other.IcingaOwner = res.Param("owner").String()
	}
	return nil
}

// LoadRoles appends each registered role to Other.Roles and to the role
// index. Roles are registered from site.pp by the motd profile.
func (s *Store) LoadRoles(ctx context.Context, src puppetdb.Source) error {
	cond := "type = " + puppetdb.Quote(RoleRegistrationType) +
		" and file ~ " + puppetdb.Quote(roleRegistrationSource)
	seq, err := s.QueryResources(ctx, src, cond, false)
	if err != nil {
		return err
	}

	for node, res := range seq {
		if reservedRoles[res.Title] {
			continue
		}
		node.Other.Roles = append(node.Other.Roles, res.Title)
		s.roles[res.Title] = append(s.roles[res.Title], node)
	}
	slog.Debug("roles joined", "roles", len(s.roles))
	return nil
}

func (s *Store) flagClass(ctx context.Context, src puppetdb.Source, class string, set func(*Other)) error {
	seq, err := s.QueryClasses(ctx, src, class)
	if err != nil {
		return err
	}

	n := 0
	for node := range seq {
		set(&node.Other)
		n++
	}
	slog.Debug("class joined", "class", class, "resources", n)
	return nil
}

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

// Package cli implements the infinitory command-line interface.
//
// # Overview
//
// infinitory queries PuppetDB and writes a static HTML inventory report:
// every node with its roles, services, owners and teams, per-node fact
// pages, role and service views, and the de-duplicated errors from each
// node's latest Puppet run.
//
// # Commands
//
// generate - Build the report:
//
//	infinitory generate --host puppetdb.example.com --output /srv/www/inventory
//
// Loads nodes, fetches each node's latest report (cached by hash under
// --cache-dir), joins backups, logging, metrics, monitoring and roles, then
// renders the report. The output directory is removed first.
//
// serve - Host a generated report:
//
//	infinitory serve --dir /srv/www/inventory --port 8080
//
// version - Print build information.
//
// # Configuration
//
// Settings come from flags, INFINITORY_* environment variables and an
// optional --config file (YAML or JSON, local or cm://namespace/name):
//
//	puppetdb:
//	  host: https://puppetdb.example.com:8081
//	  rateLimit: 10
//	  tls:
//	    cert: /etc/infinitory/client.pem
//	    key: /etc/infinitory/client.key
//	    ca: /etc/infinitory/ca.pem
//	cacheDir: /var/cache/infinitory
//	filters:
//	  - facts.datacenter = "pdx"
//
// Flags and environment variables override file values.
//
// # Logging
//
// Logs are JSON on stderr. The default level is warn; --verbose selects
// info, --debug selects debug and --log-level overrides both.
//
// # Exit Codes
//
//	0  Success
//	1  Any failure (connection, query, cache corruption, render)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/infinitory/pkg/cli.version=1.0.0'"
package cli

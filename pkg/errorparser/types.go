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

package errorparser

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Log levels retained from reports.
const (
	LevelErr     = "err"
	LevelWarning = "warning"
)

// CommonErrorPrefixes lists known noisy messages whose host-specific tails
// are dropped so that they deduplicate across hosts. Extend by adding
// entries.
var CommonErrorPrefixes = []string{
	"Could not retrieve catalog from remote server: Error 500 on SERVER: Server Error: " +
		"Evaluation Error: Error while evaluating a Function Call, " +
		"Untrusted facts (left) don't match values from certname (right)",
}

// CleanErrorMessage returns the first known prefix msg starts with, or msg
// unchanged.
func CleanErrorMessage(msg string) string {
	for _, p := range CommonErrorPrefixes {
		if strings.HasPrefix(msg, p) {
			return p
		}
	}
	return msg
}

// Report is the part of a PuppetDB report the aggregator reads.
type Report struct {
	Hash          string     `json:"hash"`
	Certname      string     `json:"certname"`
	Status        string     `json:"status"`
	Environment   string     `json:"environment,omitempty"`
	PuppetVersion string     `json:"puppet_version,omitempty"`
	ReceiveTime   string     `json:"receive_time,omitempty"`
	Logs          ReportLogs `json:"logs"`
}

// ReportLogs is the expanded logs field of a report.
type ReportLogs struct {
	Href string     `json:"href,omitempty"`
	Data []LogEntry `json:"data"`
}

// LogEntry is one log line of a Puppet run.
type LogEntry struct {
	Level   string   `json:"level"`
	Message string   `json:"message"`
	Source  string   `json:"source,omitempty"`
	Time    string   `json:"time,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	File    *string  `json:"file,omitempty"`
	Line    *int     `json:"line,omitempty"`
}

// Retained reports whether the entry is an error or a warning.
func (e LogEntry) Retained() bool {
	return e.Level == LevelErr || e.Level == LevelWarning
}

// ErrorRecord is one retained log entry.
type ErrorRecord struct {
	Level    string `json:"level" yaml:"level"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Message  string `json:"message" yaml:"message"`
}

// Field returns the named column. "certname" is accepted for hostname.
func (r ErrorRecord) Field(key string) any {
	switch key {
	case "level":
		return r.Level
	case "hostname", "certname":
		return r.Hostname
	case "message":
		return r.Message
	}
	return nil
}

// UniqueError is a normalized message counted across every host that
// logged it.
type UniqueError struct {
	Count     int         `json:"count" yaml:"count"`
	Level     string      `json:"level" yaml:"level"`
	Message   string      `json:"message" yaml:"message"`
	Certnames CertnameSet `json:"certnames" yaml:"certnames"`
}

// Field returns the named column. Certnames are returned sorted.
func (u UniqueError) Field(key string) any {
	switch key {
	case "count":
		return u.Count
	case "level":
		return u.Level
	case "message":
		return u.Message
	case "certnames":
		return u.Certnames.Sorted()
	}
	return nil
}

// CertnameSet is a set of host identifiers. It serialises as a sorted list.
type CertnameSet map[string]struct{}

// NewCertnameSet returns a set holding names.
func NewCertnameSet(names ...string) CertnameSet {
	s := make(CertnameSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name.
func (s CertnameSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is present.
func (s CertnameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in ascending order.
func (s CertnameSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// MarshalJSON encodes the set as a sorted list.
func (s CertnameSet) MarshalJSON() ([]byte, error) {
	out := s.Sorted()
	if out == nil {
		out = []string{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a list into the set.
func (s *CertnameSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewCertnameSet(names...)
	return nil
}

// MarshalYAML encodes the set as a sorted list.
func (s CertnameSet) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

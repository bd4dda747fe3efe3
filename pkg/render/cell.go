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

import (
	"fmt"
	"html/template"
	"regexp"
	"slices"
	"strings"

	"github.com/NVIDIA/infinitory/pkg/defaults"
	"github.com/NVIDIA/infinitory/pkg/inventory"
)

// Kind selects how a cell formats its value.
type Kind int

const (
	// KindBase renders the value as text.
	KindBase Kind = iota
	// KindBoolean renders a check mark in HTML and Y/N in CSV.
	KindBoolean
	// KindList renders every item as an ordered list.
	KindList
	// KindTruncatedList renders the first items as an ordered list.
	KindTruncatedList
	// KindSet renders sorted, deduplicated items as an unordered list.
	KindSet
	// KindRoles is a set of role names linked to the role index.
	KindRoles
	// KindServices lists the node's services linked to their pages.
	KindServices
	// KindOwners lists the owners of the node's services.
	KindOwners
	// KindTeams lists the teams of the node's services.
	KindTeams
	// KindFqdn renders the host name as a row header linking to the node page.
	KindFqdn
	// KindOs renders the operating system name and release.
	KindOs
)

var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Cell formats one column of a table. Cells are addressed by section and
// key and work on any inventory.Addressable record.
type Cell struct {
	Kind    Kind
	Section string
	Key     string
	Header  string
}

// NewCell returns a cell. The key must match [a-zA-Z0-9_-]+ since it is
// used as a CSS class. An empty header defaults to the key.
func NewCell(kind Kind, section, key, header string) (Cell, error) {
	if !validKey.MatchString(key) {
		return Cell{}, fmt.Errorf("invalid key: %q", key)
	}
	if header == "" {
		header = key
	}
	return Cell{Kind: kind, Section: section, Key: key, Header: header}, nil
}

func mustCell(kind Kind, section, key string) Cell {
	c, err := NewCell(kind, section, key, "")
	if err != nil {
		panic(err)
	}
	return c
}

// Constructors for each cell kind.
func Base(section, key string) Cell          { return mustCell(KindBase, section, key) }
func Boolean(section, key string) Cell       { return mustCell(KindBoolean, section, key) }
func List(section, key string) Cell          { return mustCell(KindList, section, key) }
func TruncatedList(section, key string) Cell { return mustCell(KindTruncatedList, section, key) }
func Set(section, key string) Cell           { return mustCell(KindSet, section, key) }
func Roles(section, key string) Cell         { return mustCell(KindRoles, section, key) }
func Services(section, key string) Cell      { return mustCell(KindServices, section, key) }
func Owners(section, key string) Cell        { return mustCell(KindOwners, section, key) }
func Teams(section, key string) Cell         { return mustCell(KindTeams, section, key) }
func Fqdn(section, key string) Cell          { return mustCell(KindFqdn, section, key) }
func Os(section, key string) Cell            { return mustCell(KindOs, section, key) }

// WithHeader returns a copy of c with a custom column header.
func (c Cell) WithHeader(h string) Cell {
	c.Header = h
	return c
}

// HeadHTML renders the table header cell.
func (c Cell) HeadHTML() template.HTML {
	return template.HTML(fmt.Sprintf(`<th class="key_%s">%s</th>`, c.Key, esc(c.Header)))
}

// HeadCSV returns the CSV header.
func (c Cell) HeadCSV() string {
	return c.Header
}

// BodyHTML renders the table cell for rec.
func (c Cell) BodyHTML(rec inventory.Addressable) template.HTML {
	tag := "td"
	if c.Kind == KindFqdn {
		tag = "th"
	}
	return template.HTML(fmt.Sprintf(`<%s class="%s">%s</%s>`,
		tag, strings.Join(c.classes(rec), " "), c.ValueHTML(rec), tag))
}

// BodyCSV returns the CSV field for rec.
func (c Cell) BodyCSV(rec inventory.Addressable) string {
	switch c.Kind {
	case KindBoolean:
		if c.value(rec).Truthy() {
			return "Y"
		}
		return "N"
	case KindList, KindTruncatedList:
		return strings.Join(c.value(rec).Strings(), "\n")
	case KindSet, KindRoles:
		return strings.Join(c.set(rec), "\n")
	case KindServices, KindOwners, KindTeams:
		return strings.Join(dedupe(c.serviceItems(rec, false)), "\n")
	case KindOs:
		return osString(rec)
	default:
		return c.text(rec)
	}
}

// ValueHTML renders the cell content without the enclosing element.
func (c Cell) ValueHTML(rec inventory.Addressable) template.HTML {
	switch c.Kind {
	case KindBoolean:
		if c.value(rec).Truthy() {
			return "✔︎"
		}
		return ""
	case KindList:
		return orderedList(c.value(rec).Strings())
	case KindTruncatedList:
		items := c.value(rec).Strings()
		if len(items) > defaults.TruncatedListLength {
			items = items[:defaults.TruncatedListLength]
		}
		return orderedList(items)
	case KindSet:
		return unorderedList(c.set(rec), plainItem)
	case KindRoles:
		return unorderedList(c.set(rec), func(role string) string {
			return fmt.Sprintf(`<li><a href="../roles/index.html#%s">%s</a></li>`, esc(role), esc(role))
		})
	case KindServices, KindOwners, KindTeams:
		items := dedupe(c.serviceItems(rec, true))
		return template.HTML("<ul>" + strings.Join(items, "\n") + "</ul>")
	case KindFqdn:
		return fqdnHTML(rec)
	case KindOs:
		return template.HTML(esc(osString(rec)))
	default:
		return template.HTML(esc(c.text(rec)))
	}
}

func (c Cell) classes(rec inventory.Addressable) []string {
	out := []string{"key_" + c.Key}
	if c.Kind == KindBoolean {
		if c.value(rec).Truthy() {
			out = append(out, "true")
		} else {
			out = append(out, "false")
		}
	}
	return out
}

func (c Cell) value(rec inventory.Addressable) inventory.Value {
	return rec.Lookup(c.Section, c.Key)
}

// text is the plain value; falsy values render empty.
func (c Cell) text(rec inventory.Addressable) string {
	v := c.value(rec)
	if !v.Truthy() {
		return ""
	}
	return v.String()
}

func (c Cell) set(rec inventory.Addressable) []string {
	items := c.value(rec).Strings()
	slices.Sort(items)
	return slices.Compact(items)
}

type serviceLister interface {
	Services() []*inventory.Service
}

// serviceItems maps the record's services to list items. Services without
// the requested owner or team contribute an empty item, as Puppet reports
// them as :undef.
func (c Cell) serviceItems(rec inventory.Addressable, html bool) []string {
	sl, ok := rec.(serviceLister)
	if !ok {
		return nil
	}

	var out []string
	for _, svc := range sl.Services() {
		switch c.Kind {
		case KindServices:
			if html {
				out = append(out, fmt.Sprintf(`<li><a href="../services/%s.html">%s</a></li>`,
					esc(PageName(svc.ClassName)), esc(svc.HumanName)))
			} else {
				out = append(out, svc.ClassName)
			}
		case KindOwners:
			out = append(out, optionalItem(svc.HasOwner(), svc.OwnerUID, html))
		case KindTeams:
			out = append(out, optionalItem(svc.HasTeam(), svc.Team, html))
		}
	}
	return out
}

func optionalItem(present bool, v string, html bool) string {
	if !present {
		return ""
	}
	if html {
		return plainItem(v)
	}
	return v
}

func fqdnHTML(rec inventory.Addressable) template.HTML {
	certname := rec.Lookup(inventory.SectionNode, "certname").String()
	hostname := rec.Lookup(inventory.SectionFacts, "hostname")
	domain := rec.Lookup(inventory.SectionFacts, "domain")
	href := esc(PageName(certname)) + ".html"

	switch {
	case hostname.IsNull():
		return template.HTML(fmt.Sprintf(`<a href="%s">%s</a>`, href, esc(certname)))
	case domain.IsNull():
		return template.HTML(fmt.Sprintf(`<a href="%s"><b>%s</b></a>`, href, esc(hostname.String())))
	default:
		return template.HTML(fmt.Sprintf(`<a href="%s"><b>%s<span>.</span></b><i>%s</i></a>`,
			href, esc(hostname.String()), esc(domain.String())))
	}
}

func osString(rec inventory.Addressable) string {
	fact := rec.Lookup(inventory.SectionFacts, "os")
	parts := []string{fact.Get("name").String()}
	if full := fact.Get("release", "full"); !full.IsNull() {
		parts = append(parts, full.String())
	}
	return strings.Join(parts, " ")
}

func orderedList(items []string) template.HTML {
	li := make([]string, len(items))
	for i, it := range items {
		li[i] = plainItem(it)
	}
	return template.HTML("<ol>" + strings.Join(li, "\n") + "</ol>")
}

func unorderedList(items []string, item func(string) string) template.HTML {
	li := make([]string, len(items))
	for i, it := range items {
		li[i] = item(it)
	}
	return template.HTML("<ul>" + strings.Join(li, "\n") + "</ul>")
}

func plainItem(s string) string {
	return "<li>" + esc(s) + "</li>"
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// PageName turns a certname or class name into a file name.
func PageName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}

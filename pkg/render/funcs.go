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
	"html/template"
	"regexp"
	"strings"

	"github.com/NVIDIA/infinitory/pkg/inventory"
)

var (
	paragraphBreak = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)
	dotSuffix      = regexp.MustCompile(`\..*`)
	nonWord        = regexp.MustCompile(`\W+`)
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"unundef":  unundef,
		"nl2br":    nl2br,
		"pageName": PageName,
	}
}

// unundef blanks the placeholder Puppet uses for unset parameters.
func unundef(s string) string {
	if s == inventory.Undef {
		return ""
	}
	return s
}

// nl2br turns blank-line separated text into escaped paragraphs.
func nl2br(s string) template.HTML {
	parts := paragraphBreak.Split(s, -1)
	for i, p := range parts {
		parts[i] = "<p>" + esc(p) + "</p>"
	}
	return template.HTML(strings.Join(parts, "\n\n"))
}

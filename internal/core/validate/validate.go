// Copyright 2024 Paperclip Authors
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

// Package validate runs the dev-mode-only checks of spec.md §4.5 over an
// already-evaluated vdom.Document: duplicate SemanticId selectors are
// errors (they would make the differ's keyed match ambiguous). That is the
// only check made: auto-generated repeat keys and component instances
// without a key are not reported.
package validate

import (
	"sort"

	"github.com/mpvl/unique"

	"paperclip.dev/core/internal/core/vdom"
	"paperclip.dev/core/perrors"
)

// Document walks doc.Root and reports every duplicate SemanticId selector
// found, using github.com/mpvl/unique to collapse the sorted selector
// list down to its distinct members in one pass and comparing lengths to
// detect whether any collisions occurred at all before paying for the
// second pass that finds exactly which ones.
func Document(doc *vdom.Document) []perrors.Diagnostic {
	var list perrors.List

	var selectors []string
	collectSelectors(doc.Root, &selectors)

	sorted := append([]string{}, selectors...)
	sort.Strings(sorted)
	deduped := append([]string{}, sorted...)
	unique.Strings(&deduped)

	if len(deduped) == len(sorted) {
		return list.Diagnostics()
	}

	counts := map[string]int{}
	for _, s := range selectors {
		counts[s]++
	}
	reported := map[string]bool{}
	for _, s := range selectors {
		if counts[s] > 1 && !reported[s] {
			reported[s] = true
			list.Addf(perrors.DuplicateSemanticID, 0, "duplicate semantic id selector %q appears %d times", s, counts[s])
		}
	}
	return list.Diagnostics()
}

func collectSelectors(n vdom.VNode, out *[]string) {
	if n == nil {
		return
	}
	*out = append(*out, n.SemanticID().String())
	switch t := n.(type) {
	case *vdom.Element:
		for _, c := range t.Children {
			collectSelectors(c, out)
		}
	case *vdom.Component:
		collectSelectors(t.Rendered, out)
	}
}

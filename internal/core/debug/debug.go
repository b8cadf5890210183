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

// Package debug renders a VDocument or a Patch list as a human-readable
// tree, used by dev-mode tooling and by tests that assert against a
// golden printed form rather than comparing structs field by field
// (spec.md §8's snapshot-style assertions). It follows the teacher's
// debug package in spirit: a single recursive printer keyed off the
// value's concrete kind, built on github.com/kr/pretty the way the
// teacher's own internal/core/debug leans on it for struct dumps.
package debug

import (
	"fmt"
	"strings"

	"github.com/kr/pretty"

	"paperclip.dev/core/internal/core/differ"
	"paperclip.dev/core/internal/core/vdom"
)

// Tree renders n and its descendants as an indented outline, one node
// per line, followed by its SemanticId selector.
func Tree(n vdom.VNode) string {
	var sb strings.Builder
	writeNode(&sb, n, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n vdom.VNode, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case *vdom.Element:
		tag := t.Tag
		if tag == "" {
			tag = "<group>"
		}
		fmt.Fprintf(sb, "%s%s %s\n", indent, tag, t.ID.String())
		for _, c := range t.Children {
			writeNode(sb, c, depth+1)
		}
	case *vdom.Text:
		fmt.Fprintf(sb, "%stext(%q) %s\n", indent, t.Content, t.ID.String())
	case *vdom.Comment:
		fmt.Fprintf(sb, "%s<!-- %s --> %s\n", indent, t.Text, t.ID.String())
	case *vdom.Component:
		fmt.Fprintf(sb, "%s%s %s\n", indent, t.Name, t.ID.String())
		writeNode(sb, t.Rendered, depth+1)
	case *vdom.Error:
		fmt.Fprintf(sb, "%s!error(%s) %s\n", indent, t.Message, t.ID.String())
	}
}

// Patches renders a differ.Patch list as one line per patch, in order.
func Patches(patches []differ.Patch) string {
	var sb strings.Builder
	for _, p := range patches {
		fmt.Fprintf(&sb, "%s %s\n", p.Kind, p.Path)
	}
	return sb.String()
}

// Dump pretty-prints an arbitrary value (a Value, an ast node, a whole
// Bundle) for ad-hoc inspection in failing-test output, deferring to
// kr/pretty's reflection-based formatter rather than hand-rolling one.
func Dump(v any) string {
	return pretty.Sprint(v)
}

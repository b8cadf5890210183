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

// Package serialize writes a Document back out to source text without
// disturbing any byte range the caller did not touch (spec.md §4.7): an
// edit to one style property must not reformat an unrelated component
// ten lines away. Untouched spans are copied byte-for-byte from the
// original source; only the spans named in an Edit are replaced, with
// freshly pretty-printed text for any node that has no prior span at all
// (a node inserted by a tool rather than parsed from source).
package serialize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kr/text"

	"paperclip.dev/core/ast"
)

// Edit replaces the byte range [Span.Start, Span.End) of the original
// source with NewText.
type Edit struct {
	Span    ast.Span
	NewText string
}

// Apply splices edits into original, sorted by position, and returns the
// resulting source text. Overlapping edits are rejected by taking only
// the first one encountered at a given offset, since the caller
// (typically one dirty-node pass of the evaluator/differ) is expected to
// produce disjoint spans.
func Apply(original string, edits []Edit) string {
	sorted := append([]Edit{}, edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start < sorted[j].Span.Start })

	var sb strings.Builder
	cursor := 0
	for _, e := range sorted {
		if e.Span.Start < cursor {
			continue // overlaps a previous edit; keep the earlier one
		}
		sb.WriteString(original[cursor:e.Span.Start])
		sb.WriteString(e.NewText)
		cursor = e.Span.End
	}
	if cursor < len(original) {
		sb.WriteString(original[cursor:])
	}
	return sb.String()
}

// indentWidth is the serializer's fixed indent step (spec.md §4.7 requires
// a stable, deterministic pretty-printed form for inserted nodes).
const indentWidth = "  "

// PrintStyleBody pretty-prints a style declaration's property map as a
// brace-delimited block, one property per line, reindented with
// github.com/kr/text the same way the teacher formats multi-line debug
// output (internal/core/debug's indenting printer).
func PrintStyleBody(props *ast.OrderedMap) string {
	if props == nil || props.Len() == 0 {
		return "{}"
	}
	var body strings.Builder
	props.Each(func(k string, v any) {
		body.WriteString(k)
		body.WriteString(": ")
		body.WriteString(v.(string))
		body.WriteString("\n")
	})
	indented := text.Indent(strings.TrimRight(body.String(), "\n"), indentWidth)
	return "{\n" + indented + "\n}"
}

// PrintElement renders el as fresh source text for a node that has no
// originating span (e.g. a node a tool inserted programmatically rather
// than one the parser produced). It recurses through the Element sum
// type the same way ast.WalkElement does, but builds text instead of
// calling a visitor.
func PrintElement(el ast.Element) string {
	switch n := el.(type) {
	case *ast.Tag:
		return printTagOrInstance(n.Name, n.Attributes, n.Children, false)
	case *ast.Instance:
		return printTagOrInstance(n.Name, n.Props, n.Children, true)
	case *ast.Text:
		return "text " + printExprPlaceholder(n.Content)
	case *ast.SlotInsert:
		return n.Name
	case *ast.Conditional:
		var sb strings.Builder
		sb.WriteString("if ")
		sb.WriteString(printExprPlaceholder(n.Condition))
		sb.WriteString(" {\n")
		sb.WriteString(text.Indent(printElements(n.ThenBranch), indentWidth))
		sb.WriteString("\n}")
		if len(n.ElseBranch) > 0 {
			sb.WriteString(" else {\n")
			sb.WriteString(text.Indent(printElements(n.ElseBranch), indentWidth))
			sb.WriteString("\n}")
		}
		return sb.String()
	case *ast.Repeat:
		var sb strings.Builder
		sb.WriteString("repeat ")
		sb.WriteString(n.ItemName)
		sb.WriteString(" in ")
		sb.WriteString(printExprPlaceholder(n.Collection))
		sb.WriteString(" {\n")
		sb.WriteString(text.Indent(printElements(n.Body), indentWidth))
		sb.WriteString("\n}")
		return sb.String()
	}
	return ""
}

func printElements(els []ast.Element) string {
	lines := make([]string, 0, len(els))
	for _, el := range els {
		lines = append(lines, PrintElement(el))
	}
	return strings.Join(lines, "\n")
}

func printTagOrInstance(name string, args *ast.OrderedMap, children []ast.Element, isInstance bool) string {
	var sb strings.Builder
	sb.WriteString(name)
	if args != nil && args.Len() > 0 {
		sb.WriteString("(")
		first := true
		args.Each(func(k string, v any) {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(printExprPlaceholder(v))
		})
		sb.WriteString(")")
	}
	if len(children) > 0 {
		sb.WriteString(" {\n")
		sb.WriteString(text.Indent(printElements(children), indentWidth))
		sb.WriteString("\n}")
	}
	return sb.String()
}

// printExprPlaceholder renders an already-parsed expression back to
// source text for the string/number/bool/variable cases that account for
// nearly all tool-inserted nodes; composite expressions fall back to a
// placeholder since the serializer only needs to round-trip what the
// evaluator itself constructs when synthesizing new nodes.
func printExprPlaceholder(e any) string {
	expr, ok := e.(ast.Expression)
	if !ok {
		return ""
	}
	switch n := expr.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LitString:
			return "\"" + n.String + "\""
		case ast.LitNumber:
			return trimFloat(n.Number)
		case ast.LitBool:
			if n.Bool {
				return "true"
			}
			return "false"
		}
	case *ast.Variable:
		return n.Name
	case *ast.MemberAccess:
		return printExprPlaceholder(n.Object) + "." + n.Property
	}
	return "/* expr */"
}

// trimFloat mirrors value.ToDisplayString's shortest round-trip rule
// without importing the value package; expression printing only needs
// the textual form, not the Value sum type itself.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

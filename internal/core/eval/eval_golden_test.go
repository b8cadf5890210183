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

package eval

import (
	"strings"
	"testing"

	"paperclip.dev/core/internal/core/bundle"
	"paperclip.dev/core/internal/core/vdom"
	"paperclip.dev/core/internal/pctest"
)

// TestEvalGolden drives every testdata/*.txtar fixture end to end through
// bundle resolution and evaluation, comparing a structural (ID-free)
// outline of the resulting tree against the fixture's recorded "out"
// section. The outline omits SemanticId selectors: they embed a CRC32 of
// the document path and are exercised precisely by the unit tests
// elsewhere in this package, so the golden fixtures here are free to
// focus purely on tree shape.
func TestEvalGolden(t *testing.T) {
	pctest.Suite{Root: "testdata"}.Run(t, func(c *pctest.Case) {
		if _, ok := c.Inputs["app.pc"]; !ok {
			t.Fatal("fixture is missing an app.pc file")
		}
		loader := func(p string) (string, error) {
			data, ok := c.Inputs[p]
			if !ok {
				return "", unknownFixtureFileErr(p)
			}
			return data, nil
		}

		b, err := bundle.Resolve("app.pc", loader)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		ctx := NewContext(b, "app.pc", false)
		doc, diags := EvalDocument(ctx, "App", nil)
		if len(diags) > 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		// doc.Root is always the entry component's own Component wrapper;
		// the fixtures record the shape of what it renders, not the entry
		// component's own name, so nested instances (which do get a name
		// line) stay visually distinct from the fixture's top level.
		root := doc.Root.(*vdom.Component)
		c.WriteString(outline(root.Rendered, 0))
	})
}

type unknownFixtureFileErr string

func (e unknownFixtureFileErr) Error() string { return "no such fixture file: " + string(e) }

// outline renders n as an indented, ID-free structural summary.
func outline(n vdom.VNode, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case *vdom.Element:
		tag := t.Tag
		if tag == "" {
			tag = "<group>"
		}
		var sb strings.Builder
		sb.WriteString(indent + tag + "\n")
		for _, c := range t.Children {
			sb.WriteString(outline(c, depth+1))
		}
		return sb.String()
	case *vdom.Text:
		return indent + "text(" + t.Content + ")\n"
	case *vdom.Comment:
		return indent + "<!-- " + t.Text + " -->\n"
	case *vdom.Component:
		return indent + t.Name + "\n" + outline(t.Rendered, depth+1)
	case *vdom.Error:
		return indent + "!error(" + t.Message + ")\n"
	}
	return ""
}

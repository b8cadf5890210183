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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/bundle"
	"paperclip.dev/core/internal/core/value"
	"paperclip.dev/core/internal/core/vdom"
	"paperclip.dev/core/perrors"
)

func mustBundle(t *testing.T, files map[string]string, entry string) *bundle.Bundle {
	t.Helper()
	loader := func(p string) (string, error) {
		src, ok := files[p]
		if !ok {
			return "", missingErr(p)
		}
		return src, nil
	}
	b, err := bundle.Resolve(entry, loader)
	require.NoError(t, err)
	return b
}

type missingErr string

func (e missingErr) Error() string { return "no such file: " + string(e) }

func propsOf(kv ...any) *ast.OrderedMap {
	m := ast.NewOrderedMap()
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(value.Value))
	}
	return m
}

func TestEvalTextAndTemplateInterpolation(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		text "hello {name}"
	}
}`,
	}, "/app.pc")

	ctx := NewContext(b, "/app.pc", false)
	ctx.scope.set("name", value.String("world"))
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	comp := doc.Root.(*vdom.Component)
	tag := comp.Rendered.(*vdom.Element)
	require.Len(t, tag.Children, 1)
	text := tag.Children[0].(*vdom.Text)
	assert.Equal(t, "hello world", text.Content)
}

func TestEvalConditionalPicksBranchByTruthiness(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		if shown {
			text "yes"
		} else {
			text "no"
		}
	}
}`,
	}, "/app.pc")

	for _, tc := range []struct {
		shown value.Value
		want  string
	}{
		{value.Bool(true), "yes"},
		{value.Bool(false), "no"},
	} {
		ctx := NewContext(b, "/app.pc", false)
		ctx.scope.set("shown", tc.shown)
		doc, diags := EvalDocument(ctx, "App", nil)
		require.Empty(t, diags)
		comp := doc.Root.(*vdom.Component)
		tag := comp.Rendered.(*vdom.Element)
		text := tag.Children[0].(*vdom.Text)
		assert.Equal(t, tc.want, text.Content)
	}
}

func TestEvalRepeatDerivesExplicitKeyFromTagAttribute(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		repeat x in items {
			span(key=x) {
				text x
			}
		}
	}
}`,
	}, "/app.pc")

	ctx := NewContext(b, "/app.pc", false)
	ctx.scope.set("items", value.Array{value.String("a"), value.String("b"), value.String("c")})
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	repeatEl := div.Children[0].(*vdom.Element)
	require.Len(t, repeatEl.Children, 3)
	for i, want := range []string{"a", "b", "c"} {
		span := repeatEl.Children[i].(*vdom.Element)
		text := span.Children[0].(*vdom.Text)
		assert.Equal(t, want, text.Content)
	}
}

func TestEvalRepeatDuplicateKeyInDevModeReportsAndSubstitutesErrorNode(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		repeat x in items {
			span(key=x) {
				text x
			}
		}
	}
}`,
	}, "/app.pc")

	ctx := NewContext(b, "/app.pc", true)
	ctx.scope.set("items", value.Array{value.String("a"), value.String("a")})
	doc, diags := EvalDocument(ctx, "App", nil)

	require.Len(t, diags, 1)
	assert.Equal(t, perrors.DuplicateRepeatKey, diags[0].Kind)

	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	repeatEl := div.Children[0].(*vdom.Element)
	require.Len(t, repeatEl.Children, 2)

	_, firstIsSpan := repeatEl.Children[0].(*vdom.Element)
	assert.True(t, firstIsSpan, "first occurrence of a key keeps rendering normally")

	errNode, ok := repeatEl.Children[1].(*vdom.Error)
	require.True(t, ok, "second item with a duplicate key should be substituted with an Error VNode")
	assert.Contains(t, errNode.Message, "a")
}

func TestEvalRepeatDuplicateKeyInProductionIsSilentlyTolerated(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		repeat x in items {
			span(key=x) {
				text x
			}
		}
	}
}`,
	}, "/app.pc")

	ctx := NewContext(b, "/app.pc", false)
	ctx.scope.set("items", value.Array{value.String("a"), value.String("a")})
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	repeatEl := div.Children[0].(*vdom.Element)
	require.Len(t, repeatEl.Children, 2)
	for _, c := range repeatEl.Children {
		span, ok := c.(*vdom.Element)
		require.True(t, ok, "duplicate-key items still render in production mode")
		text := span.Children[0].(*vdom.Text)
		assert.Equal(t, "a", text.Content)
	}
}

func TestEvalRepeatOverNonArrayReportsDiagnostic(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App {
	render div {
		repeat item in items {
			text item
		}
	}
}`,
	}, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	ctx.scope.set("items", value.String("not an array"))
	_, diags := EvalDocument(ctx, "App", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, perrors.RepeatCollectionTypeError, diags[0].Kind)
}

func TestEvalInstanceSlotDefaultAndInsertedContent(t *testing.T) {
	files := map[string]string{
		"/app.pc": `public component App {
	render div {
		Card { text "override" }
	}
}
component Card {
	slot children {
		text "default"
	}
	render div {
		children
	}
}`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	app := doc.Root.(*vdom.Component)
	outerDiv := app.Rendered.(*vdom.Element)
	cardInstance := outerDiv.Children[0].(*vdom.Component)
	cardDiv := cardInstance.Rendered.(*vdom.Element)
	text := cardDiv.Children[0].(*vdom.Text)
	assert.Equal(t, "override", text.Content)
}

func TestEvalSlotFallsBackToDefaultWhenNoChildrenProvided(t *testing.T) {
	files := map[string]string{
		"/app.pc": `public component App {
	render div {
		Card { }
	}
}
component Card {
	slot children {
		text "default"
	}
	render div {
		children
	}
}`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	app := doc.Root.(*vdom.Component)
	outerDiv := app.Rendered.(*vdom.Element)
	cardInstance := outerDiv.Children[0].(*vdom.Component)
	cardDiv := cardInstance.Rendered.(*vdom.Element)
	text := cardDiv.Children[0].(*vdom.Text)
	assert.Equal(t, "default", text.Content)
}

func TestEvalCircularComponentDependencyIsGuarded(t *testing.T) {
	files := map[string]string{
		"/app.pc": `public component A {
	render div {
		B { }
	}
}
component B {
	render div {
		A { }
	}
}`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	_, diags := EvalDocument(ctx, "A", nil)
	require.NotEmpty(t, diags)
	assert.Equal(t, perrors.CircularComponentDependency, diags[len(diags)-1].Kind)
}

func TestEvalUnknownComponentReportsDiagnostic(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App { render div { text "x" } }`,
	}, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	_, diags := EvalDocument(ctx, "NoSuchComponent", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, perrors.UnknownComponent, diags[0].Kind)
}

func TestEvalStyleTokenSubstitution(t *testing.T) {
	files := map[string]string{
		"/app.pc": `
import "./tokens.pc" as tok
public component App {
	render div {
		style {
			margin-bottom: {tok.spacing}
		}
	}
}`,
		"/tokens.pc": `public token spacing 8px`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	require.Len(t, doc.Styles, 1)
	v, ok := doc.Styles[0].Properties.Get("margin-bottom")
	require.True(t, ok)
	assert.Equal(t, "8px", v)
	assert.Equal(t, div.ID, doc.Styles[0].Target)
}

func TestEvalInstanceResolvesQualifiedCrossDocumentComponent(t *testing.T) {
	files := map[string]string{
		"/app.pc": `
import "./widgets.pc" as widgets
public component App {
	render div {
		widgets.Card { text "hi" }
	}
}`,
		"/widgets.pc": `public component Card {
	render div {
		children
	}
}`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	app := doc.Root.(*vdom.Component)
	outer := app.Rendered.(*vdom.Element)
	card := outer.Children[0].(*vdom.Component)
	assert.Equal(t, "Card", card.Name)
	div := card.Rendered.(*vdom.Element)
	text := div.Children[0].(*vdom.Text)
	assert.Equal(t, "hi", text.Content)
}

func TestEvalPropsFlowIntoComponentScope(t *testing.T) {
	files := map[string]string{
		"/app.pc": `public component App {
	render div {
		Greeting(name="Ann") { }
	}
}
component Greeting {
	render div {
		text "hi {name}"
	}
}`,
	}
	b := mustBundle(t, files, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)

	app := doc.Root.(*vdom.Component)
	outer := app.Rendered.(*vdom.Element)
	greeting := outer.Children[0].(*vdom.Component)
	div := greeting.Rendered.(*vdom.Element)
	text := div.Children[0].(*vdom.Text)
	assert.Equal(t, "hi Ann", text.Content)
}

func TestEvalUndefinedVariableYieldsNullAndDiagnostic(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App { render div { text missing } }`,
	}, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, perrors.UndefinedVariable, diags[0].Kind)

	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	text := div.Children[0].(*vdom.Text)
	assert.Equal(t, "", text.Content)
}

func TestEvalDivisionByZeroDiagnostic(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App { render div { text 1 / 0 } }`,
	}, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	_, diags := EvalDocument(ctx, "App", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, perrors.DivisionByZero, diags[0].Kind)
}

func TestEvalBuiltinCallInExpression(t *testing.T) {
	b := mustBundle(t, map[string]string{
		"/app.pc": `public component App { render div { text upper(name) } }`,
	}, "/app.pc")
	ctx := NewContext(b, "/app.pc", false)
	ctx.scope.set("name", value.String("ann"))
	doc, diags := EvalDocument(ctx, "App", nil)
	require.Empty(t, diags)
	comp := doc.Root.(*vdom.Component)
	div := comp.Rendered.(*vdom.Element)
	text := div.Children[0].(*vdom.Text)
	assert.Equal(t, "ANN", text.Content)
}

func TestEvalDocumentPanicsOnNilBundle(t *testing.T) {
	ctx := NewContext(nil, "/app.pc", false)
	assert.Panics(t, func() {
		EvalDocument(ctx, "App", nil)
	})
}

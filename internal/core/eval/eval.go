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
	"fmt"
	"strconv"

	"golang.org/x/xerrors"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/semantic"
	"paperclip.dev/core/internal/core/value"
	"paperclip.dev/core/internal/core/vdom"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

var errNilBundle = xerrors.New("nil bundle")

// styleCollector accumulates StyleBlocks in first-seen order across an
// entire evaluation pass. It lives outside Context so every recursive
// call into evalComponentInstance shares the same backing slice instead of each
// returning its own, which would require an expensive merge step.
type styleCollector struct {
	blocks []vdom.StyleBlock
}

// EvalDocument evaluates the component named entryComponent (public or
// not) from the bundle's entry document with the given props, returning the
// complete render result (spec.md §6.2's `evaluate(bundle, component,
// props)` consumer contract).
func EvalDocument(ctx *Context, entryComponent string, props *ast.OrderedMap) (*vdom.Document, []perrors.Diagnostic) {
	if ctx.Bundle == nil {
		// A nil Bundle can only reach here through caller misuse of
		// NewContext, not through anything a Paperclip document can
		// express; it is an internal invariant violation, wrapped with
		// frame context the way the teacher's compile.go wraps its own
		// compiler invariants, rather than surfaced as a Diagnostic.
		panic(xerrors.Errorf("eval: EvalDocument called with a nil Bundle: %w", errNilBundle))
	}
	sc := &styleCollector{}
	comp := ctx.Bundle.Document(ctx.docPath).Component(entryComponent)
	if comp == nil {
		ctx.Diagnostics.Addf(perrors.UnknownComponent, token.NoPos, "unknown component %q", entryComponent)
		return &vdom.Document{Root: &vdom.Error{ID: ctx.path, Message: "unknown component " + entryComponent}}, ctx.Diagnostics.Diagnostics()
	}
	root := evalComponentInstance(ctx, sc, comp, props, nil, ctx.path.Push(semantic.Segment{
		Kind:          semantic.ComponentSeg,
		ComponentName: entryComponent,
	}))
	return &vdom.Document{Root: root, Styles: sc.blocks}, ctx.Diagnostics.Diagnostics()
}

// evalComponentInstance mounts one component: it binds props into a
// fresh scope, guards against recursive self-instancing, saves/restores
// the slot-content stack, and evaluates the component's render body.
func evalComponentInstance(
	ctx *Context,
	sc *styleCollector,
	comp *ast.Component,
	props *ast.OrderedMap,
	children []ast.Element,
	path semantic.Id,
) vdom.VNode {
	guarded, ok := ctx.pushComponent(comp.Name)
	if !ok {
		ctx.Diagnostics.Addf(perrors.CircularComponentDependency, token.Pos(comp.Pos.Start),
			"component %q instances itself, directly or indirectly", comp.Name)
		return &vdom.Error{ID: path, Message: "circular component dependency: " + comp.Name}
	}

	propScope := newScope(ctx.scope)
	if props != nil {
		props.Each(func(k string, v any) {
			propScope.set(k, v.(value.Value))
		})
	}

	childCtx := guarded.child(path, propScope, ctx.docPath)
	childCtx = childCtx.pushSlots(comp.Name, children, ctx.docPath, ctx.scope)

	if comp.Body == nil {
		return &vdom.Error{ID: path, Message: "component " + comp.Name + " has no render body"}
	}
	rendered := evalElement(childCtx, sc, comp.Body)
	return &vdom.Component{ID: path, Name: comp.Name, Props: props, Rendered: rendered}
}

// evalElement dispatches on the six Element variants (spec.md §4.4.2).
func evalElement(ctx *Context, sc *styleCollector, el ast.Element) vdom.VNode {
	switch n := el.(type) {
	case *ast.Tag:
		return evalTag(ctx, sc, n)
	case *ast.Text:
		return evalText(ctx, n)
	case *ast.Conditional:
		return evalConditional(ctx, sc, n)
	case *ast.Repeat:
		return evalRepeat(ctx, sc, n)
	case *ast.Instance:
		return evalInstance(ctx, sc, n)
	case *ast.SlotInsert:
		return evalSlotInsert(ctx, sc, n)
	}
	return &vdom.Error{ID: ctx.path, Message: "unhandled element kind"}
}

func evalText(ctx *Context, n *ast.Text) vdom.VNode {
	v := EvalExpr(ctx, n.Content)
	path := ctx.path.Push(semantic.Segment{Kind: semantic.ElementSeg, TagName: "text", AstID: string(n.Pos.ID)})
	return &vdom.Text{ID: path, Content: value.ToDisplayString(v)}
}

func evalTag(ctx *Context, sc *styleCollector, n *ast.Tag) vdom.VNode {
	path := ctx.path.Push(semantic.Segment{Kind: semantic.ElementSeg, TagName: n.Name, AstID: string(n.Pos.ID)})
	elCtx := ctx.child(path, ctx.scope, ctx.docPath)

	attrs := ast.NewOrderedMap()
	n.Attributes.Each(func(k string, v any) {
		attrs.Set(k, value.ToDisplayString(EvalExpr(elCtx, v.(ast.Expression))))
	})

	styles := ast.NewOrderedMap()
	n.Styles.Each(func(k string, v any) {
		resolved := resolveStyleValue(elCtx, value.ToDisplayString(EvalExpr(elCtx, v.(ast.Expression))))
		styles.Set(k, resolved)
	})
	if styles.Len() > 0 {
		sc.blocks = append(sc.blocks, vdom.StyleBlock{Target: path, Properties: styles})
	}

	children := make([]vdom.VNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, evalElement(elCtx, sc, c))
	}

	return &vdom.Element{ID: path, AstID: n.Pos.ID, Tag: n.Name, Attributes: attrs, Styles: styles, Children: children}
}

// resolveStyleValue expands `{token-name}` references inside a style
// value against the current bundle's token declarations (spec.md
// §4.4.3). Unresolvable references are left verbatim; style values are
// not required to be well-formed CSS, only well-formed text.
func resolveStyleValue(ctx *Context, raw string) string {
	out := make([]byte, 0, len(raw))
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			j := i + 1
			for j < len(raw) && raw[j] != '}' {
				j++
			}
			if j < len(raw) {
				name := raw[i+1 : j]
				if tok, _, ok := ctx.Bundle.FindToken(ctx.docPath, name); ok {
					out = append(out, tok.Value...)
					i = j + 1
					continue
				}
			}
		}
		out = append(out, raw[i])
		i++
	}
	return string(out)
}

func evalConditional(ctx *Context, sc *styleCollector, n *ast.Conditional) vdom.VNode {
	cond := EvalExpr(ctx, n.Condition)
	if value.IsTruthy(cond) {
		path := ctx.path.Push(semantic.Segment{Kind: semantic.ConditionalBranchSeg, AstID: string(n.Pos.ID), Branch: "then"})
		return evalBranch(ctx.child(path, ctx.scope, ctx.docPath), sc, n.ThenBranch, path)
	}
	path := ctx.path.Push(semantic.Segment{Kind: semantic.ConditionalBranchSeg, AstID: string(n.Pos.ID), Branch: "else"})
	return evalBranch(ctx.child(path, ctx.scope, ctx.docPath), sc, n.ElseBranch, path)
}

// evalBranch wraps a conditional branch's elements in a synthetic group
// node when it contains two or more elements, so a branch never fails to
// produce a single VNode; an empty branch yields a Comment node instead.
// A one-element branch is elided directly to that element's own VNode
// (spec.md §4.4.2's implicit grouping-element elision rule).
func evalBranch(ctx *Context, sc *styleCollector, els []ast.Element, path semantic.Id) vdom.VNode {
	if len(els) == 1 {
		return evalElement(ctx, sc, els[0])
	}
	children := make([]vdom.VNode, 0, len(els))
	for _, el := range els {
		children = append(children, evalElement(ctx, sc, el))
	}
	if len(children) == 0 {
		if ctx.DevMode {
			return &vdom.Comment{ID: path, Text: "empty branch"}
		}
		return &vdom.Comment{ID: path, Text: ""}
	}
	return &vdom.Element{ID: path, Tag: "", Attributes: ast.NewOrderedMap(), Styles: ast.NewOrderedMap(), Children: children}
}

func evalRepeat(ctx *Context, sc *styleCollector, n *ast.Repeat) vdom.VNode {
	coll := EvalExpr(ctx, n.Collection)
	arr, ok := coll.(value.Array)
	if !ok {
		ctx.Diagnostics.Addf(perrors.RepeatCollectionTypeError, token.Pos(n.Pos.Start),
			"repeat collection must be an array, got %s", valueKindName(coll))
		return &vdom.Error{ID: ctx.path, Message: "repeat over non-array value"}
	}

	astID := string(n.Pos.ID)
	seenKeys := map[string]bool{}
	items := make([]vdom.VNode, 0, len(arr))
	for _, item := range arr {
		itemScope := newScope(ctx.scope)
		itemScope.set(n.ItemName, item)
		keyCtx := ctx.child(ctx.path, itemScope, ctx.docPath)

		key := repeatItemKey(keyCtx, n.Body)
		duplicate := key != "" && seenKeys[key]
		if key == "" {
			key = strconv.Itoa(ctx.nextAutoKey(astID))
		}
		seenKeys[key] = true

		path := ctx.path.Push(semantic.Segment{Kind: semantic.RepeatItemSeg, AstID: astID, ItemKey: key})
		if duplicate {
			// A dev_mode duplicate key is reported and the offending item
			// is replaced so no two sibling VNodes share its selector; in
			// production the collection is rendered as authored.
			if ctx.DevMode {
				ctx.Diagnostics.Addf(perrors.DuplicateRepeatKey, token.Pos(n.Pos.Start),
					"duplicate repeat key %q", key)
				items = append(items, &vdom.Error{ID: path, Message: fmt.Sprintf("duplicate repeat key %q", key)})
				continue
			}
		}

		itemCtx := ctx.child(path, itemScope, ctx.docPath)
		items = append(items, evalBranch(itemCtx, sc, n.Body, path))
	}

	path := ctx.path.Push(semantic.Segment{Kind: semantic.ElementSeg, TagName: "repeat", AstID: astID})
	return &vdom.Element{ID: path, Tag: "", Attributes: ast.NewOrderedMap(), Styles: ast.NewOrderedMap(), Children: items}
}

// repeatItemKey extracts an explicit key from the repeat body's first
// element when it is a Tag carrying a `key` attribute, evaluated with
// the item already bound in ctx's scope (spec.md §4.4.2's
// `span(key=x) { text x }` example). A body not shaped that way falls
// back to an auto-generated index key.
func repeatItemKey(ctx *Context, body []ast.Element) string {
	if len(body) == 0 {
		return ""
	}
	tag, ok := body[0].(*ast.Tag)
	if !ok {
		return ""
	}
	expr, ok := tag.Attributes.Get("key")
	if !ok {
		return ""
	}
	return value.ToDisplayString(EvalExpr(ctx, expr.(ast.Expression)))
}

func evalInstance(ctx *Context, sc *styleCollector, n *ast.Instance) vdom.VNode {
	comp, foundDocPath, ok := ctx.Bundle.FindComponent(ctx.docPath, n.Name)
	if !ok {
		ctx.Diagnostics.Addf(perrors.UnknownComponent, token.Pos(n.Pos.Start), "unknown component %q", n.Name)
		return &vdom.Error{ID: ctx.path, Message: "unknown component " + n.Name}
	}

	props := ast.NewOrderedMap()
	n.Props.Each(func(k string, v any) {
		props.Set(k, EvalExpr(ctx, v.(ast.Expression)))
	})

	instanceKey := ""
	if v, ok := n.Props.Get("key"); ok {
		if expr, ok := v.(ast.Expression); ok {
			instanceKey = value.ToDisplayString(EvalExpr(ctx, expr))
		}
	} else if ctx.DevMode {
		ctx.Diagnostics.Warnf(perrors.MissingInstanceKey, token.Pos(n.Pos.Start),
			"instance of %q has no explicit key prop", n.Name)
	}

	path := ctx.path.Push(semantic.Segment{Kind: semantic.ComponentSeg, ComponentName: n.Name, InstanceKey: instanceKey})

	calleeCtx := ctx
	if foundDocPath != ctx.docPath {
		calleeCtx = ctx.child(ctx.path, ctx.scope, foundDocPath)
	}
	return evalComponentInstance(calleeCtx, sc, comp, props, n.Children, path)
}

func evalSlotInsert(ctx *Context, sc *styleCollector, n *ast.SlotInsert) vdom.VNode {
	frame, ok := ctx.currentSlotFrame()
	if !ok {
		ctx.Diagnostics.Addf(perrors.SlotOutsideComponent, token.Pos(n.Pos.Start),
			"slot %q used outside of a component render body", n.Name)
		return &vdom.Error{ID: ctx.path, Message: "slot outside component: " + n.Name}
	}

	if len(frame.children) > 0 {
		path := ctx.path.Push(semantic.Segment{Kind: semantic.SlotSeg, SlotName: n.Name, Inserted: true})
		callerCtx := ctx.withoutTopSlotFrame().child(path, frame.childScope, frame.childDocPath)
		return evalBranch(callerCtx, sc, frame.children, path)
	}

	slot := findSlotDecl(ctx, frame.componentName, n.Name)
	path := ctx.path.Push(semantic.Segment{Kind: semantic.SlotSeg, SlotName: n.Name, Inserted: false})
	if slot == nil || len(slot.DefaultContent) == 0 {
		return &vdom.Comment{ID: path, Text: "empty slot " + n.Name}
	}
	defaultCtx := ctx.withoutTopSlotFrame().child(path, ctx.scope, ctx.docPath)
	return evalBranch(defaultCtx, sc, slot.DefaultContent, path)
}

func findSlotDecl(ctx *Context, componentName, slotName string) *ast.SlotDecl {
	comp, _, ok := ctx.Bundle.FindComponent(ctx.docPath, componentName)
	if !ok {
		return nil
	}
	return comp.Slot(slotName)
}

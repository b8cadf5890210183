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

// Package eval evaluates a bundled ast.Document into a vdom.Document
// (spec.md §4.4). Evaluation is a pure function of (bundle, entry
// component, props): no wall-clock reads, no randomness, no iteration
// over a Go map without going through ast.OrderedMap (spec.md §4.4.4).
package eval

import (
	"golang.org/x/exp/slices"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/bundle"
	"paperclip.dev/core/internal/core/semantic"
	"paperclip.dev/core/internal/core/value"
	"paperclip.dev/core/perrors"
)

// scope is one frame of variable bindings, chained to its parent so a
// repeat item or a component's props shadow outer bindings without
// mutating them. This is the same frame/parent-chain shape as the
// teacher's compile-time environment (internal/core/compile's frame
// stack), adapted from compile-time type checking to runtime value
// lookup.
type scope struct {
	parent *scope
	vars   map[string]value.Value
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]value.Value{}}
}

func (s *scope) set(name string, v value.Value) { s.vars[name] = v }

func (s *scope) lookup(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Context carries everything evaluation needs to thread through the
// recursive Tag/Instance/Conditional/Repeat walk: the bundle being
// evaluated, the current variable scope, the semantic-id path built so
// far, per-repeat (keyed by the repeat's AST id) counters for auto-key
// generation, the
// slot content stack for Instance/SlotInsert resolution, a recursion
// guard keyed by component name, collected diagnostics, and a dev_mode
// flag that enables extra validation (spec.md §4.4, §4.5).
type Context struct {
	Bundle  *bundle.Bundle
	DevMode bool

	docPath string
	scope   *scope
	path    semantic.Id

	// slotStack holds, for each currently-mounted Instance, the caller's
	// children to be spliced in wherever the callee renders a SlotInsert.
	slotStack []slotFrame

	// componentStack guards against unbounded recursion: a component that
	// instances itself, directly or indirectly, is reported as a
	// CircularComponentDependency diagnostic instead of overflowing the
	// Go call stack (spec.md §4.4.2).
	componentStack []string

	autoKeyCounters map[string]int

	Diagnostics *perrors.List
}

type slotFrame struct {
	componentName string
	children      []ast.Element
	childDocPath  string
	childScope    *scope
}

// NewContext creates a root evaluation context rooted at entryDocPath.
func NewContext(b *bundle.Bundle, entryDocPath string, devMode bool) *Context {
	return &Context{
		Bundle:          b,
		DevMode:         devMode,
		docPath:         entryDocPath,
		scope:           newScope(nil),
		path:            semantic.Root(),
		autoKeyCounters: map[string]int{},
		Diagnostics:     &perrors.List{},
	}
}

// child returns a shallow copy of ctx positioned at a new semantic path
// and variable scope, leaving shared mutable state (diagnostics, key
// counters, slot/component stacks) aliased so side effects made while
// evaluating a subtree are visible to the caller.
func (ctx *Context) child(path semantic.Id, sc *scope, docPath string) *Context {
	next := *ctx
	next.path = path
	next.scope = sc
	next.docPath = docPath
	return &next
}

func (ctx *Context) nextAutoKey(astID string) int {
	n := ctx.autoKeyCounters[astID]
	ctx.autoKeyCounters[astID] = n + 1
	return n
}

func (ctx *Context) pushComponent(name string) (*Context, bool) {
	if slices.Contains(ctx.componentStack, name) {
		return ctx, false
	}
	next := *ctx
	next.componentStack = append(append([]string{}, ctx.componentStack...), name)
	return &next, true
}

func (ctx *Context) pushSlots(componentName string, children []ast.Element, docPath string, sc *scope) *Context {
	next := *ctx
	next.slotStack = append(append([]slotFrame{}, ctx.slotStack...), slotFrame{
		componentName: componentName,
		children:      children,
		childDocPath:  docPath,
		childScope:    sc,
	})
	return &next
}

func (ctx *Context) currentSlotFrame() (slotFrame, bool) {
	if len(ctx.slotStack) == 0 {
		return slotFrame{}, false
	}
	return ctx.slotStack[len(ctx.slotStack)-1], true
}

// withoutTopSlotFrame drops the innermost slot frame, used while
// evaluating a component's own body so nested SlotInsert elements inside
// that body (belonging to a component it itself instances) don't
// accidentally resolve against the outer caller's content.
func (ctx *Context) withoutTopSlotFrame() *Context {
	if len(ctx.slotStack) == 0 {
		return ctx
	}
	next := *ctx
	next.slotStack = ctx.slotStack[:len(ctx.slotStack)-1]
	return &next
}

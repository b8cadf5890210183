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

// Package vdom is the output of evaluation: a concrete tree of VNodes plus
// the flattened StyleBlocks collected while evaluating it (spec.md §4.4,
// §4.4.3). It is the input the differ and the debug printer both consume.
package vdom

import (
	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/semantic"
)

// VNode is the sum type of concrete rendered nodes. Like ast.Element, it
// is a closed interface with a private marker method rather than an
// operation-dispatch interface, matching spec.md §3.3's enumerated node
// kinds (Element, Text, Comment, Component, Error).
type VNode interface {
	SemanticID() semantic.Id
	vnode()
}

// Element is a concrete rendered tag: spec.md's runtime analogue of
// ast.Tag after attributes/styles/children have been evaluated.
type Element struct {
	ID         semantic.Id
	AstID      ast.NodeId
	Tag        string
	Attributes *ast.OrderedMap // string -> string, final evaluated values
	Styles     *ast.OrderedMap // string -> string, final evaluated values
	Children   []VNode
}

func (e *Element) SemanticID() semantic.Id { return e.ID }
func (*Element) vnode()                    {}

// Key returns the element's `key` attribute, or "" when it has none.
func (e *Element) Key() string {
	if e.Attributes == nil {
		return ""
	}
	v, _ := e.Attributes.Get("key")
	s, _ := v.(string)
	return s
}

// Text is a concrete rendered text run.
type Text struct {
	ID      semantic.Id
	Content string
}

func (t *Text) SemanticID() semantic.Id { return t.ID }
func (*Text) vnode()                    {}

// Comment marks a structural boundary that would otherwise leave no trace
// in the tree, such as an empty conditional branch or an empty slot. The
// evaluator emits it with dev mode on or off.
type Comment struct {
	ID   semantic.Id
	Text string
}

func (c *Comment) SemanticID() semantic.Id { return c.ID }
func (*Comment) vnode()                    {}

// Component is a mounted component instance: its own SemanticId plus the
// VNode tree its render body produced.
type Component struct {
	ID       semantic.Id
	Name     string
	Props    *ast.OrderedMap
	Rendered VNode
}

func (c *Component) SemanticID() semantic.Id { return c.ID }
func (*Component) vnode()                    {}

// Error stands in for a subtree that failed to evaluate. It carries the
// Diagnostic message inline rather than aborting the whole evaluation
// (spec.md §4.4's non-fatal diagnostic contract).
type Error struct {
	ID      semantic.Id
	Message string
}

func (e *Error) SemanticID() semantic.Id { return e.ID }
func (*Error) vnode()                    {}

// StyleBlock is one collected `style { ... }` rule, keyed by the
// SemanticId of the element it applies to (spec.md §4.4.3).
type StyleBlock struct {
	Target     semantic.Id
	Properties *ast.OrderedMap // string -> string
}

// Document is the complete evaluation result for one component mount:
// the rendered tree plus every style block collected while producing it,
// in the order they were first encountered (declaration order).
type Document struct {
	Root   VNode
	Styles []StyleBlock
}

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

package ast

// Element is the sum type of render-tree nodes (spec.md §3.1). Each
// concrete type below implements it; evaluators type-switch on the
// concrete type rather than dispatching through interface methods, which
// keeps the evaluator's control flow explicit (spec.md §9 Design Notes:
// "avoid dynamic dispatch on operations").
type Element interface {
	Node
	elementNode()
}

// Tag is a literal markup element: `tag(attr=expr, …) { children }`.
type Tag struct {
	Name       string
	Attributes *OrderedMap // string -> Expression
	Styles     *OrderedMap // string -> Expression
	Children   []Element
	Pos        Span
}

func (t *Tag) Span() Span { return t.Pos }
func (*Tag) elementNode() {}

// Text is a `text expr` render statement.
type Text struct {
	Content Expression
	Pos     Span
}

func (t *Text) Span() Span { return t.Pos }
func (*Text) elementNode() {}

// Instance is a component instantiation: `Name(props) { children }`.
type Instance struct {
	Name     string
	Props    *OrderedMap // string -> Expression
	Children []Element
	Pos      Span
}

func (i *Instance) Span() Span { return i.Pos }
func (*Instance) elementNode() {}

// Conditional is an `if expr { … } [else { … }]` render statement. ElseBranch
// is an explicit (possibly empty) slice, never nil, distinguishing "no else"
// from "empty else" per spec.md §4.2.
type Conditional struct {
	Condition  Expression
	ThenBranch []Element
	ElseBranch []Element
	Pos        Span
}

func (c *Conditional) Span() Span { return c.Pos }
func (*Conditional) elementNode()  {}

// Repeat is a `repeat item in collection { … }` render statement.
type Repeat struct {
	ItemName   string
	Collection Expression
	Body       []Element
	Pos        Span
}

func (r *Repeat) Span() Span { return r.Pos }
func (*Repeat) elementNode()  {}

// SlotInsert is a bare identifier in render position, referring to a named
// slot ("children" when Name is empty).
type SlotInsert struct {
	Name string
	Pos  Span
}

func (s *SlotInsert) Span() Span { return s.Pos }
func (*SlotInsert) elementNode()  {}

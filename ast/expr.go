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

// Expression is the sum type of evaluable expressions (spec.md §3.1).
type Expression interface {
	Node
	exprNode()
}

// BinaryOpKind enumerates the operators accepted by BinaryOp.
type BinaryOpKind int

const (
	OpAdd BinaryOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpGt
	OpAnd
	OpOr
)

func (k BinaryOpKind) String() string {
	switch k {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// LiteralKind distinguishes the three literal value shapes.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
)

// Literal is a string, number or boolean constant.
type Literal struct {
	Kind   LiteralKind
	String string
	Number float64
	Bool   bool
	Pos    Span
}

func (l *Literal) Span() Span { return l.Pos }
func (*Literal) exprNode()    {}

// Variable is a bare identifier reference.
type Variable struct {
	Name string
	Pos  Span
}

func (v *Variable) Span() Span { return v.Pos }
func (*Variable) exprNode()    {}

// MemberAccess is `obj.prop`.
type MemberAccess struct {
	Object   Expression
	Property string
	Pos      Span
}

func (m *MemberAccess) Span() Span { return m.Pos }
func (*MemberAccess) exprNode()    {}

// BinaryOp is `left op right`.
type BinaryOp struct {
	Left  Expression
	Op    BinaryOpKind
	Right Expression
	Pos   Span
}

func (b *BinaryOp) Span() Span { return b.Pos }
func (*BinaryOp) exprNode()    {}

// Call is `callee(args…)` used in expression position.
type Call struct {
	Callee string
	Args   []Expression
	Pos    Span
}

func (c *Call) Span() Span { return c.Pos }
func (*Call) exprNode()    {}

// TemplatePart is one fragment of a string template: either a literal run
// of text or an interpolated `{expr}`.
type TemplatePart struct {
	Literal string     // valid when Expr == nil
	Expr    Expression // valid when non-nil
}

// Template is a double-quoted string containing `{expr}` fragments.
type Template struct {
	Parts []TemplatePart
	Pos   Span
}

func (t *Template) Span() Span { return t.Pos }
func (*Template) exprNode()    {}

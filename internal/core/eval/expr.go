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

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/builtins"
	"paperclip.dev/core/internal/core/value"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

// EvalExpr evaluates an expression tree strictly and eagerly: every
// operand is evaluated regardless of whether its result is used, except
// the short-circuit operands of && and || (spec.md §4.4.1). Evaluation
// never fails outright; an invalid operation reports a Diagnostic on
// ctx.Diagnostics and returns value.Null so the caller can keep going.
func EvalExpr(ctx *Context, e ast.Expression) value.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return evalLiteral(n)
	case *ast.Variable:
		return evalVariable(ctx, n)
	case *ast.MemberAccess:
		return evalMemberAccess(ctx, n)
	case *ast.BinaryOp:
		return evalBinaryOp(ctx, n)
	case *ast.Call:
		return evalCall(ctx, n)
	case *ast.Template:
		return evalTemplate(ctx, n)
	}
	return value.Null{}
}

func evalLiteral(n *ast.Literal) value.Value {
	switch n.Kind {
	case ast.LitString:
		return value.String(n.String)
	case ast.LitNumber:
		return value.Number(n.Number)
	case ast.LitBool:
		return value.Bool(n.Bool)
	}
	return value.Null{}
}

func evalVariable(ctx *Context, n *ast.Variable) value.Value {
	if v, ok := ctx.scope.lookup(n.Name); ok {
		return v
	}
	ctx.Diagnostics.Addf(perrors.UndefinedVariable, token.Pos(n.Pos.Start),
		"undefined variable %q", n.Name)
	return value.Null{}
}

func evalMemberAccess(ctx *Context, n *ast.MemberAccess) value.Value {
	obj := EvalExpr(ctx, n.Object)
	o, ok := obj.(*value.Object)
	if !ok {
		ctx.Diagnostics.Addf(perrors.InvalidMemberAccess, token.Pos(n.Pos.Start),
			"cannot access property %q of a %s value", n.Property, valueKindName(obj))
		return value.Null{}
	}
	v, ok := o.Get(n.Property)
	if !ok {
		return value.Null{}
	}
	return v
}

func valueKindName(v value.Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind().String()
}

func evalBinaryOp(ctx *Context, n *ast.BinaryOp) value.Value {
	switch n.Op {
	case ast.OpAnd:
		left := EvalExpr(ctx, n.Left)
		if !value.IsTruthy(left) {
			return value.Bool(false)
		}
		right := EvalExpr(ctx, n.Right)
		return value.Bool(value.IsTruthy(right))
	case ast.OpOr:
		left := EvalExpr(ctx, n.Left)
		if value.IsTruthy(left) {
			return value.Bool(true)
		}
		right := EvalExpr(ctx, n.Right)
		return value.Bool(value.IsTruthy(right))
	}

	left := EvalExpr(ctx, n.Left)
	right := EvalExpr(ctx, n.Right)

	switch n.Op {
	case ast.OpEq:
		return value.Bool(valuesEqual(left, right))
	case ast.OpNeq:
		return value.Bool(!valuesEqual(left, right))
	case ast.OpAdd:
		return evalAdd(ctx, n, left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpLt, ast.OpGt:
		ln, lok := left.(value.Number)
		rn, rok := right.(value.Number)
		if !lok || !rok {
			ctx.Diagnostics.Addf(perrors.InvalidBinaryOp, token.Pos(n.Pos.Start),
				"operator %s requires numeric operands, got %s and %s",
				n.Op, valueKindName(left), valueKindName(right))
			return value.Null{}
		}
		switch n.Op {
		case ast.OpSub:
			return value.Number(float64(ln) - float64(rn))
		case ast.OpMul:
			return value.Number(float64(ln) * float64(rn))
		case ast.OpDiv:
			if float64(rn) == 0 {
				ctx.Diagnostics.Addf(perrors.DivisionByZero, token.Pos(n.Pos.Start), "division by zero")
				return value.Null{}
			}
			return value.Number(float64(ln) / float64(rn))
		case ast.OpLt:
			return value.Bool(float64(ln) < float64(rn))
		case ast.OpGt:
			return value.Bool(float64(ln) > float64(rn))
		}
	}
	return value.Null{}
}

// evalAdd implements the dual `+` semantics of spec.md §4.4.1: numeric
// addition when both operands are numbers, string concatenation (via
// to_string coercion) whenever either operand is not a number.
func evalAdd(ctx *Context, n *ast.BinaryOp, left, right value.Value) value.Value {
	ln, lok := left.(value.Number)
	rn, rok := right.(value.Number)
	if lok && rok {
		return value.Number(float64(ln) + float64(rn))
	}
	return value.String(value.ToDisplayString(left) + value.ToDisplayString(right))
}

func valuesEqual(a, b value.Value) bool {
	switch av := a.(type) {
	case value.Null:
		_, ok := b.(value.Null)
		return ok
	case value.Bool:
		bv, ok := b.(value.Bool)
		return ok && av == bv
	case value.Number:
		bv, ok := b.(value.Number)
		return ok && av == bv
	case value.String:
		bv, ok := b.(value.String)
		return ok && av == bv
	}
	return false
}

func evalCall(ctx *Context, n *ast.Call) value.Value {
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = EvalExpr(ctx, a)
	}
	fn, ok := builtins.Lookup(n.Callee)
	if !ok {
		ctx.Diagnostics.Addf(perrors.InvalidCall, token.Pos(n.Pos.Start), "unknown function %q", n.Callee)
		return value.Null{}
	}
	result, err := fn(args)
	if err != nil {
		ctx.Diagnostics.Addf(perrors.InvalidCall, token.Pos(n.Pos.Start), "%s: %v", n.Callee, err)
		return value.Null{}
	}
	return result
}

func evalTemplate(ctx *Context, n *ast.Template) value.Value {
	var sb strings.Builder
	for _, part := range n.Parts {
		if part.Expr != nil {
			sb.WriteString(value.ToDisplayString(EvalExpr(ctx, part.Expr)))
		} else {
			sb.WriteString(part.Literal)
		}
	}
	return value.String(sb.String())
}

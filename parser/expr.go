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

package parser

import (
	"strconv"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/lexer"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

// parseExpression parses a full expression with standard precedence
// climbing. Conditions and iterables are parsed with this same entry
// point — the grammar never wraps them in parentheses (spec.md §4.2).
func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: ast.OpOr, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: ast.OpAnd, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.at(token.EQ) || p.at(token.NEQ) {
		op := ast.OpEq
		if p.at(token.NEQ) {
			op = ast.OpNeq
		}
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

func (p *parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.GT) {
		op := ast.OpLt
		if p.at(token.GT) {
			op = ast.OpGt
		}
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.OpAdd
		if p.at(token.MINUS) {
			op = ast.OpSub
		}
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) {
		op := ast.OpMul
		if p.at(token.SLASH) {
			op = ast.OpDiv
		}
		start := left.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Op: op, Right: right, Pos: p.spanFrom(start)}
	}
	return left, nil
}

// parseUnary handles `!expr` and `-expr`. Unary minus desugars to `0 - expr`
// so the evaluator only ever needs binary-operator semantics.
func (p *parser) parseUnary() (ast.Expression, error) {
	if p.at(token.NOT) {
		start := p.tok.Start
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		// `!x` desugars to `(x || false) == false`: the `||` reduces x to its
		// is_truthy Bool, so the strict `==` then negates it without adding
		// a dedicated NotOp to ast.
		f := &ast.Literal{Kind: ast.LitBool, Bool: false, Pos: p.span(start)}
		return &ast.BinaryOp{
			Left:  &ast.BinaryOp{Left: operand, Op: ast.OpOr, Right: f, Pos: f.Pos},
			Op:    ast.OpEq,
			Right: f,
			Pos:   p.span(start),
		}, nil
	}
	if p.at(token.MINUS) {
		start := p.tok.Start
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryOp{
			Left:  &ast.Literal{Kind: ast.LitNumber, Number: 0, Pos: p.span(start)},
			Op:    ast.OpSub,
			Right: operand,
			Pos:   p.span(start),
		}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(token.PERIOD) {
		start := expr.Span().Start
		if err := p.next(); err != nil {
			return nil, err
		}
		prop, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		expr = &ast.MemberAccess{Object: expr, Property: prop.Text, Pos: p.spanFrom(start)}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	start := p.tok.Start
	switch p.tok.Kind {
	case token.NUMBER:
		text := p.tok.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, perrors.NewInvalidSyntax(start, "invalid number literal %q", text)
		}
		return &ast.Literal{Kind: ast.LitNumber, Number: n, Pos: p.span(start)}, nil

	case token.TRUE:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBool, Bool: true, Pos: p.span(start)}, nil

	case token.FALSE:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &ast.Literal{Kind: ast.LitBool, Bool: false, Pos: p.span(start)}, nil

	case token.STRING:
		return p.parseStringOrTemplate()

	case token.IDENT:
		name := p.tok.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.at(token.LPAREN) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &ast.Call{Callee: name, Args: args, Pos: p.span(start)}, nil
		}
		return &ast.Variable{Name: name, Pos: p.span(start)}, nil

	default:
		return nil, perrors.NewUnexpectedToken(p.tok.Start, "expression", p.tok.Kind.String())
	}
}

func (p *parser) parseCallArgs() ([]ast.Expression, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.at(token.RPAREN) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.at(token.COMMA) {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

// parseStringOrTemplate splits a scanned STRING token's raw text into
// literal runs and `{expr}` fragments, recursively parsing each fragment
// with its own lexer/parser instance (spec.md §3.1 Template).
func (p *parser) parseStringOrTemplate() (ast.Expression, error) {
	start := p.tok.Start
	raw := p.tok.Text // includes surrounding quotes
	if err := p.next(); err != nil {
		return nil, err
	}
	inner := raw[1 : len(raw)-1]

	var parts []ast.TemplatePart
	var lit []byte
	i := 0
	for i < len(inner) {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			lit = append(lit, inner[i+1])
			i += 2
			continue
		}
		if c == '{' {
			depth := 1
			j := i + 1
			for j < len(inner) && depth > 0 {
				switch inner[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			fragment := inner[i+1 : j-1]
			if len(lit) > 0 {
				parts = append(parts, ast.TemplatePart{Literal: string(lit)})
				lit = nil
			}
			sub, err := parseSubExpression(fragment, p.path, int(start)+i+1)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ast.TemplatePart{Expr: sub})
			i = j
			continue
		}
		lit = append(lit, c)
		i++
	}
	if len(parts) == 0 {
		return &ast.Literal{Kind: ast.LitString, String: string(lit), Pos: p.span(start)}, nil
	}
	if len(lit) > 0 {
		parts = append(parts, ast.TemplatePart{Literal: string(lit)})
	}
	return &ast.Template{Parts: parts, Pos: p.span(start)}, nil
}

// parseSubExpression parses a `{expr}` template fragment with its own
// lexer so offset accounting for the outer string does not interfere with
// the fragment's own token scanning. NodeIds minted while parsing the
// fragment come from a fresh id generator, not the per-document ordinal
// counter (cheaper than plumbing the outer counter through); fragments
// are small, leaf expressions and do not
// participate in the invariant that ordinals are unique document-wide for
// *declarations* (spec.md §4.2) — NodeIds on expression nodes are not
// addressed by the differ or validator, only Span.ID on Element nodes is.
func parseSubExpression(src, path string, baseOffset int) (ast.Expression, error) {
	lx := lexer.New(src)
	sp := &parser{lex: lx, path: path, newID: ast.NewIdGen(path + "#frag")}
	if err := sp.next(); err != nil {
		return nil, err
	}
	return sp.parseExpression()
}

func (p *parser) spanFrom(start token.Pos) ast.Span {
	return p.span(start)
}

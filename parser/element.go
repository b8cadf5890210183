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
	"unicode"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

// parseElementBlock parses `{ element* }`.
func (p *parser) parseElementBlock() ([]ast.Element, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var els []ast.Element
	for !p.at(token.RBRACE) {
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		els = append(els, el)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return els, nil
}

// parseElement parses one render-position statement (spec.md §6.1).
func (p *parser) parseElement() (ast.Element, error) {
	switch p.tok.Kind {
	case token.TEXT:
		return p.parseText()
	case token.IF:
		return p.parseConditional()
	case token.REPEAT:
		return p.parseRepeat()
	case token.IDENT:
		return p.parseTagOrInstanceOrSlot()
	default:
		return nil, perrors.NewUnexpectedToken(p.tok.Start, "render element", p.tok.Kind.String())
	}
}

func (p *parser) parseText() (*ast.Text, error) {
	start := p.tok.Start
	if err := p.next(); err != nil { // consume `text`
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Text{Content: expr, Pos: p.span(start)}, nil
}

func (p *parser) parseConditional() (*ast.Conditional, error) {
	start := p.tok.Start
	if err := p.next(); err != nil { // consume `if`
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	thenBranch, err := p.parseElementBlock()
	if err != nil {
		return nil, err
	}
	elseBranch := []ast.Element{}
	if p.at(token.ELSE) {
		if err := p.next(); err != nil {
			return nil, err
		}
		elseBranch, err = p.parseElementBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.Conditional{Condition: cond, ThenBranch: thenBranch, ElseBranch: elseBranch, Pos: p.span(start)}, nil
}

func (p *parser) parseRepeat() (*ast.Repeat, error) {
	start := p.tok.Start
	if err := p.next(); err != nil { // consume `repeat`
		return nil, err
	}
	item, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	coll, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseElementBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Repeat{ItemName: item.Text, Collection: coll, Body: body, Pos: p.span(start)}, nil
}

// parseTagOrInstanceOrSlot disambiguates the three identifier-led render
// forms (spec.md §3.1 invariant): a bare identifier with no following `(`
// or `{` is a SlotInsert; otherwise it is a Tag or an Instance depending
// on the identifier's first letter case, matching every capitalized
// component name and lowercase tag name in spec.md's worked examples
// (S1-S6: `div`, `span`, `button` vs. `Hello`, `Card`, `App`, `A`, `Root`).
// The identifier may be dotted (`alias.Name`), reaching a component
// declared public in one of fromPath's imports (spec.md §3.2, §4.3).
func (p *parser) parseTagOrInstanceOrSlot() (ast.Element, error) {
	start := p.tok.Start
	name := p.tok.Text
	if err := p.next(); err != nil {
		return nil, err
	}
	for p.at(token.PERIOD) {
		if err := p.next(); err != nil {
			return nil, err
		}
		seg, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		name += "." + seg.Text
	}

	if !p.at(token.LPAREN) && !p.at(token.LBRACE) {
		return &ast.SlotInsert{Name: name, Pos: p.span(start)}, nil
	}

	isInstance := isUpper(lastSegment(name))

	var args *ast.OrderedMap
	if p.at(token.LPAREN) {
		var err error
		args, err = p.parseArgList()
		if err != nil {
			return nil, err
		}
	} else {
		args = ast.NewOrderedMap()
	}

	var children []ast.Element
	var styles *ast.OrderedMap
	if p.at(token.LBRACE) {
		var err error
		children, styles, err = p.parseElementBodyWithStyles()
		if err != nil {
			return nil, err
		}
	}

	if isInstance {
		return &ast.Instance{Name: name, Props: args, Children: children, Pos: p.span(start)}, nil
	}
	if styles == nil {
		styles = ast.NewOrderedMap()
	}
	return &ast.Tag{Name: name, Attributes: args, Styles: styles, Children: children, Pos: p.span(start)}, nil
}

func isUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// lastSegment returns the portion of a dotted identifier after its
// final `.`, or name itself if it carries no qualifier.
func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// parseArgList parses `(name=expr, …)` for both Tag attributes and
// Instance props; they share the same grammar.
func (p *parser) parseArgList() (*ast.OrderedMap, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	m := ast.NewOrderedMap()
	for !p.at(token.RPAREN) {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		m.Set(name.Text, val)
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
	return m, nil
}

// parseElementBodyWithStyles parses a Tag/Instance body block, which may
// interleave render-element children with a nested `style { … }` block
// (spec.md §6.1).
func (p *parser) parseElementBodyWithStyles() ([]ast.Element, *ast.OrderedMap, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, nil, err
	}
	var children []ast.Element
	var styles *ast.OrderedMap
	for !p.at(token.RBRACE) {
		if p.at(token.STYLE) {
			decl, err := p.parseStyleDecl(false)
			if err != nil {
				return nil, nil, err
			}
			if styles == nil {
				styles = ast.NewOrderedMap()
			}
			decl.Properties.Each(func(k string, v any) {
				styles.Set(k, &ast.Literal{Kind: ast.LitString, String: v.(string), Pos: decl.Pos})
			})
			continue
		}
		el, err := p.parseElement()
		if err != nil {
			return nil, nil, err
		}
		children = append(children, el)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, nil, err
	}
	return children, styles, nil
}

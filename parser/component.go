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
	"paperclip.dev/core/ast"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

func (p *parser) parseComponent(public bool) (*ast.Component, error) {
	start := p.tok.Start
	if _, err := p.expect(token.COMPONENT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	comp := &ast.Component{Name: name.Text, Public: public}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	for !p.at(token.RBRACE) {
		switch p.tok.Kind {
		case token.VARIANT:
			v, err := p.parseVariant()
			if err != nil {
				return nil, err
			}
			comp.Variants = append(comp.Variants, v)
		case token.SLOT:
			s, err := p.parseSlotDecl()
			if err != nil {
				return nil, err
			}
			comp.Slots = append(comp.Slots, s)
		case token.STYLE:
			s, err := p.parseStyleDecl(false)
			if err != nil {
				return nil, err
			}
			comp.Styles = append(comp.Styles, s)
		case token.RENDER:
			if err := p.next(); err != nil {
				return nil, err
			}
			el, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			comp.Body = el
		default:
			return nil, perrors.NewUnexpectedToken(p.tok.Start, "variant, slot, style or render", p.tok.Kind.String())
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	comp.Pos = p.span(start)
	return comp, nil
}

func (p *parser) parseVariant() (*ast.Variant, error) {
	start := p.tok.Start
	if _, err := p.expect(token.VARIANT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	v := &ast.Variant{Name: name.Text}
	if p.at(token.COLON) {
		if err := p.next(); err != nil {
			return nil, err
		}
		sel, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		v.TriggerSelector = sel.Text
	}
	v.Pos = p.span(start)
	return v, nil
}

func (p *parser) parseSlotDecl() (*ast.SlotDecl, error) {
	start := p.tok.Start
	if _, err := p.expect(token.SLOT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	s := &ast.SlotDecl{Name: name.Text}
	if p.at(token.LBRACE) {
		children, err := p.parseElementBlock()
		if err != nil {
			return nil, err
		}
		s.DefaultContent = children
	}
	s.Pos = p.span(start)
	return s, nil
}

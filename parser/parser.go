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

// Package parser turns a token stream into a Paperclip ast.Document
// (spec.md §4.2). There is no error recovery at this layer: the first
// malformed construct aborts the whole parse with one of the
// perrors.Error kinds documented in spec.md §7.
package parser

import (
	"paperclip.dev/core/ast"
	"paperclip.dev/core/lexer"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

// Parse tokenizes and parses src, anchoring every NodeId to path's CRC32
// as required by spec.md §3.1. This is the `parse(source, path)` consumer
// contract of spec.md §6.2.
func Parse(src, path string) (*ast.Document, error) {
	p := &parser{
		lex:   lexer.New(src),
		path:  path,
		newID: ast.NewIdGen(path),
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseDocument()
}

type parser struct {
	lex   *lexer.Lexer
	path  string
	newID func() ast.NodeId

	tok token.Token
}

func (p *parser) next() error {
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) at(k token.Kind) bool { return p.tok.Kind == k }

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, perrors.NewUnexpectedToken(p.tok.Start, k.String(), p.tok.Kind.String())
	}
	t := p.tok
	if err := p.next(); err != nil {
		return token.Token{}, err
	}
	return t, nil
}

func (p *parser) span(start token.Pos) ast.Span {
	return ast.Span{Start: int(start), End: int(p.tok.Start), ID: p.newID()}
}

func (p *parser) parseDocument() (*ast.Document, error) {
	doc := &ast.Document{Path: p.path}
	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.IMPORT:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			doc.Imports = append(doc.Imports, imp)
		case token.PUBLIC:
			pub, err := p.parsePublicDecl(doc)
			if err != nil {
				return nil, err
			}
			_ = pub
		case token.TOKEN:
			t, err := p.parseTokenDecl(false)
			if err != nil {
				return nil, err
			}
			doc.Tokens = append(doc.Tokens, t)
		case token.STYLE:
			s, err := p.parseStyleDecl(false)
			if err != nil {
				return nil, err
			}
			doc.Styles = append(doc.Styles, s)
		case token.COMPONENT:
			c, err := p.parseComponent(false)
			if err != nil {
				return nil, err
			}
			doc.Components = append(doc.Components, c)
		default:
			return nil, perrors.NewUnexpectedToken(p.tok.Start, "top-level declaration", p.tok.Kind.String())
		}
	}
	return doc, nil
}

// parsePublicDecl consumes the `public` qualifier and dispatches to the
// qualified declaration kind, appending directly onto doc.
func (p *parser) parsePublicDecl(doc *ast.Document) (struct{}, error) {
	if _, err := p.expect(token.PUBLIC); err != nil {
		return struct{}{}, err
	}
	switch p.tok.Kind {
	case token.TOKEN:
		t, err := p.parseTokenDecl(true)
		if err != nil {
			return struct{}{}, err
		}
		doc.Tokens = append(doc.Tokens, t)
	case token.STYLE:
		s, err := p.parseStyleDecl(true)
		if err != nil {
			return struct{}{}, err
		}
		doc.Styles = append(doc.Styles, s)
	case token.COMPONENT:
		c, err := p.parseComponent(true)
		if err != nil {
			return struct{}{}, err
		}
		doc.Components = append(doc.Components, c)
	default:
		return struct{}{}, perrors.NewUnexpectedToken(p.tok.Start, "token, style or component", p.tok.Kind.String())
	}
	return struct{}{}, nil
}

func (p *parser) parseImport() (*ast.Import, error) {
	start := p.tok.Start
	if _, err := p.expect(token.IMPORT); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	sourcePath, err := unquoteSimple(pathTok.Text)
	if err != nil {
		return nil, perrors.NewInvalidSyntax(pathTok.Start, "invalid import path: %v", err)
	}
	alias := ""
	if p.at(token.AS) {
		if err := p.next(); err != nil {
			return nil, err
		}
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		alias = id.Text
	}
	return &ast.Import{SourcePath: sourcePath, Alias: alias, Pos: p.span(start)}, nil
}

func (p *parser) parseTokenDecl(public bool) (*ast.TokenDecl, error) {
	start := p.tok.Start
	if _, err := p.expect(token.TOKEN); err != nil {
		return nil, err
	}
	// Token names may be dashed (spacing-unit), so the name is rescanned as
	// a CSS identifier from the start of the current token.
	p.lex.Seek(int(p.tok.Start))
	name, err := p.lex.ScanCSSIdent()
	if err != nil {
		return nil, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	value, err := p.parseCSSValueLiteral()
	if err != nil {
		return nil, err
	}
	return &ast.TokenDecl{Name: name.Text, Value: value, Public: public, Pos: p.span(start)}, nil
}

// parseCSSValueLiteral reads one line of free-form value text the same way
// a style property's value is read. The lexer has already scanned p.tok, so
// it is rewound to p.tok's first byte before switching to CSS value mode.
func (p *parser) parseCSSValueLiteral() (string, error) {
	p.lex.Seek(int(p.tok.Start))
	p.lex.SetCSSValueMode(true)
	t, err := p.lex.Next()
	p.lex.SetCSSValueMode(false)
	if err != nil {
		return "", err
	}
	if err := p.next(); err != nil {
		return "", err
	}
	return t.Text, nil
}

func (p *parser) parseStyleDecl(public bool) (*ast.StyleDecl, error) {
	start := p.tok.Start
	if _, err := p.expect(token.STYLE); err != nil {
		return nil, err
	}
	name := ""
	if p.at(token.IDENT) {
		name = p.tok.Text
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	var extends []string
	if p.at(token.EXTENDS) {
		if err := p.next(); err != nil {
			return nil, err
		}
		for {
			id, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			extends = append(extends, id.Text)
			if !p.at(token.COMMA) {
				break
			}
			if err := p.next(); err != nil {
				return nil, err
			}
		}
	}
	props, err := p.parseStyleBody()
	if err != nil {
		return nil, err
	}
	return &ast.StyleDecl{Name: name, Properties: props, Extends: extends, Public: public, Pos: p.span(start)}, nil
}

// parseStyleBody parses `{ property: value ... }`, where each property is a
// dashed CSS identifier and each value is free-form CSS text through end of
// line or the closing brace (spec.md §4.1, §4.2).
func (p *parser) parseStyleBody() (*ast.OrderedMap, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	props := ast.NewOrderedMap()
	for !p.at(token.RBRACE) {
		p.lex.Seek(int(p.tok.Start))
		propTok, err := p.lex.ScanCSSIdent()
		if err != nil {
			return nil, err
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseCSSValueLiteral()
		if err != nil {
			return nil, err
		}
		props.Set(propTok.Text, value)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return props, nil
}

func unquoteSimple(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", errInvalidString
	}
	return lit[1 : len(lit)-1], nil
}

var errInvalidString = stringError("malformed string literal")

type stringError string

func (e stringError) Error() string { return string(e) }

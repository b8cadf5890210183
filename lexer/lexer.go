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

// Package lexer tokenizes Paperclip source text (spec.md §4.1). It exposes
// a pull-based Lexer: each call to Next returns the next token, so the
// parser can tokenize lazily without buffering the whole stream up front.
package lexer

import (
	"strings"

	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

// Lexer scans a source buffer into a lazy Token stream.
type Lexer struct {
	src  string
	pos  int // byte offset of the next unread rune
	mode mode
}

// mode tracks scanner context that changes tokenization rules: CSS
// property values are free-form text up to newline or `}` (spec.md §4.1),
// which an ordinary expression scanner would otherwise mis-tokenize.
type mode int

const (
	modeNormal mode = iota
	modeCSSValue
)

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// SetCSSValueMode switches the scanner into (or out of) free-form CSS value
// scanning. The parser turns it on after seeking back to the first byte of
// a style property's or token declaration's value, and off again once the
// value token is read.
func (l *Lexer) SetCSSValueMode(on bool) {
	if on {
		l.mode = modeCSSValue
	} else {
		l.mode = modeNormal
	}
}

// Next returns the next token in the stream, or a token.EOF token at end of
// input. It returns an error for a byte that cannot start any valid token
// (spec.md §4.1's `LexerError { pos, byte }`), for a hex color whose length
// is not 3, 4, 6 or 8 digits, and for an unterminated string (UnexpectedEof).
func (l *Lexer) Next() (token.Token, error) {
	if l.mode == modeCSSValue {
		return l.scanCSSValue()
	}
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Start: token.Pos(start), End: token.Pos(start)}, nil
	}

	c := l.src[l.pos]
	switch {
	case isIdentStart(c):
		return l.scanIdentOrKeyword(start), nil
	case c == '-' && l.pos+1 < len(l.src) && isIdentStart(l.src[l.pos+1]):
		// Dashed CSS identifiers never begin with `-`; a leading `-` here is
		// the binary/unary minus, handled below. Fallthrough intentional.
		return l.scanPunct(start)
	case isDigit(c):
		return l.scanNumber(start), nil
	case c == '"':
		return l.scanString(start)
	case c == '#':
		return l.scanColor(start)
	default:
		return l.scanPunct(start)
	}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.pos++
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDashIdentPart(c byte) bool { return isIdentPart(c) || c == '-' }

func (l *Lexer) scanIdentOrKeyword(start int) token.Token {
	l.pos++
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	// Identifiers stop at the first non-ident-part byte, so `a-b` scans as
	// `a`, `-`, `b` per spec.md's expression grammar. Next never yields
	// CSSIDENT; dashed identifiers (margin-bottom) come only from
	// ScanCSSIdent.
	text := l.src[start:l.pos]
	kind := token.Lookup(text)
	return token.Token{Kind: kind, Text: text, Start: token.Pos(start), End: token.Pos(l.pos)}
}

// ScanCSSIdent is used by the parser when it knows (from grammar position,
// inside a `style { … }` block) that a dashed identifier is expected; it
// greedily consumes letters, digits and dashes.
func (l *Lexer) ScanCSSIdent() (token.Token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) || !isIdentStart(l.src[l.pos]) {
		return token.Token{}, perrors.NewInvalidSyntax(token.Pos(l.pos), "expected CSS property name")
	}
	for l.pos < len(l.src) && isDashIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	return token.Token{Kind: token.CSSIDENT, Text: text, Start: token.Pos(start), End: token.Pos(l.pos)}, nil
}

func (l *Lexer) scanNumber(start int) token.Token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	return token.Token{Kind: token.NUMBER, Text: text, Start: token.Pos(start), End: token.Pos(l.pos)}
}

// scanString scans a double-quoted string literal, preserving `{expr}`
// template fragments verbatim in Text; the parser re-lexes the fragment
// interiors when building a Template expression.
func (l *Lexer) scanString(start int) (token.Token, error) {
	l.pos++ // opening quote
	depth := 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.src):
			l.pos += 2
		case c == '{':
			depth++
			l.pos++
		case c == '}' && depth > 0:
			depth--
			l.pos++
		case c == '"' && depth == 0:
			l.pos++
			text := l.src[start:l.pos]
			return token.Token{Kind: token.STRING, Text: text, Start: token.Pos(start), End: token.Pos(l.pos)}, nil
		default:
			l.pos++
		}
	}
	return token.Token{}, perrors.NewUnexpectedEof(token.Pos(l.pos))
}

func (l *Lexer) scanColor(start int) (token.Token, error) {
	l.pos++ // '#'
	for l.pos < len(l.src) && isHex(l.src[l.pos]) {
		l.pos++
	}
	n := l.pos - start - 1
	if n != 3 && n != 4 && n != 6 && n != 8 {
		return token.Token{}, perrors.NewLexerError(token.Pos(start), '#')
	}
	text := l.src[start:l.pos]
	return token.Token{Kind: token.COLOR, Text: text, Start: token.Pos(start), End: token.Pos(l.pos)}, nil
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

var twoCharPunct = map[string]token.Kind{
	"==": token.EQ,
	"!=": token.NEQ,
	"&&": token.AND,
	"||": token.OR,
}

var oneCharPunct = map[byte]token.Kind{
	'{': token.LBRACE, '}': token.RBRACE,
	'(': token.LPAREN, ')': token.RPAREN,
	':': token.COLON, '=': token.ASSIGN,
	'.': token.PERIOD, ',': token.COMMA,
	'+': token.PLUS, '-': token.MINUS,
	'*': token.STAR, '/': token.SLASH,
	'<': token.LT, '>': token.GT,
	'!': token.NOT,
}

func (l *Lexer) scanPunct(start int) (token.Token, error) {
	if l.pos+1 < len(l.src) {
		if k, ok := twoCharPunct[l.src[l.pos:l.pos+2]]; ok {
			l.pos += 2
			return token.Token{Kind: k, Text: l.src[start:l.pos], Start: token.Pos(start), End: token.Pos(l.pos)}, nil
		}
	}
	c := l.src[l.pos]
	k, ok := oneCharPunct[c]
	if !ok {
		return token.Token{}, perrors.NewLexerError(token.Pos(start), c)
	}
	l.pos++
	return token.Token{Kind: k, Text: l.src[start:l.pos], Start: token.Pos(start), End: token.Pos(l.pos)}, nil
}

// scanCSSValue consumes free-form CSS value text through end of line or an
// unescaped `}` (spec.md §4.1), returning it as a single CSSVALUE token. A
// `{token-name}` placeholder's own braces are tracked by depth so the brace
// that closes the style block is never confused with the brace that closes
// a placeholder sitting at the end of the line.
func (l *Lexer) scanCSSValue() (token.Token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
	start := l.pos
	depth := 0
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			break
		}
		if c == '{' {
			depth++
			l.pos++
			continue
		}
		if c == '}' {
			if depth == 0 {
				break
			}
			depth--
			l.pos++
			continue
		}
		l.pos++
	}
	text := strings.TrimRight(l.src[start:l.pos], " \t\r")
	return token.Token{Kind: token.CSSVALUE, Text: text, Start: token.Pos(start), End: token.Pos(start + len(text))}, nil
}

// Pos returns the current scan offset.
func (l *Lexer) Pos() int { return l.pos }

// Seek resets the scan offset and leaves CSS value mode. The parser uses it
// to rescan its current lookahead token as a CSS identifier or value.
func (l *Lexer) Seek(pos int) { l.pos = pos; l.mode = modeNormal }

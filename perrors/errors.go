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

// Package perrors is the error taxonomy shared by every Paperclip core
// stage (spec.md §7). Lex/parse/bundle errors are fatal and satisfy the
// standard `error` interface; evaluator failures are non-fatal and are
// reported as Diagnostics alongside a VDOM that still contains inline
// Error nodes (spec.md §6.5).
package perrors

import (
	"fmt"

	"github.com/pkg/errors"
	"paperclip.dev/core/token"
)

// Kind discriminates the fatal error taxonomy of spec.md §7.
type Kind int

const (
	// Lexer/parser errors (fatal per file).
	LexerError Kind = iota
	UnexpectedToken
	UnexpectedEof
	InvalidSyntax

	// Bundle errors.
	ImportNotFound
	CyclicImport
	DuplicateAlias
)

func (k Kind) String() string {
	switch k {
	case LexerError:
		return "LexerError"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEof:
		return "UnexpectedEof"
	case InvalidSyntax:
		return "InvalidSyntax"
	case ImportNotFound:
		return "ImportNotFound"
	case CyclicImport:
		return "CyclicImport"
	case DuplicateAlias:
		return "DuplicateAlias"
	}
	return "Unknown"
}

// Error is a fatal error produced by the lexer, parser or bundle resolver.
// It always carries the byte position at which the failure was detected.
type Error struct {
	Kind Kind
	Pos  token.Pos
	// Expected/Found are set for UnexpectedToken.
	Expected string
	Found    string
	// Message carries free-form detail for InvalidSyntax and bundle errors.
	Message string
	// Ring lists the offending import cycle for CyclicImport, path-ordered.
	Ring []string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("%s at %d: expected %s, found %s", e.Kind, e.Pos, e.Expected, e.Found)
	case CyclicImport:
		return fmt.Sprintf("%s: %s", e.Kind, ringString(e.Ring))
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s at %d: %s", e.Kind, e.Pos, e.Message)
		}
		return fmt.Sprintf("%s at %d", e.Kind, e.Pos)
	}
}

func ringString(ring []string) string {
	s := ""
	for i, p := range ring {
		if i > 0 {
			s += " -> "
		}
		s += p
	}
	return s
}

// NewUnexpectedToken reports a parser error where `expected` was required
// but `found` was scanned instead.
func NewUnexpectedToken(pos token.Pos, expected, found string) *Error {
	return &Error{Kind: UnexpectedToken, Pos: pos, Expected: expected, Found: found}
}

// NewUnexpectedEof reports that the token stream ended mid-construct.
func NewUnexpectedEof(pos token.Pos) *Error {
	return &Error{Kind: UnexpectedEof, Pos: pos}
}

// NewInvalidSyntax reports a grammar violation that isn't a simple
// token mismatch (e.g. an ambiguous slot/instance parse).
func NewInvalidSyntax(pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: InvalidSyntax, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// NewLexerError reports a failure while scanning a single byte.
func NewLexerError(pos token.Pos, b byte) *Error {
	return &Error{Kind: LexerError, Pos: pos, Message: fmt.Sprintf("unexpected byte 0x%02x", b)}
}

// NewImportNotFound reports that a document's import target could not be
// resolved or loaded. When cause is non-nil, its text is folded into
// Message with github.com/pkg/errors' Wrapf; the cause itself is not kept
// on the Error, so errors.Cause and errors.Is do not reach it.
func NewImportNotFound(pos token.Pos, importPath string, cause error) *Error {
	msg := importPath
	if cause != nil {
		msg = errors.Wrapf(cause, "import %q", importPath).Error()
	}
	return &Error{Kind: ImportNotFound, Pos: pos, Message: msg}
}

// NewCyclicImport reports a cycle detected during bundle resolution. ring
// lists the canonical paths that form the cycle, in traversal order.
func NewCyclicImport(pos token.Pos, ring []string) *Error {
	return &Error{Kind: CyclicImport, Pos: pos, Ring: ring}
}

// NewDuplicateAlias reports that an import alias collides with another
// binding already declared in the same document.
func NewDuplicateAlias(pos token.Pos, alias string) *Error {
	return &Error{Kind: DuplicateAlias, Pos: pos, Message: fmt.Sprintf("alias %q already declared", alias)}
}

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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperclip.dev/core/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestNextBasicTokens(t *testing.T) {
	testCases := []struct {
		in   string
		want []token.Kind
	}{
		{"component Card { }", []token.Kind{token.COMPONENT, token.IDENT, token.LBRACE, token.RBRACE, token.EOF}},
		{"a == b", []token.Kind{token.IDENT, token.EQ, token.IDENT, token.EOF}},
		{"a != b && c", []token.Kind{token.IDENT, token.NEQ, token.IDENT, token.AND, token.IDENT, token.EOF}},
		{"1 + 2.5", []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}},
		{`"hi {name}"`, []token.Kind{token.STRING, token.EOF}},
		{"#ff00aa", []token.Kind{token.COLOR, token.EOF}},
		{"// a comment\ntrue", []token.Kind{token.TRUE, token.EOF}},
	}
	for _, tc := range testCases {
		toks := scanAll(t, tc.in)
		got := make([]token.Kind, len(toks))
		for i, tok := range toks {
			got[i] = tok.Kind
		}
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestKeywordsLexAsKeywordKind(t *testing.T) {
	for word, kind := range map[string]token.Kind{
		"component": token.COMPONENT,
		"style":     token.STYLE,
		"repeat":    token.REPEAT,
		"slot":      token.SLOT,
	} {
		toks := scanAll(t, word)
		require.Len(t, toks, 2)
		assert.Equal(t, kind, toks[0].Kind)
	}
}

func TestStringTokenPreservesTemplateBraces(t *testing.T) {
	toks := scanAll(t, `"hello {user.name}!"`)
	require.Len(t, toks, 2)
	assert.Equal(t, `"hello {user.name}!"`, toks[0].Text)
}

func TestInvalidColorLengthIsLexerError(t *testing.T) {
	l := New("#ff")
	_, err := l.Next()
	require.Error(t, err)
}

func TestUnterminatedStringIsUnexpectedEof(t *testing.T) {
	l := New(`"never closes`)
	_, err := l.Next()
	require.Error(t, err)
}

func TestCSSValueModeStopsAtNewlineOrBrace(t *testing.T) {
	l := New("  10px solid red }")
	l.SetCSSValueMode(true)
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.CSSVALUE, tok.Kind)
	assert.Equal(t, "10px solid red", tok.Text)
}

func TestCSSValueModePreservesTokenPlaceholderBraces(t *testing.T) {
	l := New("{spacing}\n\t}")
	l.SetCSSValueMode(true)
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.CSSVALUE, tok.Kind, "the placeholder's own closing brace must not be mistaken for the style block's")
	assert.Equal(t, "{spacing}", tok.Text)
}

func TestScanCSSIdentAllowsDashes(t *testing.T) {
	l := New("margin-bottom: 4px")
	tok, err := l.ScanCSSIdent()
	require.NoError(t, err)
	assert.Equal(t, "margin-bottom", tok.Text)
}

func TestSeekResetsModeToNormal(t *testing.T) {
	l := New("abc")
	l.SetCSSValueMode(true)
	l.Seek(0)
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, tok.Kind)
}

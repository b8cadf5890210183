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

package perrors

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperclip.dev/core/token"
)

func TestUnexpectedTokenMessage(t *testing.T) {
	err := NewUnexpectedToken(12, "IDENT", "}")
	assert.Equal(t, "UnexpectedToken at 12: expected IDENT, found }", err.Error())
}

func TestCyclicImportMessage(t *testing.T) {
	err := NewCyclicImport(0, []string{"a.pc", "b.pc", "a.pc"})
	assert.Equal(t, "CyclicImport: a.pc -> b.pc -> a.pc", err.Error())
}

func TestImportNotFoundMessageIncludesCause(t *testing.T) {
	cause := errors.New("file not found")
	err := NewImportNotFound(token.NoPos, "./missing.pc", cause)
	assert.Contains(t, err.Message, "file not found")
	assert.Contains(t, err.Message, "./missing.pc")
}

func TestListAccumulatesAndReportsErrors(t *testing.T) {
	var l List
	assert.False(t, l.HasErrors())

	l.Warnf(AutoKeyWarning, 0, "auto key generated for item %d", 3)
	assert.False(t, l.HasErrors(), "a warning alone must not count as an error")

	l.Addf(UndefinedVariable, 5, "undefined variable %q", "x")
	require.True(t, l.HasErrors())
	require.Len(t, l.Diagnostics(), 2)
	assert.Equal(t, SeverityWarning, l.Diagnostics()[0].Severity)
	assert.Equal(t, SeverityError, l.Diagnostics()[1].Severity)
	assert.Equal(t, `undefined variable "x"`, l.Diagnostics()[1].Message)
}

func TestNilListDiagnosticsReturnsEmpty(t *testing.T) {
	var l *List
	assert.Empty(t, l.Diagnostics())
}

func TestPkgErrorsWrapfPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := pkgerrors.Wrapf(cause, "loading %s", "x.pc")
	assert.Equal(t, cause, pkgerrors.Cause(wrapped))
}

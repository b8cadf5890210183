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
	"fmt"

	"paperclip.dev/core/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagKind enumerates the evaluator-non-fatal and validator diagnostics of
// spec.md §7 and §4.5.
type DiagKind string

const (
	UndefinedVariable        DiagKind = "UndefinedVariable"
	InvalidMemberAccess      DiagKind = "InvalidMemberAccess"
	InvalidBinaryOp          DiagKind = "InvalidBinaryOp"
	DivisionByZero           DiagKind = "DivisionByZero"
	InvalidRepeatCollection  DiagKind = "InvalidRepeatCollection"
	UnknownSlot              DiagKind = "UnknownSlot"
	DuplicateRepeatKey       DiagKind = "DuplicateRepeatKey"
	UnknownComponent         DiagKind = "UnknownComponent"
	CircularComponentDependency DiagKind = "CircularComponentDependency"
	RepeatCollectionTypeError  DiagKind = "RepeatCollectionTypeError"
	SlotOutsideComponent     DiagKind = "SlotOutsideComponent"
	InvalidCall              DiagKind = "InvalidCall"

	// Validator-only (dev mode), spec.md §4.5.
	DuplicateSemanticID  DiagKind = "DuplicateSemanticId"
	DuplicateKeyWarning  DiagKind = "DuplicateRepeatKeyWarning"
	AutoKeyWarning       DiagKind = "AutoGeneratedKeyWarning"
	MissingInstanceKey   DiagKind = "MissingInstanceKeyWarning"
)

// Diagnostic is a non-fatal problem surfaced alongside a VDocument
// (spec.md §6.2's `Vec<Diagnostic>`). Unlike Error, a Diagnostic never
// aborts evaluation: the tree it was raised against still renders, usually
// with an inline Error VNode at the same position.
type Diagnostic struct {
	Kind     DiagKind
	Severity Severity
	Message  string
	Pos      token.Pos
	HasPos   bool
}

func (d Diagnostic) Error() string { return d.Message }

// New builds an error-severity Diagnostic positioned at pos.
func New(kind DiagKind, pos token.Pos, format string, args ...any) Diagnostic {
	return newDiag(kind, SeverityError, pos, true, format, args...)
}

// NewWarning builds a warning-severity Diagnostic positioned at pos.
func NewWarning(kind DiagKind, pos token.Pos, format string, args ...any) Diagnostic {
	return newDiag(kind, SeverityWarning, pos, true, format, args...)
}

func newDiag(kind DiagKind, sev Severity, pos token.Pos, hasPos bool, format string, args ...any) Diagnostic {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Diagnostic{Kind: kind, Severity: sev, Message: msg, Pos: pos, HasPos: hasPos}
}

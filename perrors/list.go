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

import "paperclip.dev/core/token"

// List accumulates Diagnostics across an evaluation or validation pass.
// It mirrors the accumulate-then-append idiom used throughout the
// teacher's compiler (`c.errs = errors.Append(c.errs, err)` in
// internal/core/compile/compile.go), adapted to the non-fatal Diagnostic
// model of spec.md §6.2/§6.5: nothing in this package ever aborts a
// traversal, it only collects what to report alongside the result.
type List struct {
	diags []Diagnostic
}

// Add appends d to the list.
func (l *List) Add(d Diagnostic) { l.diags = append(l.diags, d) }

// Addf is a convenience wrapper around New + Add.
func (l *List) Addf(kind DiagKind, pos token.Pos, format string, args ...any) {
	l.Add(New(kind, pos, format, args...))
}

// Warnf is a convenience wrapper around NewWarning + Add.
func (l *List) Warnf(kind DiagKind, pos token.Pos, format string, args ...any) {
	l.Add(NewWarning(kind, pos, format, args...))
}

// Diagnostics returns the accumulated diagnostics in insertion order.
func (l *List) Diagnostics() []Diagnostic {
	if l == nil {
		return nil
	}
	return l.diags
}

// HasErrors reports whether any accumulated diagnostic is error-severity.
func (l *List) HasErrors() bool {
	for _, d := range l.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

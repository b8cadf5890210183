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

// Package builtins registers the small set of functions a Call expression
// may invoke (spec.md §4.4.1's Call case). The registration table mirrors
// the teacher's pkg/list and pkg/math pattern of a name-to-function map
// looked up by the evaluator, generalized from CUE's builtin-package
// registry down to a single flat namespace since Paperclip expressions
// have no import-qualified builtin packages.
package builtins

import (
	"strings"

	"paperclip.dev/core/internal/core/value"
)

// Func is a builtin callable. It receives already-evaluated arguments and
// returns a Value or an error describing why the call is invalid (wrong
// arity, wrong argument kind). The evaluator turns a returned error into a
// perrors.Diagnostic of kind InvalidCall.
type Func func(args []value.Value) (value.Value, error)

var registry = map[string]Func{
	"upper":   upper,
	"lower":   lower,
	"trim":    trim,
	"concat":  concat,
	"length":  length,
	"join":    join,
	"contains": contains,
}

// Lookup returns the builtin registered under name, if any.
func Lookup(name string) (Func, bool) {
	f, ok := registry[name]
	return f, ok
}

func argError(name string, want int, got int) error {
	return &arityError{name: name, want: want, got: got}
}

type arityError struct {
	name     string
	want     int
	got      int
}

func (e *arityError) Error() string {
	return "builtin " + e.name + " expects " + itoa(e.want) + " argument(s), got " + itoa(e.got)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func upper(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, argError("upper", 1, len(args))
	}
	return value.String(strings.ToUpper(value.ToDisplayString(args[0]))), nil
}

func lower(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, argError("lower", 1, len(args))
	}
	return value.String(strings.ToLower(value.ToDisplayString(args[0]))), nil
}

func trim(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, argError("trim", 1, len(args))
	}
	return value.String(strings.TrimSpace(value.ToDisplayString(args[0]))), nil
}

func concat(args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(value.ToDisplayString(a))
	}
	return value.String(sb.String()), nil
}

func length(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, argError("length", 1, len(args))
	}
	switch v := args[0].(type) {
	case value.String:
		return value.Number(len([]rune(string(v)))), nil
	case value.Array:
		return value.Number(len(v)), nil
	default:
		return value.Number(0), nil
	}
}

func join(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, argError("join", 2, len(args))
	}
	arr, ok := args[0].(value.Array)
	if !ok {
		return value.String(""), nil
	}
	sep := value.ToDisplayString(args[1])
	parts := make([]string, len(arr))
	for i, v := range arr {
		parts[i] = value.ToDisplayString(v)
	}
	return value.String(strings.Join(parts, sep)), nil
}

func contains(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return nil, argError("contains", 2, len(args))
	}
	return value.Bool(strings.Contains(value.ToDisplayString(args[0]), value.ToDisplayString(args[1]))), nil
}

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

package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperclip.dev/core/perrors"
)

func loaderFor(files map[string]string) Loader {
	return func(p string) (string, error) {
		src, ok := files[p]
		if !ok {
			return "", assertNotFoundErr{p}
		}
		return src, nil
	}
}

type assertNotFoundErr struct{ path string }

func (e assertNotFoundErr) Error() string { return "no such file: " + e.path }

func TestResolveOrdersDocumentsDependencyFirst(t *testing.T) {
	files := map[string]string{
		"/entry.pc": `
import "./tokens.pc" as tok
public component App {
	render div { text "x" }
}`,
		"/tokens.pc": `
public token spacing 8px
`,
	}
	b, err := Resolve("/entry.pc", loaderFor(files))
	require.NoError(t, err)
	assert.Equal(t, "/entry.pc", b.EntryPath())
	assert.Equal(t, []string{"/tokens.pc", "/entry.pc"}, b.order)
}

func TestResolveDetectsCycle(t *testing.T) {
	files := map[string]string{
		"/a.pc": `import "./b.pc" as b
public component A { render div { text "a" } }`,
		"/b.pc": `import "./a.pc" as a
public component B { render div { text "b" } }`,
	}
	_, err := Resolve("/a.pc", loaderFor(files))
	require.Error(t, err)
	perr, ok := err.(*perrors.Error)
	require.True(t, ok)
	assert.Equal(t, perrors.CyclicImport, perr.Kind)
}

func TestResolveDetectsDuplicateAlias(t *testing.T) {
	files := map[string]string{
		"/entry.pc": `
import "./a.pc" as shared
import "./b.pc" as shared
public component App { render div { text "x" } }`,
		"/a.pc": `public token x 1px`,
		"/b.pc": `public token y 2px`,
	}
	_, err := Resolve("/entry.pc", loaderFor(files))
	require.Error(t, err)
	perr, ok := err.(*perrors.Error)
	require.True(t, ok)
	assert.Equal(t, perrors.DuplicateAlias, perr.Kind)
}

func TestResolveWrapsLoaderErrorAsImportNotFound(t *testing.T) {
	files := map[string]string{
		"/entry.pc": `import "./missing.pc" as m
public component App { render div { text "x" } }`,
	}
	_, err := Resolve("/entry.pc", loaderFor(files))
	require.Error(t, err)
	perr, ok := err.(*perrors.Error)
	require.True(t, ok)
	assert.Equal(t, perrors.ImportNotFound, perr.Kind)
}

func TestFindComponentOnlyResolvesPublicAcrossDocuments(t *testing.T) {
	files := map[string]string{
		"/entry.pc": `
import "./lib.pc" as lib
public component App { render div { text "x" } }`,
		"/lib.pc": `
public component Public { render div { text "p" } }
component Private { render div { text "q" } }`,
	}
	b, err := Resolve("/entry.pc", loaderFor(files))
	require.NoError(t, err)

	_, _, ok := b.FindComponent("/entry.pc", "lib.Public")
	assert.True(t, ok)
	_, _, ok = b.FindComponent("/entry.pc", "lib.Private")
	assert.False(t, ok, "non-public components must not resolve across a document boundary")
}

func TestFindComponentLocalLookupIgnoresPublicFlag(t *testing.T) {
	files := map[string]string{
		"/entry.pc": `
component Helper { render div { text "h" } }
public component App { render div { text "x" } }`,
	}
	b, err := Resolve("/entry.pc", loaderFor(files))
	require.NoError(t, err)
	_, _, ok := b.FindComponent("/entry.pc", "Helper")
	assert.True(t, ok, "same-document lookup does not require public")
}

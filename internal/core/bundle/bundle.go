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

// Package bundle resolves a Document's import graph into a Bundle: every
// transitively imported document, parsed, alias-scoped and ordered so that
// a document always appears after everything it depends on (spec.md §4.3).
package bundle

import (
	"path"
	"sort"

	"github.com/mpvl/unique"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/xerrors"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/parser"
	"paperclip.dev/core/perrors"
	"paperclip.dev/core/token"
)

var errEntryNotRegistered = xerrors.New("entry document missing from resolved set")

// Loader reads the source text for a canonical document path. The bundle
// package has no opinion on storage: callers supply an in-memory map, a
// filesystem reader, or a network fetcher.
type Loader func(canonicalPath string) (src string, err error)

// Bundle is the fully resolved, cycle-free set of documents reachable from
// an entry document, in dependency order (leaves first).
type Bundle struct {
	entry     string
	documents map[string]*ast.Document
	order     []string // canonical paths, dependency-first
	aliases   map[string]map[string]string // doc path -> alias -> imported doc path
}

// Resolve parses entryPath and every document it transitively imports,
// using load to fetch source text. Import paths are canonicalized with
// Unicode NFC normalization before being used as map keys or compared for
// cycles, so visually identical paths encoded with different combining
// sequences are treated as the same document (spec.md §4.3).
func Resolve(entryPath string, load Loader) (*Bundle, error) {
	r := &resolver{
		load:      load,
		documents: map[string]*ast.Document{},
		aliases:   map[string]map[string]string{},
		onStack:   map[string]bool{},
	}
	canon := canonicalize(entryPath)
	if err := r.visit(canon, token.NoPos); err != nil {
		return nil, err
	}
	if _, ok := r.documents[canon]; !ok {
		// Invariant: visit always parses and registers its own path
		// before recursing into imports. Reaching here means that
		// invariant broke, not a document-authoring mistake, so it is
		// wrapped with xerrors the way internal/core/compile wraps its
		// own compiler invariants rather than reported as a perrors.Error.
		return nil, xerrors.Errorf("bundle: resolver invariant violated for %q: %w", canon, errEntryNotRegistered)
	}
	return &Bundle{
		entry:     canon,
		documents: r.documents,
		order:     r.order,
		aliases:   r.aliases,
	}, nil
}

// canonicalize applies Unicode NFC normalization and path.Clean so two
// import specs that denote the same document always produce the same key.
func canonicalize(p string) string {
	return path.Clean(norm.NFC.String(p))
}

type resolver struct {
	load      Loader
	documents map[string]*ast.Document
	order     []string
	aliases   map[string]map[string]string

	onStack map[string]bool // cycle detection, per spec.md §4.3
	stack   []string
}

// visit parses doc at canonical path p (if not already parsed), pushing it
// onto the traversal stack for cycle detection, then recurses into each of
// its imports before appending p to the dependency-ordered list. This is
// the same push-before-recurse / pop-after discipline as the teacher's
// loader.stk.Push/Pop guard around importPkg.
func (r *resolver) visit(p string, at token.Pos) error {
	if r.onStack[p] {
		ring := append(append([]string{}, r.stack...), p)
		return perrors.NewCyclicImport(at, ring)
	}
	if _, ok := r.documents[p]; ok {
		return nil // already resolved, dependency order preserved
	}

	r.onStack[p] = true
	r.stack = append(r.stack, p)
	defer func() {
		r.onStack[p] = false
		r.stack = r.stack[:len(r.stack)-1]
	}()

	src, err := r.load(p)
	if err != nil {
		return perrors.NewImportNotFound(at, p, err)
	}
	doc, err := parser.Parse(src, p)
	if err != nil {
		return err
	}
	r.documents[p] = doc

	type importAlias struct {
		alias  string
		target string
		pos    token.Pos
	}
	resolved := make([]importAlias, len(doc.Imports))
	names := make([]string, len(doc.Imports))
	for i, imp := range doc.Imports {
		target := canonicalize(path.Join(path.Dir(p), imp.SourcePath))
		if path.IsAbs(imp.SourcePath) {
			target = canonicalize(imp.SourcePath)
		}
		alias := imp.Alias
		if !imp.HasAlias() {
			alias = path.Base(imp.SourcePath)
			alias = trimExt(alias)
		}
		resolved[i] = importAlias{alias: alias, target: target, pos: token.Pos(imp.Pos.Start)}
		names[i] = alias
	}

	// A fast duplicate check before the O(n) reporting pass below, the same
	// sort-then-collapse shape internal/core/validate uses for duplicate
	// SemanticIds: only worth the second pass once unique.Strings proves a
	// collision actually exists.
	deduped := append([]string{}, names...)
	unique.Strings(&deduped)
	if len(deduped) != len(names) {
		seen := map[string]bool{}
		for _, ia := range resolved {
			if seen[ia.alias] {
				return perrors.NewDuplicateAlias(ia.pos, ia.alias)
			}
			seen[ia.alias] = true
		}
	}

	aliasMap := map[string]string{}
	for _, ia := range resolved {
		aliasMap[ia.alias] = ia.target
		if err := r.visit(ia.target, ia.pos); err != nil {
			return err
		}
	}
	r.aliases[p] = aliasMap

	r.order = append(r.order, p)
	return nil
}

func trimExt(name string) string {
	ext := path.Ext(name)
	return name[:len(name)-len(ext)]
}

// Entry returns the parsed document the Bundle was resolved from.
func (b *Bundle) Entry() *ast.Document { return b.documents[b.entry] }

// EntryPath returns the canonical path of the entry document.
func (b *Bundle) EntryPath() string { return b.entry }

// Document returns the parsed document at canonical path p, or nil.
func (b *Bundle) Document(p string) *ast.Document { return b.documents[canonicalize(p)] }

// IterInDepOrder calls fn for every document in the bundle, leaves (no
// imports) first, so that resolving a component/style/token reference
// never needs a forward pointer into a not-yet-visited document.
func (b *Bundle) IterInDepOrder(fn func(path string, doc *ast.Document)) {
	for _, p := range b.order {
		fn(p, b.documents[p])
	}
}

// resolveAlias looks up the canonical path that alias refers to from the
// perspective of the document at fromPath.
func (b *Bundle) resolveAlias(fromPath, alias string) (string, bool) {
	m, ok := b.aliases[canonicalize(fromPath)]
	if !ok {
		return "", false
	}
	p, ok := m[alias]
	return p, ok
}

// FindComponent resolves name to a component declaration, searching
// fromPath's own document first and then, if name carries an
// `alias.Name` qualifier, the aliased document (spec.md §4.3). Only
// components declared `public` are visible across a document boundary.
func (b *Bundle) FindComponent(fromPath, qualifiedName string) (*ast.Component, string, bool) {
	return b.find(fromPath, qualifiedName, func(d *ast.Document, name string) (ast.Node, bool) {
		c := d.Component(name)
		if c == nil {
			return nil, false
		}
		return c, true
	}, func(n ast.Node) bool { return n.(*ast.Component).Public })
}

// FindStyle resolves name to a style declaration, same scoping rule as
// FindComponent.
func (b *Bundle) FindStyle(fromPath, qualifiedName string) (*ast.StyleDecl, string, bool) {
	c, p, ok := b.find(fromPath, qualifiedName, func(d *ast.Document, name string) (ast.Node, bool) {
		s := d.Style(name)
		if s == nil {
			return nil, false
		}
		return s, true
	}, func(n ast.Node) bool { return n.(*ast.StyleDecl).Public })
	if !ok {
		return nil, "", false
	}
	return c.(*ast.StyleDecl), p, true
}

// FindToken resolves name to a token declaration, same scoping rule as
// FindComponent.
func (b *Bundle) FindToken(fromPath, qualifiedName string) (*ast.TokenDecl, string, bool) {
	c, p, ok := b.find(fromPath, qualifiedName, func(d *ast.Document, name string) (ast.Node, bool) {
		t := d.Token(name)
		if t == nil {
			return nil, false
		}
		return t, true
	}, func(n ast.Node) bool { return n.(*ast.TokenDecl).Public })
	if !ok {
		return nil, "", false
	}
	return c.(*ast.TokenDecl), p, true
}

func (b *Bundle) find(
	fromPath, qualifiedName string,
	lookup func(*ast.Document, string) (ast.Node, bool),
	isPublic func(ast.Node) bool,
) (ast.Node, string, bool) {
	fromPath = canonicalize(fromPath)
	alias, local, qualified := splitQualified(qualifiedName)
	if !qualified {
		if d := b.documents[fromPath]; d != nil {
			if n, ok := lookup(d, local); ok {
				return n, fromPath, true
			}
		}
		return nil, "", false
	}
	target, ok := b.resolveAlias(fromPath, alias)
	if !ok {
		return nil, "", false
	}
	d := b.documents[target]
	if d == nil {
		return nil, "", false
	}
	n, ok := lookup(d, local)
	if !ok || !isPublic(n) {
		return nil, "", false
	}
	return n, target, true
}

func splitQualified(name string) (alias, local string, qualified bool) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:], true
		}
	}
	return "", name, false
}

// sortedPaths lists the bundle's document paths in lexical order, a
// deterministic order distinct from dependency order. Nothing in the
// module calls it at present.
func (b *Bundle) sortedPaths() []string {
	paths := make([]string, 0, len(b.documents))
	for p := range b.documents {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

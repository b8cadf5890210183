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

// Package differ compares two vdom.Documents produced from successive
// evaluations of the same component and produces an ordered list of
// Patches describing exactly what changed (spec.md §4.6). Nodes are
// matched by their serialized SemanticId selector, not by tree position,
// so reordering a repeat's items produces MoveChild patches instead of a
// cascade of replacements.
package differ

import (
	"sort"

	"github.com/mpvl/unique"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/value"
	"paperclip.dev/core/internal/core/vdom"
)

// PatchKind discriminates the Patch sum type.
type PatchKind int

const (
	Initialize PatchKind = iota
	CreateNode
	RemoveNode
	ReplaceNode
	UpdateAttributes
	UpdateStyles
	UpdateText
	MoveChild
	AddStyleRule
	RemoveStyleRule
	MountComponent
	UpdateComponentProps
	UnmountComponent
)

func (k PatchKind) String() string {
	switch k {
	case Initialize:
		return "Initialize"
	case CreateNode:
		return "CreateNode"
	case RemoveNode:
		return "RemoveNode"
	case ReplaceNode:
		return "ReplaceNode"
	case UpdateAttributes:
		return "UpdateAttributes"
	case UpdateStyles:
		return "UpdateStyles"
	case UpdateText:
		return "UpdateText"
	case MoveChild:
		return "MoveChild"
	case AddStyleRule:
		return "AddStyleRule"
	case RemoveStyleRule:
		return "RemoveStyleRule"
	case MountComponent:
		return "MountComponent"
	case UpdateComponentProps:
		return "UpdateComponentProps"
	case UnmountComponent:
		return "UnmountComponent"
	}
	return "Unknown"
}

// Patch is one unit of the diff result. Path is the target node's
// serialized SemanticId ("/" for Initialize); the remaining fields are populated according to
// Kind, mirroring the teacher's tagged-union export-node pattern
// (internal/core/export walks an adt.Value and emits one tagged node per
// case) generalized from "export a value" to "describe a delta".
type Patch struct {
	Kind PatchKind `json:"kind"`
	Path string    `json:"path"`

	// CreateNode / ReplaceNode / MountComponent. Not JSON-serialized
	// directly (VNode carries unexported OrderedMap state); a consumer
	// that needs the wire form renders it through debug.Tree first.
	Node vdom.VNode `json:"-"`

	// UpdateAttributes / UpdateStyles: only the changed keys, old+new.
	Changed []PropChange `json:"changed,omitempty"`

	// UpdateText
	OldText string `json:"oldText,omitempty"`
	NewText string `json:"newText,omitempty"`

	// MoveChild: BeforePath is the sibling selector this node now
	// precedes, or "" to mean "moved to the end".
	BeforePath string `json:"beforePath,omitempty"`

	// AddStyleRule / RemoveStyleRule
	StyleProperty string `json:"styleProperty,omitempty"`
	StyleValue    string `json:"styleValue,omitempty"`

	// UpdateComponentProps
	Props *ast.OrderedMap `json:"-"`
}

// PropChange describes one attribute or style property that differs
// between the old and new tree.
type PropChange struct {
	Key      string `json:"key"`
	OldValue string `json:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty"`
	Removed  bool   `json:"removed,omitempty"`
}

// Diff compares oldDoc against newDoc and returns the ordered list of
// patches required to turn the old rendering into the new one. A nil
// oldDoc produces a single Initialize patch describing the whole tree,
// matching spec.md §4.6's "first render has no prior VDocument" case.
func Diff(oldDoc, newDoc *vdom.Document) []Patch {
	if oldDoc == nil {
		return []Patch{{Kind: Initialize, Path: "/", Node: newDoc.Root}}
	}

	var patches []Patch
	patches = append(patches, diffNode("/", oldDoc.Root, newDoc.Root)...)
	patches = append(patches, diffStyles(oldDoc.Styles, newDoc.Styles)...)
	return orderPatches(patches)
}

// orderPatches sorts the patch list by (path, kind) so two evaluations of
// identical trees always produce byte-identical patch streams, then
// collapses any exact-duplicate (path, kind) pairs that the independent
// diffNode/diffStyles passes may have both emitted (an element whose
// inline styles and whose StyleBlock both changed each yield an
// UpdateStyles at the same selector, for instance) down to one entry using
// github.com/mpvl/unique the same way validate.Document uses it to
// collapse a sorted selector list.
func orderPatches(patches []Patch) []Patch {
	sort.SliceStable(patches, func(i, j int) bool {
		if patches[i].Path != patches[j].Path {
			return patches[i].Path < patches[j].Path
		}
		return patches[i].Kind < patches[j].Kind
	})

	keys := make([]string, len(patches))
	for i, p := range patches {
		keys[i] = p.Path + "\x00" + p.Kind.String()
	}
	deduped := append([]string{}, keys...)
	unique.Strings(&deduped)
	if len(deduped) == len(keys) {
		return patches
	}

	seen := map[string]bool{}
	out := make([]Patch, 0, len(deduped))
	for i, p := range patches {
		if seen[keys[i]] {
			continue
		}
		seen[keys[i]] = true
		out = append(out, p)
	}
	return out
}

func diffNode(parentPath string, oldNode, newNode vdom.VNode) []Patch {
	oldPath := selectorOf(oldNode, parentPath)
	newPath := selectorOf(newNode, parentPath)

	if oldNode == nil && newNode != nil {
		return []Patch{{Kind: CreateNode, Path: newPath, Node: newNode}}
	}
	if oldNode != nil && newNode == nil {
		return []Patch{{Kind: RemoveNode, Path: oldPath}}
	}
	if oldPath != newPath || sameShape(oldNode, newNode) == false {
		return []Patch{{Kind: ReplaceNode, Path: newPath, Node: newNode}}
	}

	switch o := oldNode.(type) {
	case *vdom.Text:
		n := newNode.(*vdom.Text)
		if o.Content != n.Content {
			return []Patch{{Kind: UpdateText, Path: newPath, OldText: o.Content, NewText: n.Content}}
		}
		return nil
	case *vdom.Element:
		n := newNode.(*vdom.Element)
		return diffElement(newPath, o, n)
	case *vdom.Component:
		n := newNode.(*vdom.Component)
		var patches []Patch
		if changed := diffOrderedMap(o.Props, n.Props); len(changed) > 0 {
			patches = append(patches, Patch{Kind: UpdateComponentProps, Path: newPath, Props: n.Props, Changed: changed})
		}
		patches = append(patches, diffNode(newPath, o.Rendered, n.Rendered)...)
		return patches
	case *vdom.Comment, *vdom.Error:
		return nil
	}
	return nil
}

func sameShape(a, b vdom.VNode) bool {
	switch a.(type) {
	case *vdom.Text:
		_, ok := b.(*vdom.Text)
		return ok
	case *vdom.Element:
		av := a.(*vdom.Element)
		bv, ok := b.(*vdom.Element)
		return ok && av.Tag == bv.Tag
	case *vdom.Component:
		av := a.(*vdom.Component)
		bv, ok := b.(*vdom.Component)
		return ok && av.Name == bv.Name
	case *vdom.Comment:
		_, ok := b.(*vdom.Comment)
		return ok
	case *vdom.Error:
		_, ok := b.(*vdom.Error)
		return ok
	}
	return false
}

func selectorOf(n vdom.VNode, fallback string) string {
	if n == nil {
		return fallback
	}
	return n.SemanticID().String()
}

func diffElement(path string, o, n *vdom.Element) []Patch {
	var patches []Patch
	if changed := diffOrderedMap(o.Attributes, n.Attributes); len(changed) > 0 {
		patches = append(patches, Patch{Kind: UpdateAttributes, Path: path, Changed: changed})
	}
	if changed := diffOrderedMap(o.Styles, n.Styles); len(changed) > 0 {
		patches = append(patches, Patch{Kind: UpdateStyles, Path: path, Changed: changed})
		for _, c := range changed {
			if c.Removed {
				patches = append(patches, Patch{Kind: RemoveStyleRule, Path: path, StyleProperty: c.Key})
			} else {
				patches = append(patches, Patch{Kind: AddStyleRule, Path: path, StyleProperty: c.Key, StyleValue: c.NewValue})
			}
		}
	}
	patches = append(patches, diffChildren(path, o.Children, n.Children)...)
	return patches
}

// diffOrderedMap reports every key whose value changed or was
// added/removed, in the new map's declaration order followed by any
// removed keys. Entries are rendered through anyToDisplayString so this
// works uniformly whether the map holds the evaluated-attribute/style
// strings of an Element or the value.Value props of a Component.
func diffOrderedMap(oldMap, newMap *ast.OrderedMap) []PropChange {
	if oldMap == nil {
		oldMap = ast.NewOrderedMap()
	}
	if newMap == nil {
		newMap = ast.NewOrderedMap()
	}

	var changed []PropChange
	seen := map[string]bool{}
	for _, k := range newMap.Keys() {
		if seen[k] {
			continue
		}
		seen[k] = true
		nv, _ := newMap.Get(k)
		newStr := anyToDisplayString(nv)
		ov, existed := oldMap.Get(k)
		oldStr := ""
		if existed {
			oldStr = anyToDisplayString(ov)
		}
		if !existed || oldStr != newStr {
			changed = append(changed, PropChange{Key: k, OldValue: oldStr, NewValue: newStr})
		}
	}
	for _, k := range oldMap.Keys() {
		if _, stillPresent := newMap.Get(k); stillPresent {
			continue
		}
		ov, _ := oldMap.Get(k)
		changed = append(changed, PropChange{Key: k, OldValue: anyToDisplayString(ov), Removed: true})
	}
	return changed
}

// anyToDisplayString renders an OrderedMap entry regardless of whether it
// holds a pre-stringified attribute/style value or a value.Value prop.
func anyToDisplayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if vv, ok := v.(value.Value); ok {
		return value.ToDisplayString(vv)
	}
	return ""
}

func diffChildren(path string, oldChildren, newChildren []vdom.VNode) []Patch {
	oldByKey := map[string]vdom.VNode{}
	for _, c := range oldChildren {
		oldByKey[c.SemanticID().String()] = c
	}
	newByKey := map[string]vdom.VNode{}
	for _, c := range newChildren {
		newByKey[c.SemanticID().String()] = c
	}

	var patches []Patch
	for _, nc := range newChildren {
		key := nc.SemanticID().String()
		if oc, ok := oldByKey[key]; ok {
			patches = append(patches, diffNode(path, oc, nc)...)
		} else {
			patches = append(patches, Patch{Kind: CreateNode, Path: key, Node: nc})
		}
	}
	for _, oc := range oldChildren {
		key := oc.SemanticID().String()
		if _, ok := newByKey[key]; !ok {
			patches = append(patches, Patch{Kind: RemoveNode, Path: key})
		}
	}
	patches = append(patches, moveOrderPatches(path, oldChildren, newChildren)...)
	return patches
}

// moveOrderPatches walks the kept children in new order and emits a
// MoveChild patch for every child whose old index is lower than the old
// index of a kept child placed before it; BeforePath names its new-side
// successor. Children already in increasing old order emit nothing.
func moveOrderPatches(parentPath string, oldChildren, newChildren []vdom.VNode) []Patch {
	oldOrder := make([]string, 0, len(oldChildren))
	for _, c := range oldChildren {
		oldOrder = append(oldOrder, c.SemanticID().String())
	}
	oldIndex := map[string]int{}
	for i, k := range oldOrder {
		oldIndex[k] = i
	}

	var patches []Patch
	lastOldIdx := -1
	for i, nc := range newChildren {
		key := nc.SemanticID().String()
		oi, existed := oldIndex[key]
		if !existed {
			continue
		}
		if oi < lastOldIdx {
			var before string
			if i+1 < len(newChildren) {
				before = newChildren[i+1].SemanticID().String()
			}
			patches = append(patches, Patch{Kind: MoveChild, Path: key, BeforePath: before})
		} else {
			lastOldIdx = oi
		}
	}
	return patches
}

func diffStyles(oldStyles, newStyles []vdom.StyleBlock) []Patch {
	oldByTarget := map[string]vdom.StyleBlock{}
	for _, b := range oldStyles {
		oldByTarget[b.Target.String()] = b
	}

	var patches []Patch
	for _, nb := range newStyles {
		key := nb.Target.String()
		ob, existed := oldByTarget[key]
		if !existed {
			continue // covered by CreateNode's own style collection
		}
		if changed := diffOrderedMap(ob.Properties, nb.Properties); len(changed) > 0 {
			patches = append(patches, Patch{Kind: UpdateStyles, Path: key, Changed: changed})
		}
	}
	return patches
}

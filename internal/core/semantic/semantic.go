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

// Package semantic builds the hierarchical SemanticId that identifies a
// VNode stably across re-evaluations (spec.md §4.4.2, §4.6). Every VNode
// carries the full segment stack that produced it; the differ compares
// two VDocuments by serialized SemanticId rather than by tree position.
package semantic

import "strconv"

// SegmentKind discriminates the five ways a path step can be produced.
// This mirrors the closed-feature-kind idiom of the teacher's Feature type
// (a small tagged union with a deterministic String form), simplified
// because Paperclip has no string interning table to share across
// documents.
type SegmentKind int

const (
	ComponentSeg SegmentKind = iota
	ElementSeg
	ConditionalBranchSeg
	RepeatItemSeg
	SlotSeg
)

// Segment is one step in a SemanticId path.
type Segment struct {
	Kind SegmentKind

	// ComponentSeg
	ComponentName string
	InstanceKey   string // optional, from an explicit `key=` prop

	// ElementSeg
	TagName string
	AstID   string
	Role    string // optional structural qualifier; the evaluator never sets it

	// ConditionalBranchSeg
	Branch string // "then" or "else"

	// RepeatItemSeg
	ItemKey string // explicit key, or an auto-generated index-based key

	// SlotSeg
	SlotName string
	Inserted bool // true if filled by caller content, false if default
}

// Id is the full path from the document root to one VNode.
type Id struct {
	segments []Segment
}

// Root is the empty SemanticId, the parent of every top-level element.
func Root() Id { return Id{} }

// Push returns a new Id with seg appended; the receiver is left unchanged
// so callers can push/pop the evaluator's path stack with ordinary slice
// semantics and backtrack by discarding the returned value.
func (id Id) Push(seg Segment) Id {
	next := make([]Segment, len(id.segments)+1)
	copy(next, id.segments)
	next[len(id.segments)] = seg
	return Id{segments: next}
}

// Segments exposes the path for consumers that need structural access
// instead of the serialized form.
func (id Id) Segments() []Segment { return id.segments }

// String renders the deterministic selector form spec.md §4.4.2 requires:
//
//	Name{"key"}                 component instance with an explicit key
//	tag[ast_id]                  element keyed by its declaration site
//	tag.role[ast_id]              element with a structural role qualifier
//	cond[ast_id][then|else]      conditional branch
//	repeat[ast_id][key]           repeated item
//	name[default|inserted]        slot content
func (id Id) String() string {
	s := ""
	for _, seg := range id.segments {
		s += "/" + seg.string()
	}
	if s == "" {
		return "/"
	}
	return s
}

func (seg Segment) string() string {
	switch seg.Kind {
	case ComponentSeg:
		if seg.InstanceKey != "" {
			return seg.ComponentName + "{" + strconv.Quote(seg.InstanceKey) + "}"
		}
		return seg.ComponentName
	case ElementSeg:
		if seg.Role != "" {
			return seg.TagName + "." + seg.Role + "[" + seg.AstID + "]"
		}
		return seg.TagName + "[" + seg.AstID + "]"
	case ConditionalBranchSeg:
		return "cond[" + seg.AstID + "][" + seg.Branch + "]"
	case RepeatItemSeg:
		return "repeat[" + seg.AstID + "][" + seg.ItemKey + "]"
	case SlotSeg:
		if seg.Inserted {
			return seg.SlotName + "[inserted]"
		}
		return seg.SlotName + "[default]"
	}
	return "?"
}

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

package ast

// WalkElement calls visit for n and every Element reachable from it, in
// the same depth-first syntactic order the parser assigns NodeIds in
// (spec.md §4.2), skipping Expression subtrees. Used by the serializer
// (dirty-span walk) and by dev-mode debug dumps.
func WalkElement(n Element, visit func(Element)) {
	if n == nil {
		return
	}
	visit(n)
	switch e := n.(type) {
	case *Tag:
		for _, c := range e.Children {
			WalkElement(c, visit)
		}
	case *Instance:
		for _, c := range e.Children {
			WalkElement(c, visit)
		}
	case *Conditional:
		for _, c := range e.ThenBranch {
			WalkElement(c, visit)
		}
		for _, c := range e.ElseBranch {
			WalkElement(c, visit)
		}
	case *Repeat:
		for _, c := range e.Body {
			WalkElement(c, visit)
		}
	case *Text, *SlotInsert:
		// leaves
	}
}

// TopLevelElements returns the render elements whose spans should be
// walked directly by the lossless serializer: every component's body,
// visited in document order.
func (d *Document) TopLevelElements() []Element {
	var out []Element
	for _, c := range d.Components {
		if c.Body != nil {
			out = append(out, c.Body)
		}
	}
	return out
}

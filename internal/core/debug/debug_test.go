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

package debug

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"paperclip.dev/core/ast"
	"paperclip.dev/core/internal/core/differ"
	"paperclip.dev/core/internal/core/semantic"
	"paperclip.dev/core/internal/core/vdom"
)

func TestTreeRendersIndentedOutlineWithSelectors(t *testing.T) {
	rootID := semantic.Root().Push(semantic.Segment{Kind: semantic.ElementSeg, TagName: "div", AstID: "p"})
	childID := semantic.Root().Push(semantic.Segment{Kind: semantic.ElementSeg, TagName: "text", AstID: "c"})
	tree := &vdom.Element{
		ID: rootID, Tag: "div", Attributes: ast.NewOrderedMap(), Styles: ast.NewOrderedMap(),
		Children: []vdom.VNode{&vdom.Text{ID: childID, Content: "hi"}},
	}

	want := "div " + rootID.String() + "\n" +
		"  text(\"hi\") " + childID.String() + "\n"

	got := Tree(tree)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tree output mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeLabelsGroupElementsWithEmptyTag(t *testing.T) {
	groupID := semantic.Root().Push(semantic.Segment{Kind: semantic.ConditionalBranchSeg, AstID: "c", Branch: "then"})
	group := &vdom.Element{ID: groupID, Tag: "", Attributes: ast.NewOrderedMap(), Styles: ast.NewOrderedMap()}
	got := Tree(group)
	want := "<group> " + groupID.String() + "\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tree output mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchesRendersOneLinePerPatchInOrder(t *testing.T) {
	patches := []differ.Patch{
		{Kind: differ.CreateNode, Path: "/a"},
		{Kind: differ.RemoveNode, Path: "/b"},
	}
	want := "CreateNode /a\nRemoveNode /b\n"
	got := Patches(patches)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Patches output mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpProducesNonEmptyOutputForArbitraryValue(t *testing.T) {
	type pair struct{ A, B int }
	got := Dump(pair{A: 1, B: 2})
	if got == "" {
		t.Fatal("Dump returned empty string for a non-empty struct")
	}
}

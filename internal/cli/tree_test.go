package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/treenav-dev/treenav/internal/hierarchy"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// stubRelation serves a pre-built tree without touching the wire.
type stubRelation struct {
	root     *hierarchy.Node
	children map[string][]*hierarchy.Node
}

func (s *stubRelation) Name() string { return "stub" }

func (s *stubRelation) Reveal(ctx context.Context, rpc hierarchy.Caller, cursor protocol.DocumentPosition) (*hierarchy.Node, error) {
	return s.root, nil
}

func (s *stubRelation) Expand(ctx context.Context, rpc hierarchy.Caller, node *hierarchy.Node) ([]*hierarchy.Node, error) {
	return s.children[node.ID], nil
}

func (s *stubRelation) Decorate(node *hierarchy.Node, item *hierarchy.TreeItem) {}

func cursorStub() protocol.DocumentPosition {
	return protocol.DocumentPosition{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///src/a.cc"},
	}
}

func TestCollectTreeStopsAtDepth(t *testing.T) {
	relation := &stubRelation{
		root: &hierarchy.Node{ID: "root", Name: "Shape", ExpectedChildren: 2},
		children: map[string][]*hierarchy.Node{
			"root": {
				{ID: "c1", Name: "Rect", ExpectedChildren: 1},
				{ID: "c2", Name: "Circle"},
			},
			"c1": {{ID: "g1", Name: "Square"}},
		},
	}
	engine := hierarchy.NewEngine(nil, relation, nil)
	ctx := context.Background()
	if _, err := engine.Reveal(ctx, cursorStub()); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	tree := CollectTree(ctx, engine, 1)
	if len(tree) != 1 || tree[0].Label != "Shape" {
		t.Fatalf("unexpected roots: %+v", tree)
	}
	if len(tree[0].Children) != 2 {
		t.Fatalf("root children = %+v", tree[0].Children)
	}

	// Depth 1 lists Rect but must not expand it.
	rect := tree[0].Children[0]
	if !rect.Expandable || len(rect.Children) != 0 {
		t.Fatalf("depth limit breached: %+v", rect)
	}
	if tree[0].Children[1].Expandable {
		t.Fatalf("leaf rendered as expandable: %+v", tree[0].Children[1])
	}
}

func TestPrintTreeMarksUnexpandedBranches(t *testing.T) {
	var buf bytes.Buffer
	PrintTree(&buf, []TreeNode{
		{
			Label:      "Shape",
			Expandable: true,
			Children: []TreeNode{
				{Label: "Rect", Description: "rect.cc:3", Expandable: true},
				{Label: "h", Tooltip: "Offset: 16 bytes"},
			},
		},
	})

	want := "Shape\n" +
		"  Rect  [rect.cc:3] ...\n" +
		"  h  (Offset: 16 bytes)\n"
	if got := buf.String(); got != want {
		t.Fatalf("rendered tree:\n%q\nwant:\n%q", got, want)
	}
}

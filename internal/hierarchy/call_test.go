package hierarchy

import (
	"context"
	"testing"

	"github.com/treenav-dev/treenav/internal/protocol"
)

func callAnswers(t *testing.T, reveal, expand protocol.Entry) *fakeCaller {
	t.Helper()
	return &fakeCaller{answer: func(method string, params any) (protocol.Entry, error) {
		if method != protocol.MethodCall {
			t.Fatalf("unexpected method %q", method)
		}
		p := params.(protocol.CallParams)
		if p.CallType != protocol.CallTypeAll {
			t.Fatalf("every call query must request the full edge bitmask, got %d", p.CallType)
		}
		if p.TextDocument != nil {
			return reveal, nil
		}
		return expand, nil
	}}
}

func TestCallRevealThreadsDirection(t *testing.T) {
	reveal := protocol.Entry{ID: "f0", Name: "compute", NumChildren: 2}
	rpc := callAnswers(t, reveal, protocol.Entry{})
	relation := NewCallRelation(protocol.CallDirectionCallers)
	engine := NewEngine(rpc, relation, nil)

	if _, err := engine.Reveal(context.Background(), cursorAt("file:///src/a.cc", 5)); err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	p := rpc.calls[0].params.(protocol.CallParams)
	if p.Direction != protocol.CallDirectionCallers {
		t.Fatalf("reveal direction = %q", p.Direction)
	}
}

func TestCallToggleResetsRootOnly(t *testing.T) {
	reveal := protocol.Entry{
		ID: "f0", Name: "compute", NumChildren: 2,
		Children: []protocol.Entry{
			{ID: "f1", Name: "callerA", NumChildren: 1, Children: []protocol.Entry{{ID: "f3", Name: "deep"}}},
			{ID: "f2", Name: "callerB"},
		},
	}
	expand := protocol.Entry{
		ID: "f0", NumChildren: 2,
		Children: []protocol.Entry{
			{ID: "g1", Name: "calleeA"},
			{ID: "g2", Name: "calleeB"},
		},
	}
	rpc := callAnswers(t, reveal, expand)
	relation := NewCallRelation(protocol.CallDirectionCallers)
	engine := NewEngine(rpc, relation, nil)

	root, err := engine.Reveal(context.Background(), cursorAt("file:///src/a.cc", 5))
	if err != nil {
		t.Fatalf("reveal failed: %v", err)
	}
	if !root.Complete() {
		t.Fatal("reveal delivered materialized children, root should be complete")
	}

	changes := 0
	engine.OnChange(func() { changes++ })

	if !relation.SetDirection(protocol.CallDirectionCallees) {
		t.Fatal("direction change not reported")
	}
	engine.ResetRootChildren()

	if len(root.Children) != 0 {
		t.Fatalf("toggle must clear the root's materialized children, got %d", len(root.Children))
	}
	if root.ExpectedChildren != 2 {
		t.Fatalf("toggle must leave expectedChildCount untouched, got %d", root.ExpectedChildren)
	}
	if changes != 1 {
		t.Fatalf("toggle must re-fire the tree-changed signal, got %d", changes)
	}

	callsBefore := len(rpc.calls)
	children := engine.Children(context.Background(), root)
	if len(rpc.calls)-callsBefore != 1 {
		t.Fatalf("next getChildren must issue exactly one expand, got %d", len(rpc.calls)-callsBefore)
	}
	if len(children) != 2 || children[0].Name != "calleeA" {
		t.Fatalf("expected callee children after toggle, got %+v", children)
	}
	p := rpc.calls[len(rpc.calls)-1].params.(protocol.CallParams)
	if p.Direction != protocol.CallDirectionCallees {
		t.Fatalf("expand after toggle queried %q", p.Direction)
	}
}

func TestCallToggleSameDirectionIsNoop(t *testing.T) {
	relation := NewCallRelation(protocol.CallDirectionCallers)
	if relation.SetDirection(protocol.CallDirectionCallers) {
		t.Fatal("setting the same direction must report no change")
	}
}

func TestCallDecorateIcons(t *testing.T) {
	relation := NewCallRelation(protocol.CallDirectionCallers)

	tests := []struct {
		kind protocol.CallKind
		want string
	}{
		{protocol.CallKindBase, "call-base"},
		{protocol.CallKindDerived, "call-derived"},
		{protocol.CallKindNormal, ""},
	}
	for _, tt := range tests {
		node := &Node{Kind: KindRemote, Call: &CallPayload{EdgeKind: tt.kind}}
		var item TreeItem
		relation.Decorate(node, &item)
		if item.Icon != tt.want {
			t.Fatalf("icon for %q = %q, want %q", tt.kind, item.Icon, tt.want)
		}
	}
}

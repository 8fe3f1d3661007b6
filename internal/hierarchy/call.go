package hierarchy

import (
	"context"
	"fmt"
	"sync"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// CallRelation walks callers or callees of the function under the cursor.
// The callers/callees choice is a relation-level toggle, not a per-node
// property: each query snapshots the current direction into its params.
// Every query requests the full normal|base|derived edge bitmask.
type CallRelation struct {
	Qualified    bool
	RevealLevels int
	ExpandLevels int

	mu        sync.Mutex
	direction protocol.CallDirection
}

func NewCallRelation(direction protocol.CallDirection) *CallRelation {
	if direction == "" {
		direction = protocol.CallDirectionCallers
	}
	return &CallRelation{
		RevealLevels: 2,
		ExpandLevels: 1,
		direction:    direction,
	}
}

func (r *CallRelation) Name() string { return "call" }

// Direction returns the current toggle value.
func (r *CallRelation) Direction() protocol.CallDirection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direction
}

// SetDirection switches the toggle and reports whether it changed. The
// caller is responsible for resetting the engine's root children so the next
// expansion re-queries in the new direction.
func (r *CallRelation) SetDirection(direction protocol.CallDirection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if direction == r.direction {
		return false
	}
	r.direction = direction
	return true
}

func (r *CallRelation) Reveal(ctx context.Context, rpc Caller, cursor protocol.DocumentPosition) (*Node, error) {
	params := protocol.CallParams{
		TextDocument: &cursor.TextDocument,
		Position:     &cursor.Position,
		Direction:    r.Direction(),
		CallType:     protocol.CallTypeAll,
		Levels:       r.RevealLevels,
		Qualified:    r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodCall, params, &entry); err != nil {
		return nil, err
	}
	return callNodeFromEntry(entry), nil
}

func (r *CallRelation) Expand(ctx context.Context, rpc Caller, node *Node) ([]*Node, error) {
	if node.Call == nil {
		return nil, errNotMine("call", node)
	}
	params := protocol.CallParams{
		ID:        node.ID,
		Direction: r.Direction(),
		CallType:  protocol.CallTypeAll,
		Levels:    r.ExpandLevels,
		Qualified: r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodCall, params, &entry); err != nil {
		return nil, err
	}
	return callNodesFromEntries(entry.Children), nil
}

func (r *CallRelation) Decorate(node *Node, item *TreeItem) {
	if node.Call == nil {
		return
	}
	switch node.Call.EdgeKind {
	case protocol.CallKindBase:
		item.Icon = "call-base"
	case protocol.CallKindDerived:
		item.Icon = "call-derived"
	}
}

func callNodeFromEntry(entry protocol.Entry) *Node {
	return &Node{
		Kind:             KindRemote,
		ID:               entry.ID,
		Name:             entry.Name,
		Location:         entry.Location,
		ExpectedChildren: entry.NumChildren,
		Children:         callNodesFromEntries(entry.Children),
		Call:             &CallPayload{EdgeKind: entry.CallKind},
	}
}

func callNodesFromEntries(entries []protocol.Entry) []*Node {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		out = append(out, callNodeFromEntry(entry))
	}
	return out
}

func errNotMine(relation string, node *Node) error {
	return fmt.Errorf("%s relation cannot expand node %q", relation, node.Name)
}

package hierarchy

import (
	"context"
	"log/slog"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// BaseGroupLabel names the synthetic node wrapping a type's base classes.
const BaseGroupLabel = "[[base]]"

// InheritanceRelation reveals the derived subtree of the type under the
// cursor, then probes the base direction with an independent query and, when
// bases exist, splices a synthetic base-group wrapper in as the root's first
// child. The direction flag rides on every node so later expansion of any
// descendant queries the correct side.
type InheritanceRelation struct {
	Qualified    bool
	RevealLevels int
	ExpandLevels int
	log          *slog.Logger
}

func NewInheritanceRelation(log *slog.Logger) *InheritanceRelation {
	if log == nil {
		log = slog.Default()
	}
	return &InheritanceRelation{
		RevealLevels: 1,
		ExpandLevels: 1,
		log:          log.With("relation", "inheritance"),
	}
}

func (r *InheritanceRelation) Name() string { return "inheritance" }

func (r *InheritanceRelation) Reveal(ctx context.Context, rpc Caller, cursor protocol.DocumentPosition) (*Node, error) {
	params := protocol.InheritanceParams{
		TextDocument: &cursor.TextDocument,
		Position:     &cursor.Position,
		Direction:    protocol.DirectionDerived,
		Levels:       r.RevealLevels,
		Qualified:    r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodInheritance, params, &entry); err != nil {
		return nil, err
	}
	root := r.nodeFromEntry(entry, protocol.DirectionDerived)

	// Independent probe of the base direction, addressed by the id the
	// derived query just returned.
	baseParams := protocol.InheritanceParams{
		ID:        entry.ID,
		Kind:      entry.Kind,
		Direction: protocol.DirectionBase,
		Levels:    1,
		Qualified: r.Qualified,
	}
	var base protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodInheritance, baseParams, &base); err != nil {
		// The derived tree is still usable without the base group.
		r.log.Warn("base probe failed", "error", err)
		return root, nil
	}
	if base.NumChildren > 0 {
		r.spliceBaseGroup(root, entry, base)
	}
	return root, nil
}

// spliceBaseGroup wraps the base query's children in a synthetic group and
// accounts for it in the root's expected count. The wrapper is prepended to
// any children the reveal already materialized, and kept on the root's
// payload either way: a partially materialized root will be re-expanded, and
// expansion replaces its children outright.
func (r *InheritanceRelation) spliceBaseGroup(root *Node, rootEntry, base protocol.Entry) {
	wrapper := &Node{
		Kind: KindSyntheticGroup,
		Name: BaseGroupLabel,
		// Borrowed for the basename:line description only; synthetic nodes
		// are never navigated to.
		Location:         base.Location,
		ExpectedChildren: base.NumChildren,
		Children:         r.nodesFromEntries(base.Children, protocol.DirectionBase),
		Inheritance: &InheritancePayload{
			Direction: protocol.DirectionBase,
			QueryID:   rootEntry.ID,
			QueryKind: rootEntry.Kind,
		},
	}

	root.ExpectedChildren++
	root.Inheritance.baseGroup = wrapper
	if len(root.Children) > 0 {
		root.Children = append([]*Node{wrapper}, root.Children...)
	}
}

func (r *InheritanceRelation) Expand(ctx context.Context, rpc Caller, node *Node) ([]*Node, error) {
	payload := node.Inheritance
	if payload == nil {
		return nil, errNotMine("inheritance", node)
	}
	direction := payload.Direction
	if direction == "" {
		direction = protocol.DirectionDerived
	}

	params := protocol.InheritanceParams{
		ID:        payload.QueryID,
		Kind:      payload.QueryKind,
		Direction: direction,
		Levels:    r.ExpandLevels,
		Qualified: r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodInheritance, params, &entry); err != nil {
		return nil, err
	}

	children := r.nodesFromEntries(entry.Children, direction)
	if payload.baseGroup != nil {
		children = append([]*Node{payload.baseGroup}, children...)
	}
	return children, nil
}

func (r *InheritanceRelation) Decorate(node *Node, item *TreeItem) {
	if node.Kind == KindSyntheticGroup {
		item.Icon = "base"
		return
	}
	if node.Inheritance == nil {
		return
	}
	switch node.Inheritance.Direction {
	case protocol.DirectionBase:
		item.Icon = "base"
	case protocol.DirectionDerived:
		item.Icon = "derived"
	}
}

// nodeFromEntry converts one response entry, stamping direction onto the
// node and all its descendants.
func (r *InheritanceRelation) nodeFromEntry(entry protocol.Entry, direction protocol.Direction) *Node {
	return &Node{
		Kind:             KindRemote,
		ID:               entry.ID,
		Name:             entry.Name,
		Location:         entry.Location,
		ExpectedChildren: entry.NumChildren,
		Children:         r.nodesFromEntries(entry.Children, direction),
		Inheritance: &InheritancePayload{
			Direction:  direction,
			SymbolKind: entry.Kind,
			QueryID:    entry.ID,
			QueryKind:  entry.Kind,
		},
	}
}

func (r *InheritanceRelation) nodesFromEntries(entries []protocol.Entry, direction protocol.Direction) []*Node {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		out = append(out, r.nodeFromEntry(entry, direction))
	}
	return out
}

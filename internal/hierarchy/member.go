package hierarchy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// MemberRelation lays out the variable-kind members of the type under the
// cursor. Nodes carry a raw whitespace-separated field descriptor; the
// decoder pulls the member name and, when present, the byte offset out of it
// at render time.
type MemberRelation struct {
	Qualified    bool
	RevealLevels int
	ExpandLevels int
}

func NewMemberRelation() *MemberRelation {
	return &MemberRelation{
		RevealLevels: 2,
		ExpandLevels: 1,
	}
}

func (r *MemberRelation) Name() string { return "member" }

func (r *MemberRelation) Reveal(ctx context.Context, rpc Caller, cursor protocol.DocumentPosition) (*Node, error) {
	params := protocol.MemberParams{
		TextDocument: &cursor.TextDocument,
		Position:     &cursor.Position,
		Kind:         protocol.SymbolKindVariable,
		Levels:       r.RevealLevels,
		Qualified:    r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodMember, params, &entry); err != nil {
		return nil, err
	}
	return memberNodeFromEntry(entry), nil
}

func (r *MemberRelation) Expand(ctx context.Context, rpc Caller, node *Node) ([]*Node, error) {
	if node.Member == nil {
		return nil, errNotMine("member", node)
	}
	params := protocol.MemberParams{
		ID:        node.ID,
		Kind:      protocol.SymbolKindVariable,
		Levels:    r.ExpandLevels,
		Qualified: r.Qualified,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodMember, params, &entry); err != nil {
		return nil, err
	}
	return memberNodesFromEntries(entry.Children), nil
}

// Decorate resolves the member name from the field descriptor and promotes
// it to the label; the node's own name is the owning type, which moves into
// the description. A leading byte offset becomes a tooltip, never part of
// the label.
func (r *MemberRelation) Decorate(node *Node, item *TreeItem) {
	if node.Member == nil {
		return
	}
	name, offset, hasOffset := DecodeFieldDescriptor(node.Member.FieldDescriptor)
	if name != "" {
		item.Label = name
	}
	if hasOffset {
		item.Tooltip = fmt.Sprintf("Offset: %d bytes", offset)
	}
	if node.Name != "" {
		if item.Description != "" {
			item.Description += " (" + node.Name + ")"
		} else {
			item.Description = "(" + node.Name + ")"
		}
	}
}

// DecodeFieldDescriptor splits a descriptor into whitespace tokens. With a
// numeric first token and at least 3 tokens, token 0 is the byte offset and
// token 2 the member name. Otherwise token 1 is the name and there is no
// offset.
func DecodeFieldDescriptor(descriptor string) (name string, offset int, hasOffset bool) {
	tokens := strings.Fields(descriptor)
	if len(tokens) >= 3 {
		if parsed, err := strconv.Atoi(tokens[0]); err == nil {
			return tokens[2], parsed, true
		}
	}
	if len(tokens) >= 2 {
		return tokens[1], 0, false
	}
	return "", 0, false
}

func memberNodeFromEntry(entry protocol.Entry) *Node {
	return &Node{
		Kind:             KindRemote,
		ID:               entry.ID,
		Name:             entry.Name,
		Location:         entry.Location,
		ExpectedChildren: entry.NumChildren,
		Children:         memberNodesFromEntries(entry.Children),
		Member:           &MemberPayload{FieldDescriptor: entry.FieldDescriptor},
	}
}

func memberNodesFromEntries(entries []protocol.Entry) []*Node {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		out = append(out, memberNodeFromEntry(entry))
	}
	return out
}

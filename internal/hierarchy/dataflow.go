package hierarchy

import (
	"context"
	"log/slog"

	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// DocumentOpener supplies document text for text-derived labels. Satisfied
// by *docs.Store.
type DocumentOpener interface {
	Open(uri string) (*docs.Document, error)
}

// DataFlowRelation traces where a value flows. The server sends no display
// name for these nodes; the label is the exact source text under the node's
// range, read from the document store at render time. That read is the one
// piece of I/O in any relation's render path and is allowed to fail: the
// file may have been deleted or moved since indexing, which is a render
// error, not a protocol error.
type DataFlowRelation struct {
	Docs DocumentOpener
	log  *slog.Logger
}

func NewDataFlowRelation(opener DocumentOpener, log *slog.Logger) *DataFlowRelation {
	if log == nil {
		log = slog.Default()
	}
	return &DataFlowRelation{Docs: opener, log: log.With("relation", "dataflow")}
}

func (r *DataFlowRelation) Name() string { return "dataflow" }

func (r *DataFlowRelation) Reveal(ctx context.Context, rpc Caller, cursor protocol.DocumentPosition) (*Node, error) {
	params := protocol.DataFlowParams{
		TextDocument: &cursor.TextDocument,
		Position:     &cursor.Position,
	}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodDataFlow, params, &entry); err != nil {
		return nil, err
	}
	return dataFlowNodeFromEntry(entry), nil
}

func (r *DataFlowRelation) Expand(ctx context.Context, rpc Caller, node *Node) ([]*Node, error) {
	params := protocol.DataFlowParams{ID: node.ID}
	var entry protocol.Entry
	if err := rpc.Call(ctx, protocol.MethodDataFlow, params, &entry); err != nil {
		return nil, err
	}
	return dataFlowNodesFromEntries(entry.Children), nil
}

func (r *DataFlowRelation) Decorate(node *Node, item *TreeItem) {
	if node.Location == nil || r.Docs == nil {
		return
	}
	doc, err := r.Docs.Open(node.Location.URI)
	if err != nil {
		// Fall back to whatever label the generic render produced.
		r.log.Debug("label source unavailable", "uri", node.Location.URI, "error", err)
		return
	}
	if text, ok := doc.Slice(node.Location.Range); ok {
		item.Label = text
	}
}

func dataFlowNodeFromEntry(entry protocol.Entry) *Node {
	return &Node{
		Kind:             KindRemote,
		ID:               entry.ID,
		Name:             entry.Name,
		Location:         entry.Location,
		ExpectedChildren: entry.NumChildren,
		Children:         dataFlowNodesFromEntries(entry.Children),
	}
}

func dataFlowNodesFromEntries(entries []protocol.Entry) []*Node {
	if len(entries) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dataFlowNodeFromEntry(entry))
	}
	return out
}

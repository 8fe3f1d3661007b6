package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// Caller issues one request/response call to the analysis server. Satisfied
// by *rpc.Client.
type Caller interface {
	Call(ctx context.Context, method string, params any, result any) error
}

// Relation supplies the wire shape of one relation kind's queries. The
// engine never knows what a query looks like; relations never touch the
// engine's tree state except through the values they return.
type Relation interface {
	Name() string

	// Reveal produces a fresh root for the given cursor. The returned node
	// is fully merged (inheritance splices its base group here).
	Reveal(ctx context.Context, rpc Caller, cursor protocol.DocumentPosition) (*Node, error)

	// Expand fetches the immediate children of one incomplete node, with
	// inherited flags already propagated onto each child.
	Expand(ctx context.Context, rpc Caller, node *Node) ([]*Node, error)

	// Decorate may override label, icon or tooltip after the engine has
	// filled in the generic item fields.
	Decorate(node *Node, item *TreeItem)
}

// ErrStaleReveal is returned when a reveal response arrives after a newer
// reveal has been issued; the response is discarded instead of clobbering
// the newer root.
var ErrStaleReveal = errors.New("reveal superseded by a newer request")

// Engine is a lazy tree data source over a remotely materialized hierarchy.
// It owns exactly one root at a time, wholesale-replaced on reveal and
// dropped on close.
type Engine struct {
	rpc      Caller
	relation Relation
	log      *slog.Logger

	mu        sync.Mutex
	root      *Node
	visible   bool
	revealSeq int

	onChange func()
}

func NewEngine(rpc Caller, relation Relation, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		rpc:      rpc,
		relation: relation,
		log:      log.With("component", "engine", "relation", relation.Name()),
	}
}

// OnChange registers the tree-changed signal consumed by the host widget.
func (e *Engine) OnChange(fn func()) {
	e.onChange = fn
}

// Visible reports whether the host should show this relation's tree panel.
func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// Root returns the current root, or nil.
func (e *Engine) Root() *Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// Reveal queries a fresh root for the cursor and replaces the current tree.
// Each reveal carries a sequence number; a response that resolves after a
// newer reveal was issued is discarded and reported as ErrStaleReveal. On
// query failure the previous tree is left untouched.
func (e *Engine) Reveal(ctx context.Context, cursor protocol.DocumentPosition) (*Node, error) {
	e.mu.Lock()
	e.revealSeq++
	seq := e.revealSeq
	e.mu.Unlock()

	root, err := e.relation.Reveal(ctx, e.rpc, cursor)
	if err != nil {
		return nil, fmt.Errorf("%s reveal failed: %w", e.relation.Name(), err)
	}

	e.mu.Lock()
	if seq != e.revealSeq {
		e.mu.Unlock()
		e.log.Debug("discarding stale reveal response", "seq", seq)
		return nil, ErrStaleReveal
	}
	e.root = root
	e.visible = true
	e.mu.Unlock()

	e.fireChange()
	return root, nil
}

// Close drops the tree and hides the panel. No remote call is made.
func (e *Engine) Close() {
	e.mu.Lock()
	e.root = nil
	e.visible = false
	e.mu.Unlock()
	e.fireChange()
}

// ResetRootChildren clears the root's materialized children, leaving its
// expected count untouched so the next Children call re-fetches. Used when a
// relation-level request parameter changes (the call direction toggle).
// Descendants are not touched; they are unreachable until re-expansion.
func (e *Engine) ResetRootChildren() {
	e.mu.Lock()
	if e.root != nil {
		e.root.Children = nil
	}
	e.mu.Unlock()
	e.fireChange()
}

// Children implements the lazy expansion cycle. With no node it returns the
// root as the tree's single top-level item. A complete node answers from
// cache with no remote call; an incomplete one triggers exactly one expand
// query. On expand failure the node is left incomplete (it will be retried
// on the next attempt) and an empty result is returned.
func (e *Engine) Children(ctx context.Context, node *Node) []*Node {
	if node == nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.root == nil {
			return nil
		}
		return []*Node{e.root}
	}

	if node.Complete() {
		return node.Children
	}

	children, err := e.relation.Expand(ctx, e.rpc, node)
	if err != nil {
		e.log.Warn("expand failed, node left incomplete", "node", node.Name, "error", err)
		return nil
	}
	node.Children = children
	return children
}

// TreeItem renders display metadata for one node: generic fields first, then
// the relation's decoration hook.
func (e *Engine) TreeItem(node *Node) TreeItem {
	item := TreeItem{
		Label: node.Name,
		Command: Command{
			ID:          CommandNavigate,
			Node:        node,
			HasChildren: node.HasChildren(),
		},
	}

	switch {
	case node.ExpectedChildren == 0:
		item.Collapsible = CollapsibleNone
	case len(node.Children) > 0:
		item.Collapsible = CollapsibleExpanded
	default:
		item.Collapsible = CollapsibleCollapsed
	}

	if node.Location != nil {
		item.Description = locationDescription(*node.Location)
	}

	e.relation.Decorate(node, &item)
	return item
}

func (e *Engine) fireChange() {
	if e.onChange != nil {
		e.onChange()
	}
}

// locationDescription is the basename:line suffix shared by all relations.
// Lines are displayed 1-based.
func locationDescription(loc protocol.Location) string {
	return docs.Basename(loc.URI) + ":" + strconv.Itoa(loc.Range.Start.Line+1)
}

package hierarchy

import (
	"github.com/treenav-dev/treenav/internal/protocol"
)

// NodeKind separates real remote nodes from locally fabricated grouping
// nodes, so equality and navigation logic can match on the tag instead of
// null-checking ids.
type NodeKind int

const (
	// KindRemote is a node deserialized from an analysis-server response.
	KindRemote NodeKind = iota
	// KindSyntheticGroup is a locally created wrapper with no remote
	// identity, e.g. the inheritance base-group node.
	KindSyntheticGroup
)

// Node is one partially known tree node. ExpectedChildren is the server's
// authoritative count; Children holds whatever has been materialized so far.
type Node struct {
	Kind NodeKind

	// ID is the server-assigned identifier. Stable only within the lifetime
	// of one revealed root; empty on synthetic nodes.
	ID   string
	Name string

	// Location is the source span this node represents. Nil on synthetic
	// grouping nodes, which have no single source location. A synthetic
	// node may still borrow a location for description purposes; it is
	// never navigated to (see GestureResolver).
	Location *protocol.Location

	ExpectedChildren int
	Children         []*Node

	// Per-relation payloads; exactly one is set, matching the relation that
	// produced the node.
	Inheritance *InheritancePayload
	Call        *CallPayload
	Member      *MemberPayload
}

// InheritancePayload carries the direction flag and the re-query identity for
// inheritance nodes.
type InheritancePayload struct {
	Direction  protocol.Direction
	SymbolKind int

	// QueryID/QueryKind address the symbol to expand on the server. For
	// remote nodes this mirrors ID; for the synthetic base group it borrows
	// the identity of the revealed root, queried in the base direction.
	QueryID   string
	QueryKind int

	// baseGroup holds the synthetic base wrapper spliced into the revealed
	// root. Expansion wholesale-replaces a node's children, so the wrapper
	// must stay reachable here: every expansion of the root prepends it
	// again, whether or not the reveal response had materialized children.
	baseGroup *Node
}

// CallPayload classifies the edge that led to this node.
type CallPayload struct {
	EdgeKind protocol.CallKind
}

// MemberPayload carries the raw encoded field descriptor.
type MemberPayload struct {
	FieldDescriptor string
}

// Complete reports whether every child the server knows about has been
// materialized. A complete node's children are never re-fetched.
func (n *Node) Complete() bool {
	return len(n.Children) == n.ExpectedChildren
}

// HasChildren reports whether the server claims this node has any children,
// materialized or not.
func (n *Node) HasChildren() bool {
	return n.ExpectedChildren > 0
}

// Collapsible is the display state of a tree item.
type Collapsible int

const (
	CollapsibleNone Collapsible = iota
	CollapsibleCollapsed
	CollapsibleExpanded
)

// CommandNavigate is the single fixed command attached to every tree item.
const CommandNavigate = "treenav.navigate"

// Command is the activation command bound to a tree item.
type Command struct {
	ID          string
	Node        *Node
	HasChildren bool
}

// TreeItem is the display metadata for one node.
type TreeItem struct {
	Label       string
	Description string
	Tooltip     string
	Icon        string
	Collapsible Collapsible
	Command     Command
}

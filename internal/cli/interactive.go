package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/treenav-dev/treenav/internal/hierarchy"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// browser is the interactive loop behind --interactive. It shows the
// materialized tree with numbered rows; expansion and navigation happen only
// on explicit commands, so each remote fetch maps to one user action.
type browser struct {
	sess     *session
	engine   *hierarchy.Engine
	relation hierarchy.Relation
	depth    int
	gesture  *hierarchy.GestureResolver

	// index maps the row numbers of the last listing to nodes.
	index []*hierarchy.Node
}

func newBrowser(sess *session, engine *hierarchy.Engine, relation hierarchy.Relation, depth int, out io.Writer) *browser {
	navigator := &printNavigator{out: out, store: sess.Docs}
	threshold := sess.Config.Tree.DoubleClickThreshold()
	return &browser{
		sess:     sess,
		engine:   engine,
		relation: relation,
		depth:    depth,
		gesture:  hierarchy.NewGestureResolver(navigator, threshold, sess.Log),
	}
}

func (b *browser) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	b.list(out)
	fmt.Fprintln(out, `(commands: ls, expand N, open N, reveal file:line[:col], toggle, status, close, quit)`)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit", "q":
			return nil
		case "ls":
			b.list(out)
		case "expand":
			b.expand(ctx, out, fields[1:])
		case "open":
			b.open(ctx, out, fields[1:])
		case "reveal":
			b.reveal(ctx, out, fields[1:])
		case "toggle":
			b.toggle(out)
		case "status":
			fmt.Fprintln(out, b.sess.Status.Text())
		case "close":
			b.engine.Close()
			fmt.Fprintln(out, "tree closed")
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}

// list prints the materialized tree with row numbers and rebuilds the row
// index. It never triggers a remote fetch.
func (b *browser) list(out io.Writer) {
	b.index = b.index[:0]
	root := b.engine.Root()
	if root == nil {
		fmt.Fprintln(out, "(no tree; use reveal)")
		return
	}
	b.listNode(out, root, 0)
}

func (b *browser) listNode(out io.Writer, node *hierarchy.Node, indent int) {
	b.index = append(b.index, node)
	item := b.engine.TreeItem(node)

	var line strings.Builder
	fmt.Fprintf(&line, "%3d  %s%s", len(b.index), strings.Repeat("  ", indent), item.Label)
	if item.Description != "" {
		fmt.Fprintf(&line, "  [%s]", item.Description)
	}
	if item.Tooltip != "" {
		fmt.Fprintf(&line, "  (%s)", item.Tooltip)
	}
	if item.Collapsible == hierarchy.CollapsibleCollapsed {
		line.WriteString(" ...")
	}
	fmt.Fprintln(out, line.String())

	for _, child := range node.Children {
		b.listNode(out, child, indent+1)
	}
}

func (b *browser) expand(ctx context.Context, out io.Writer, args []string) {
	node, ok := b.pick(out, args)
	if !ok {
		return
	}
	b.engine.Children(ctx, node)
	b.list(out)
}

func (b *browser) open(ctx context.Context, out io.Writer, args []string) {
	node, ok := b.pick(out, args)
	if !ok {
		return
	}
	b.gesture.OnActivate(ctx, node, node.HasChildren())
}

func (b *browser) reveal(ctx context.Context, out io.Writer, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: reveal file:line[:col]")
		return
	}
	cursor, err := ParseCursor(args[0])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	if _, err := b.engine.Reveal(ctx, cursor); err != nil {
		fmt.Fprintf(out, "reveal failed: %v\n", err)
		return
	}
	b.list(out)
}

// toggle flips the callers/callees direction when browsing a call hierarchy.
func (b *browser) toggle(out io.Writer) {
	calls, ok := b.relation.(*hierarchy.CallRelation)
	if !ok {
		fmt.Fprintln(out, "toggle only applies to call hierarchies")
		return
	}
	next := protocol.CallDirectionCallees
	if calls.Direction() == protocol.CallDirectionCallees {
		next = protocol.CallDirectionCallers
	}
	if calls.SetDirection(next) {
		b.engine.ResetRootChildren()
	}
	fmt.Fprintf(out, "direction: %s\n", next)
	b.list(out)
}

func (b *browser) pick(out io.Writer, args []string) (*hierarchy.Node, bool) {
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: <command> N")
		return nil, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(b.index) {
		fmt.Fprintf(out, "no row %q in the last listing\n", args[0])
		return nil, false
	}
	return b.index[n-1], true
}

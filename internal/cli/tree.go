package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/treenav-dev/treenav/internal/hierarchy"
)

// TreeNode is the machine-readable rendering of one tree item.
type TreeNode struct {
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Tooltip     string     `json:"tooltip,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	Expandable  bool       `json:"expandable,omitempty"`
	Children    []TreeNode `json:"children,omitempty"`
}

// CollectTree expands the engine's tree down to depth levels below the root
// and renders each node through the engine's item pipeline. Nodes at the
// depth limit are listed but not expanded.
func CollectTree(ctx context.Context, engine *hierarchy.Engine, depth int) []TreeNode {
	return collectLevel(ctx, engine, engine.Children(ctx, nil), depth)
}

func collectLevel(ctx context.Context, engine *hierarchy.Engine, nodes []*hierarchy.Node, depth int) []TreeNode {
	out := make([]TreeNode, 0, len(nodes))
	for _, node := range nodes {
		item := engine.TreeItem(node)
		rendered := TreeNode{
			Label:       item.Label,
			Description: item.Description,
			Tooltip:     item.Tooltip,
			Icon:        item.Icon,
			Expandable:  item.Collapsible != hierarchy.CollapsibleNone,
		}
		if depth > 0 && rendered.Expandable {
			rendered.Children = collectLevel(ctx, engine, engine.Children(ctx, node), depth-1)
		}
		out = append(out, rendered)
	}
	return out
}

// PrintTree writes the collected tree as indented text, one node per line.
// Unexpanded branches get a trailing ellipsis so truncation is visible.
func PrintTree(w io.Writer, nodes []TreeNode) {
	printLevel(w, nodes, 0)
}

func printLevel(w io.Writer, nodes []TreeNode, indent int) {
	for _, node := range nodes {
		var line strings.Builder
		line.WriteString(strings.Repeat("  ", indent))
		line.WriteString(node.Label)
		if node.Description != "" {
			line.WriteString("  [")
			line.WriteString(node.Description)
			line.WriteString("]")
		}
		if node.Tooltip != "" {
			line.WriteString("  (")
			line.WriteString(node.Tooltip)
			line.WriteString(")")
		}
		if node.Expandable && len(node.Children) == 0 {
			line.WriteString(" ...")
		}
		fmt.Fprintln(w, line.String())
		printLevel(w, node.Children, indent+1)
	}
}

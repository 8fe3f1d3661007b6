package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// printNavigator fulfils a navigation by printing the target location and
// its source line, the terminal stand-in for jumping the editor cursor.
type printNavigator struct {
	out   io.Writer
	store *docs.Store
}

func (n *printNavigator) Open(ctx context.Context, loc protocol.Location) error {
	path := docs.URIToPath(loc.URI)
	fmt.Fprintf(n.out, "-> %s:%d:%d\n", path, loc.Range.Start.Line+1, loc.Range.Start.Character+1)

	doc, err := n.store.Open(loc.URI)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if line, ok := doc.Line(loc.Range.Start.Line); ok {
		fmt.Fprintf(n.out, "   %s\n", strings.TrimRight(line, " \t"))
	}
	return nil
}

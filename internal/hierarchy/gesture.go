package hierarchy

import (
	"context"
	"log/slog"
	"time"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// Navigator is the host editor's jump-to-source primitive.
type Navigator interface {
	Open(ctx context.Context, loc protocol.Location) error
}

// DefaultDoubleClickThreshold is how close two activations of the same node
// must be to count as a double click.
const DefaultDoubleClickThreshold = 500 * time.Millisecond

// GestureResolver emulates double-click semantics on a widget that only
// reports "item activated". The first activation of a branch node expands it;
// a second activation of the same node within the threshold navigates.
// Leaf nodes navigate on the first activation.
type GestureResolver struct {
	nav       Navigator
	threshold time.Duration
	now       func() time.Time
	log       *slog.Logger

	lastID    string
	lastClick time.Time
}

func NewGestureResolver(nav Navigator, threshold time.Duration, log *slog.Logger) *GestureResolver {
	if threshold <= 0 {
		threshold = DefaultDoubleClickThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &GestureResolver{
		nav:       nav,
		threshold: threshold,
		now:       time.Now,
		log:       log.With("component", "gesture"),
	}
}

// OnActivate handles one activation of node. hasChildren is the value bound
// into the item's command when it was rendered.
func (g *GestureResolver) OnActivate(ctx context.Context, node *Node, hasChildren bool) {
	if node == nil || node.Kind == KindSyntheticGroup || node.Location == nil {
		// Nothing to navigate to. Synthetic groups may borrow a location
		// for display, but it is not theirs to jump to.
		return
	}

	if !hasChildren {
		g.navigate(ctx, node)
		return
	}

	now := g.now()
	if node.ID != g.lastID {
		g.lastID = node.ID
		g.lastClick = now
		return
	}

	elapsed := now.Sub(g.lastClick)
	g.lastClick = now
	if elapsed < g.threshold {
		g.navigate(ctx, node)
	}
}

func (g *GestureResolver) navigate(ctx context.Context, node *Node) {
	if err := g.nav.Open(ctx, *node.Location); err != nil {
		// Navigation failures are silently skipped; the target may be gone.
		g.log.Debug("navigation skipped", "uri", node.Location.URI, "error", err)
	}
}

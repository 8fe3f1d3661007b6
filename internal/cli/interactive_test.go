package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/hierarchy"
	"github.com/treenav-dev/treenav/internal/protocol"
)

func TestBrowserNavigationEchoUsesProvidedWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.cc")
	if err := os.WriteFile(path, []byte("int total;\ntotal = 0;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := docs.NewStore(4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	relation := &stubRelation{root: &hierarchy.Node{ID: "root", Name: "total"}}
	engine := hierarchy.NewEngine(nil, relation, nil)

	var out bytes.Buffer
	b := newBrowser(&session{Docs: store}, engine, relation, 1, &out)

	leaf := &hierarchy.Node{
		ID:   "n1",
		Name: "total",
		Location: &protocol.Location{
			URI:   docs.PathToURI(path),
			Range: protocol.Range{Start: protocol.Position{Line: 1}},
		},
	}
	b.index = []*hierarchy.Node{leaf}
	b.open(context.Background(), &out, []string{"1"})

	echo := out.String()
	if !strings.Contains(echo, "flow.cc:2:1") {
		t.Fatalf("navigation target missing from output: %q", echo)
	}
	if !strings.Contains(echo, "total = 0;") {
		t.Fatalf("source line missing from output: %q", echo)
	}
}

// Package highlight turns the server's semantic-symbol publications into
// paintable decoration sets: ranges grouped by symbol kind, with a palette
// slot derived from the stable symbol id so a given symbol keeps its color
// across re-publications.
package highlight

import (
	"sort"
	"sync"

	"github.com/treenav-dev/treenav/internal/protocol"
)

// DefaultPaletteSize is the number of rotating colors.
const DefaultPaletteSize = 10

// Decoration is one paintable group: every range of every symbol that shares
// a kind and palette slot.
type Decoration struct {
	Kind    int
	Palette int
	Ranges  []protocol.Range
}

// Set is the full decoration state for one document.
type Set struct {
	URI         string
	Decorations []Decoration
}

// BuildSet groups a publication into decorations. Output order is
// deterministic: by kind, then palette slot.
func BuildSet(params protocol.PublishHighlightParams, paletteSize int) Set {
	if paletteSize <= 0 {
		paletteSize = DefaultPaletteSize
	}

	type slot struct {
		kind    int
		palette int
	}
	grouped := make(map[slot][]protocol.Range)
	for _, symbol := range params.Symbols {
		palette := symbol.StableID % paletteSize
		if palette < 0 {
			palette += paletteSize
		}
		key := slot{kind: symbol.Kind, palette: palette}
		grouped[key] = append(grouped[key], symbol.Ranges...)
	}

	decorations := make([]Decoration, 0, len(grouped))
	for key, ranges := range grouped {
		decorations = append(decorations, Decoration{Kind: key.kind, Palette: key.palette, Ranges: ranges})
	}
	sort.Slice(decorations, func(i, j int) bool {
		if decorations[i].Kind != decorations[j].Kind {
			return decorations[i].Kind < decorations[j].Kind
		}
		return decorations[i].Palette < decorations[j].Palette
	})
	return Set{URI: params.URI, Decorations: decorations}
}

// Painter keeps the latest decoration set per document. A new publication
// for a URI wholesale-replaces the previous one.
type Painter struct {
	mu   sync.Mutex
	sets map[string]Set
}

func NewPainter() *Painter {
	return &Painter{sets: make(map[string]Set)}
}

// Apply ingests one publication and returns the resulting set.
func (p *Painter) Apply(params protocol.PublishHighlightParams) Set {
	set := BuildSet(params, DefaultPaletteSize)
	p.mu.Lock()
	p.sets[params.URI] = set
	p.mu.Unlock()
	return set
}

// Current returns the latest set for uri.
func (p *Painter) Current(uri string) (Set, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.sets[uri]
	return set, ok
}

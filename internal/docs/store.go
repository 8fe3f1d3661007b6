package docs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/treenav-dev/treenav/internal/protocol"
)

const defaultCacheSize = 64

// Document is an immutable snapshot of one file's text.
type Document struct {
	URI   string
	Text  string
	lines []string
}

// NewDocument builds a document snapshot from raw text.
func NewDocument(uri, text string) *Document {
	return &Document{URI: uri, Text: text, lines: strings.Split(text, "\n")}
}

// Line returns the 0-based line, without its trailing newline.
func (d *Document) Line(n int) (string, bool) {
	if n < 0 || n >= len(d.lines) {
		return "", false
	}
	return strings.TrimSuffix(d.lines[n], "\r"), true
}

// Slice extracts the exact text spanned by r. Reversed or out-of-bounds
// ranges yield ok=false.
func (d *Document) Slice(r protocol.Range) (string, bool) {
	start, ok := d.offset(r.Start)
	if !ok {
		return "", false
	}
	end, ok := d.offset(r.End)
	if !ok || end < start {
		return "", false
	}
	return d.Text[start:end], true
}

func (d *Document) offset(p protocol.Position) (int, bool) {
	if p.Line < 0 || p.Line >= len(d.lines) {
		return 0, false
	}
	off := 0
	for i := 0; i < p.Line; i++ {
		off += len(d.lines[i]) + 1
	}
	if p.Character < 0 || p.Character > len(d.lines[p.Line]) {
		return 0, false
	}
	return off + p.Character, true
}

// Store reads documents on demand and caches their text. Cached entries are
// dropped when the file changes on disk, so a later read sees fresh text.
type Store struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Document]
	watcher *fsnotify.Watcher
	log     *slog.Logger

	// readFile is swapped out by tests.
	readFile func(path string) ([]byte, error)
}

// NewStore creates a store with the given cache capacity (0 means default).
// The fsnotify watcher is best effort: a store without one still works, it
// just never self-invalidates.
func NewStore(cacheSize int, log *slog.Logger) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if log == nil {
		log = slog.Default()
	}
	cache, err := lru.New[string, *Document](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}

	s := &Store{cache: cache, log: log.With("component", "docs"), readFile: os.ReadFile}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("document watcher unavailable, cache will not self-invalidate", "error", err)
	} else {
		s.watcher = watcher
		go s.watchLoop()
	}
	return s, nil
}

// Open returns the document for uri, reading it from disk on a cache miss.
func (s *Store) Open(uri string) (*Document, error) {
	s.mu.Lock()
	if doc, ok := s.cache.Get(uri); ok {
		s.mu.Unlock()
		return doc, nil
	}
	s.mu.Unlock()

	path := URIToPath(uri)
	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", uri, err)
	}
	doc := NewDocument(uri, string(data))

	s.mu.Lock()
	s.cache.Add(uri, doc)
	s.mu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Add(path); err != nil {
			s.log.Debug("cannot watch document", "path", path, "error", err)
		}
	}
	return doc, nil
}

// Invalidate drops the cached text for uri, if any.
func (s *Store) Invalidate(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(uri)
}

// Close stops the watcher. Cached documents stay readable.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (s *Store) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				s.Invalidate(PathToURI(event.Name))
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Debug("document watcher error", "error", err)
		}
	}
}

package docs

import (
	"path/filepath"
	"strings"
)

// PathToURI converts a filesystem path to a file:// document identifier.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "file://" + filepath.ToSlash(path)
	}
	return "file://" + filepath.ToSlash(abs)
}

// URIToPath converts a file:// document identifier back to a path. Non-file
// URIs are returned unchanged.
func URIToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return filepath.FromSlash(strings.TrimPrefix(uri, "file://"))
	}
	return uri
}

// Basename is the display name of a document: the final path element.
func Basename(uri string) string {
	return filepath.Base(URIToPath(uri))
}

package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/treenav-dev/treenav/internal/docs"
	"github.com/treenav-dev/treenav/internal/protocol"
)

// ParseCursor converts a "file:line:col" argument into a document position.
// Line and column are 1-based on the command line and 0-based on the wire.
// The column defaults to 1 when omitted.
func ParseCursor(arg string) (protocol.DocumentPosition, error) {
	var cursor protocol.DocumentPosition

	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return cursor, fmt.Errorf("invalid cursor %q (expected file:line[:col])", arg)
	}

	line, err := strconv.Atoi(parts[1])
	if err != nil || line < 1 {
		return cursor, fmt.Errorf("invalid cursor line %q (expected a 1-based line number)", parts[1])
	}

	col := 1
	if len(parts) == 3 {
		col, err = strconv.Atoi(parts[2])
		if err != nil || col < 1 {
			return cursor, fmt.Errorf("invalid cursor column %q (expected a 1-based column number)", parts[2])
		}
	}

	path, err := filepath.Abs(parts[0])
	if err != nil {
		return cursor, fmt.Errorf("failed to resolve %s: %w", parts[0], err)
	}

	cursor.TextDocument = protocol.TextDocumentIdentifier{URI: docs.PathToURI(path)}
	cursor.Position = protocol.Position{Line: line - 1, Character: col - 1}
	return cursor, nil
}

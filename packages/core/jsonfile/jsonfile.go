// Package jsonfile reads collection and environment documents from disk
// with the typed error reporting the CLI presents to users.
package jsonfile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
)

// Read returns the raw contents of the JSON file at path. knownToExist is
// the result of an earlier existence probe: when set, a read failure is
// reported as the file being unreadable rather than missing, which keeps
// "file not found" distinct from permission or I/O problems.
func Read(path string, knownToExist bool) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, clierror.New(clierror.CodeFileNotJSON, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if knownToExist {
			return nil, clierror.Wrap(clierror.CodeUnknown, path, err)
		}
		return nil, clierror.Wrap(clierror.CodeFileNotFound, path, err)
	}
	return data, nil
}

// IsArray reports whether the document's top-level value is a JSON array.
func IsArray(data []byte) bool {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.HasPrefix(trimmed, "[")
}

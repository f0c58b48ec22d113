package git

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// ModeFile is the git tree mode of a regular,
	// non-executable file.
	ModeFile = "100644"
	// TypeBlob is the git object type of file
	// content.
	TypeBlob = "blob"

	// UserAgent identifies this client to hosting
	// APIs.
	UserAgent = "remote-commit"
)

// FileSet maps repository-relative paths to file
// content. Every entry becomes one blob in the
// committed tree.
type FileSet map[string]string

// Paths returns the file paths in lexical order.
func (fs FileSet) Paths() []string {
	paths := make([]string, 0, len(fs))
	for p := range fs {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// Validate reports the first entry that cannot be
// committed. Paths must be relative without empty, "."
// or ".." segments; content must be valid UTF-8.
func (fs FileSet) Validate() error {
	for _, p := range fs.Paths() {
		if p == "" || strings.HasPrefix(p, "/") {
			return fmt.Errorf(
				"%w: %q", ErrInvalidPath, p,
			)
		}

		for _, seg := range strings.Split(p, "/") {
			if seg == "" || seg == "." || seg == ".." {
				return fmt.Errorf(
					"%w: %q", ErrInvalidPath, p,
				)
			}
		}

		if !utf8.ValidString(fs[p]) {
			return fmt.Errorf(
				"%w: %q is not valid utf-8",
				ErrInvalidContent, p,
			)
		}
	}

	return nil
}

// DefaultMessage builds a commit message for callers
// that do not supply one.
func DefaultMessage(files FileSet) string {
	if len(files) == 1 {
		return "Update " + files.Paths()[0]
	}

	return fmt.Sprintf("Update %d files", len(files))
}

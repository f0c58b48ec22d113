package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/remote_commit/gitops/git"
)

// ErrDuplicatePath is returned when two sources name
// the same file.
var ErrDuplicatePath = errors.New("duplicate file path")

// File is one manifest entry. Exactly one of Content
// and Source must be set.
type File struct {
	// Path is the repository-relative destination.
	Path string `json:"path" yaml:"path"`
	// Content is the inline file content.
	Content *string `json:"content,omitempty" yaml:"content,omitempty"`
	// Source is a local file whose content is
	// committed. Relative paths are resolved against
	// the manifest directory.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Manifest lists the files of one commit.
type Manifest struct {
	Files []File `json:"files" yaml:"files"`
}

// Load reads a JSON (.json) or YAML (.yaml, .yml)
// manifest and returns the file set it describes.
func Load(path string) (git.FileSet, error) {
	const errCtx = "loading manifest"

	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	m, err := Parse(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	files, err := m.Resolve(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return files, nil
}

// Parse decodes a manifest in the format implied by
// ext (".json", ".yaml" or ".yml").
func Parse(raw []byte, ext string) (*Manifest, error) {
	const errCtx = "parsing manifest"

	var m Manifest

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf(
				"%s: json: %w", errCtx, err,
			)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf(
				"%s: yaml: %w", errCtx, err,
			)
		}
	default:
		return nil, fmt.Errorf(
			"%s: unknown format %q", errCtx, ext,
		)
	}

	return &m, nil
}

// Resolve builds the file set, reading Source entries
// relative to baseDir.
func (m *Manifest) Resolve(
	baseDir string,
) (git.FileSet, error) {
	const errCtx = "resolving manifest"

	files := make(git.FileSet, len(m.Files))

	for i, f := range m.Files {
		if f.Path == "" {
			return nil, fmt.Errorf(
				"%s: entry %d: path must be set",
				errCtx, i,
			)
		}

		if (f.Content == nil) == (f.Source == "") {
			return nil, fmt.Errorf(
				"%s: %s: exactly one of content "+
					"or source must be set",
				errCtx, f.Path,
			)
		}

		if _, ok := files[f.Path]; ok {
			return nil, fmt.Errorf(
				"%s: %w: %s",
				errCtx, ErrDuplicatePath, f.Path,
			)
		}

		if f.Content != nil {
			files[f.Path] = *f.Content

			continue
		}

		src := f.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(baseDir, src)
		}

		content, err := os.ReadFile(src) //nolint:gosec // manifest-provided path
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, f.Path, err,
			)
		}

		files[f.Path] = string(content)
	}

	return files, nil
}

// ParseFileFlag parses "path=content" or
// "path=@localfile" into a destination path and its
// content.
func ParseFileFlag(val string) (string, string, error) {
	const errCtx = "parsing file flag"

	path, value, ok := strings.Cut(val, "=")
	if !ok || path == "" {
		return "", "", fmt.Errorf(
			"%s: expected path=content, got %q",
			errCtx, val,
		)
	}

	src, isFile := strings.CutPrefix(value, "@")
	if !isFile {
		return path, value, nil
	}

	content, err := os.ReadFile(src) //nolint:gosec // path from CLI flag
	if err != nil {
		return "", "", fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	return path, string(content), nil
}

// FromFlags builds a file set from repeated file flag
// values.
func FromFlags(vals []string) (git.FileSet, error) {
	const errCtx = "reading file flags"

	files := make(git.FileSet, len(vals))

	for _, v := range vals {
		path, content, err := ParseFileFlag(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if _, ok := files[path]; ok {
			return nil, fmt.Errorf(
				"%s: %w: %s",
				errCtx, ErrDuplicatePath, path,
			)
		}

		files[path] = content
	}

	return files, nil
}

// Merge copies src into dst and fails on the first
// path present in both.
func Merge(dst git.FileSet, src git.FileSet) error {
	for _, p := range src.Paths() {
		if _, ok := dst[p]; ok {
			return fmt.Errorf(
				"merging file sets: %w: %s",
				ErrDuplicatePath, p,
			)
		}

		dst[p] = src[p]
	}

	return nil
}

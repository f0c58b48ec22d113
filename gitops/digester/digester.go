package digester

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/byte4ever/remote_commit/gitops/git"
)

// Entry describes one file as it appears in the
// committed tree.
type Entry struct {
	Path   string `json:"path"`
	Mode   string `json:"mode"`
	Type   string `json:"type"`
	BlobID string `json:"blob_id"`
	Size   int    `json:"size"`
}

// BlobID returns the git object id the hosting platform
// assigns to content stored as a blob.
func BlobID(content []byte) string {
	return plumbing.ComputeHash(
		plumbing.BlobObject, content,
	).String()
}

// Preview returns the tree entries files produce, in
// path order.
func Preview(files git.FileSet) []Entry {
	entries := make([]Entry, 0, len(files))

	for _, p := range files.Paths() {
		content := []byte(files[p])

		entries = append(entries, Entry{
			Path:   p,
			Mode:   git.ModeFile,
			Type:   git.TypeBlob,
			BlobID: BlobID(content),
			Size:   len(content),
		})
	}

	return entries
}

package digester_test

import (
	"testing"

	"github.com/byte4ever/remote_commit/gitops/digester"
	"github.com/byte4ever/remote_commit/gitops/git"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobID_matches_git_hash_object(t *testing.T) {
	t.Parallel()

	// git hash-object values.
	assert.Equal(
		t,
		"b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0",
		digester.BlobID([]byte("hello")),
	)
	assert.Equal(
		t,
		"ce013625030ba8dba906f756967f9e9ca394464a",
		digester.BlobID([]byte("hello\n")),
	)
}

func TestBlobID_empty(t *testing.T) {
	t.Parallel()

	assert.Equal(
		t,
		"e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		digester.BlobID(nil),
	)
}

func TestPreview_one_entry_per_file(t *testing.T) {
	t.Parallel()

	got := digester.Preview(git.FileSet{
		"b.txt": "",
		"a.txt": "hello",
	})

	require.Len(t, got, 2)
	assert.Equal(t, digester.Entry{
		Path:   "a.txt",
		Mode:   "100644",
		Type:   "blob",
		BlobID: "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0",
		Size:   5,
	}, got[0])
	assert.Equal(t, "b.txt", got[1].Path)
	assert.Equal(t, 0, got[1].Size)
}

func TestPreview_empty(t *testing.T) {
	t.Parallel()

	got := digester.Preview(git.FileSet{})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

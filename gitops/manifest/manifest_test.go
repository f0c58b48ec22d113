package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/remote_commit/gitops/git"
	"github.com/byte4ever/remote_commit/gitops/manifest"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(
		t, os.MkdirAll(filepath.Dir(path), 0o750),
	)
	require.NoError(
		t, os.WriteFile(path, []byte(content), 0o600),
	)
}

func TestLoad_yaml(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "cake.txt"), "a lie")
	writeFile(t, filepath.Join(dir, "files.yaml"), `
files:
  - path: answer_to_life
    content: forty-two
  - path: the cake is
    source: src/cake.txt
  - path: empty.txt
    content: ""
`)

	got, err := manifest.Load(filepath.Join(dir, "files.yaml"))

	require.NoError(t, err)
	assert.Equal(t, git.FileSet{
		"answer_to_life": "forty-two",
		"the cake is":    "a lie",
		"empty.txt":      "",
	}, got)
}

func TestLoad_json(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.json"), `{
  "files": [
    {"path": "a.txt", "content": "hello"},
    {"path": "dir/b.txt", "content": "world"}
  ]
}`)

	got, err := manifest.Load(filepath.Join(dir, "files.json"))

	require.NoError(t, err)
	assert.Equal(t, git.FileSet{
		"a.txt":     "hello",
		"dir/b.txt": "world",
	}, got)
}

func TestLoad_duplicate_path(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.yml"), `
files:
  - path: a.txt
    content: one
  - path: a.txt
    content: two
`)

	_, err := manifest.Load(filepath.Join(dir, "files.yml"))

	assert.ErrorIs(t, err, manifest.ErrDuplicatePath)
}

func TestLoad_content_and_source(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.yaml"), `
files:
  - path: a.txt
    content: one
    source: other.txt
`)

	_, err := manifest.Load(filepath.Join(dir, "files.yaml"))

	assert.ErrorContains(t, err, "exactly one of content")
}

func TestLoad_missing_path(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.json"),
		`{"files":[{"content":"x"}]}`,
	)

	_, err := manifest.Load(filepath.Join(dir, "files.json"))

	assert.ErrorContains(t, err, "path must be set")
}

func TestLoad_missing_source(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "files.yaml"), `
files:
  - path: a.txt
    source: nowhere.txt
`)

	_, err := manifest.Load(filepath.Join(dir, "files.yaml"))

	assert.ErrorContains(t, err, "a.txt")
}

func TestParse_unknown_format(t *testing.T) {
	t.Parallel()

	_, err := manifest.Parse([]byte("files = []"), ".toml")

	assert.ErrorContains(t, err, "unknown format")
}

func TestParseFileFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := filepath.Join(dir, "local.txt")
	writeFile(t, local, "from disk")

	tests := []struct {
		name        string
		val         string
		wantPath    string
		wantContent string
		wantErr     bool
	}{
		{
			name:        "inline",
			val:         "a.txt=hello",
			wantPath:    "a.txt",
			wantContent: "hello",
		},
		{
			name:        "inline with equals",
			val:         "cfg.env=KEY=VALUE",
			wantPath:    "cfg.env",
			wantContent: "KEY=VALUE",
		},
		{
			name:     "empty content",
			val:      "empty.txt=",
			wantPath: "empty.txt",
		},
		{
			name:        "from file",
			val:         "b.txt=@" + local,
			wantPath:    "b.txt",
			wantContent: "from disk",
		},
		{name: "no separator", val: "a.txt", wantErr: true},
		{name: "no path", val: "=x", wantErr: true},
		{
			name:    "missing file",
			val:     "c.txt=@" + filepath.Join(dir, "nope"),
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path, content, err := manifest.ParseFileFlag(tc.val)
			if tc.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantContent, content)
		})
	}
}

func TestFromFlags_duplicate(t *testing.T) {
	t.Parallel()

	_, err := manifest.FromFlags(
		[]string{"a.txt=1", "a.txt=2"},
	)

	assert.ErrorIs(t, err, manifest.ErrDuplicatePath)
}

func TestMerge(t *testing.T) {
	t.Parallel()

	dst := git.FileSet{"a.txt": "1"}

	require.NoError(
		t, manifest.Merge(dst, git.FileSet{"b.txt": "2"}),
	)
	assert.Equal(t, git.FileSet{"a.txt": "1", "b.txt": "2"}, dst)

	err := manifest.Merge(dst, git.FileSet{"a.txt": "3"})

	assert.ErrorIs(t, err, manifest.ErrDuplicatePath)
	assert.Equal(t, "1", dst["a.txt"])
}

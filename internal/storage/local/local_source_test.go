package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/storage/local"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestSource_ListAndFetch(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "2024", "DR-13032024.txt"), "Bil. 2")
	write(t, filepath.Join(root, "DR-12032024.pdf"), "%PDF-1.4")
	write(t, filepath.Join(root, "readme.md"), "ignored")
	write(t, filepath.Join(root, ".cache", "DR-01012024.txt"), "ignored")

	src := local.NewSource(root)
	refs, err := src.List(context.Background())
	require.NoError(t, err)

	require.Len(t, refs, 2)
	assert.Equal(t, "DR-13032024.txt", refs[0].Name)
	assert.Equal(t, "DR-12032024.pdf", refs[1].Name)
	assert.Equal(t, int64(8), refs[1].Size)

	data, err := src.Fetch(context.Background(), refs[0])
	require.NoError(t, err)
	assert.Equal(t, "Bil. 2", string(data))
}

func TestSource_MissingRoot(t *testing.T) {
	src := local.NewSource(filepath.Join(t.TempDir(), "nope"))

	_, err := src.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

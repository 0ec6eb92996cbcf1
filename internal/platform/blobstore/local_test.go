package blobstore

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutOpenDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	n, err := store.Put("abc.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	f, err := store.Open("abc.pdf")
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "%PDF-1.7", string(b))

	require.NoError(t, store.Delete("abc.pdf"))
	_, err = store.Open("abc.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete("abc.pdf"), ErrNotFound)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../etc/passwd", "a/b.pdf", "", ".hidden"} {
		_, err := store.Put(name, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidName, name)
		_, err = store.Open(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestLocal_NoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	_, err = store.Put("x.epub", io.MultiReader(strings.NewReader("abc"), errReader{}))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestLocal_Rename(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = store.Put("abc.pdf", strings.NewReader("book"))
	require.NoError(t, err)

	require.NoError(t, store.Rename("abc.pdf", "abc.epub"))
	_, err = store.Open("abc.pdf")
	assert.ErrorIs(t, err, ErrNotFound)

	f, err := store.Open("abc.epub")
	require.NoError(t, err)
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "book", string(b))

	assert.ErrorIs(t, store.Rename("missing.pdf", "missing.epub"), ErrNotFound)
	assert.ErrorIs(t, store.Rename("abc.epub", "../abc.epub"), ErrInvalidName)
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_PutCreatesDirectories(t *testing.T) {
	root := t.TempDir()
	d := NewDisk(root, "/files/")

	require.NoError(t, d.Put(context.Background(), "exports/a.csv", []byte("x,y\n")))
	// Second write to the same directory must not fail.
	require.NoError(t, d.Put(context.Background(), "exports/b.csv", []byte("z\n")))

	got, err := os.ReadFile(filepath.Join(root, "exports", "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "exports"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files should not be left behind")
}

func TestDisk_PutOverwrites(t *testing.T) {
	d := NewDisk(t.TempDir(), "")
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "exports/a.csv", []byte("old")))
	require.NoError(t, d.Put(ctx, "exports/a.csv", []byte("new")))

	p, err := d.Path("exports/a.csv")
	require.NoError(t, err)
	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestDisk_URL(t *testing.T) {
	assert.Equal(t, "/exports/a.csv", NewDisk("x", "").URL("exports/a.csv"))
	assert.Equal(t, "https://cdn.example.com/exports/a.csv", NewDisk("x", "https://cdn.example.com/").URL("exports/a.csv"))
}

func TestDisk_RejectsEscapes(t *testing.T) {
	d := NewDisk(t.TempDir(), "")
	for _, name := range []string{"../secret", "exports/../../x", "", "/", "a/./b"} {
		_, err := d.Path(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestDisk_PutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDisk(t.TempDir(), "").Put(ctx, "a.csv", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

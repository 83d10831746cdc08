package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndOpen(t *testing.T) {
	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	require.NoError(t, store.Save("students.txt", []byte("1,Ann,20,CS\n")))
	require.NoError(t, store.Save("students.txt", []byte("2,Bob,22,EE\n")))

	file, err := store.Open("students.txt")
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "2,Bob,22,EE\n", string(content))

	entries, err := os.ReadDir(filepath.Dir(store.Path("students.txt")))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStorageOpenMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("teachers.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLocalStorageSaveIntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "classrooms.txt"), 0o755))

	err = store.Save("classrooms.txt", []byte("1,CS101,null,0\n"))
	require.Error(t, err)
}

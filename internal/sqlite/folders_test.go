package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/materialdb/pkg/types"
)

func TestResolvePathCreatesSegments(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))
	libraryID, err := store.findLibrary("base")
	require.NoError(t, err)

	folderID, err := store.resolvePath(libraryID, "Mechanical/Metals/Steel")
	require.NoError(t, err)
	require.NotZero(t, folderID)

	path, err := store.FolderPath(folderID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical/Metals/Steel", path)
}

func TestResolvePathIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))
	libraryID, err := store.findLibrary("base")
	require.NoError(t, err)

	first, err := store.resolvePath(libraryID, "A/B")
	require.NoError(t, err)
	second, err := store.resolvePath(libraryID, "A/B")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	paths, err := store.LibraryFolders("base")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A/B"}, paths)
}

func TestResolvePathEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))
	libraryID, err := store.findLibrary("base")
	require.NoError(t, err)

	folderID, err := store.resolvePath(libraryID, "")
	require.NoError(t, err)
	assert.Zero(t, folderID)

	path, err := store.FolderPath(0)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFoldersScopedPerLibrary(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("one", nil, false))
	require.NoError(t, store.CreateLibrary("two", nil, false))

	require.NoError(t, store.CreateFolder("one", "Shared/Path"))
	require.NoError(t, store.CreateFolder("two", "Shared/Path"))

	onePaths, err := store.LibraryFolders("one")
	require.NoError(t, err)
	twoPaths, err := store.LibraryFolders("two")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared", "Shared/Path"}, onePaths)
	assert.Equal(t, []string{"Shared", "Shared/Path"}, twoPaths)
}

func TestCreateFolderUnknownLibrary(t *testing.T) {
	store := newTestStore(t)
	err := store.CreateFolder("missing", "A/B")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
}

func TestLibraryFoldersCreationOrder(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	require.NoError(t, store.CreateFolder("base", "B/Deep"))
	require.NoError(t, store.CreateFolder("base", "A"))

	paths, err := store.LibraryFolders("base")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "B/Deep", "A"}, paths)
}

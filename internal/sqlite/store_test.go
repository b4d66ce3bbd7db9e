package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/materialdb/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "material.db")
	store, err := Create(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateProvisionsSchema(t *testing.T) {
	store := newTestStore(t)

	libraries, err := store.Libraries()
	require.NoError(t, err)
	assert.Empty(t, libraries)
}

func TestCreateReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "material.db")

	store, err := Create(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.CreateLibrary("stale", nil, false))
	require.NoError(t, store.Close())

	store, err = Create(path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	libraries, err := store.Libraries()
	require.NoError(t, err)
	assert.Empty(t, libraries)
}

func TestOpenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "material.db")

	store, err := Create(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.CreateLibrary("base", nil, false))
	require.NoError(t, store.Close())

	store, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	library, err := store.GetLibrary("base")
	require.NoError(t, err)
	assert.Equal(t, "base", library.Name)
}

func TestProvisionResets(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	require.NoError(t, store.Provision())

	_, err := store.GetLibrary("base")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
}

func TestCreateNoPath(t *testing.T) {
	_, err := Create("", zerolog.Nop())
	assert.ErrorIs(t, err, types.ErrDatabaseCreate)
}

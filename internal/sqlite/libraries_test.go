package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/materialdb/pkg/types"
)

func TestCreateLibraryDuplicateNoOp(t *testing.T) {
	store := newTestStore(t)
	icon := []byte{0x89, 0x50, 0x4e, 0x47}

	require.NoError(t, store.CreateLibrary("base", icon, true))
	require.NoError(t, store.CreateLibrary("base", icon, true))

	libraries, err := store.Libraries()
	require.NoError(t, err)
	require.Len(t, libraries, 1)
	assert.Equal(t, "base", libraries[0].Name)
	assert.Equal(t, icon, libraries[0].Icon)
	assert.True(t, libraries[0].ReadOnly)
}

func TestCreateLibraryDuplicateMismatch(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", []byte{1}, false))

	err := store.CreateLibrary("base", []byte{2}, false)
	assert.ErrorIs(t, err, types.ErrLibraryCreate)

	err = store.CreateLibrary("base", []byte{1}, true)
	assert.ErrorIs(t, err, types.ErrLibraryCreate)
}

func TestGetLibraryNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetLibrary("missing")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
}

func TestRenameLibrary(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("old", nil, false))

	require.NoError(t, store.RenameLibrary("old", "new"))

	_, err := store.GetLibrary("old")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
	library, err := store.GetLibrary("new")
	require.NoError(t, err)
	assert.Equal(t, "new", library.Name)
}

func TestRenameLibraryConflict(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("one", nil, false))
	require.NoError(t, store.CreateLibrary("two", nil, false))

	err := store.RenameLibrary("one", "two")
	assert.ErrorIs(t, err, types.ErrRename)
}

func TestChangeIcon(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", []byte{1}, false))

	require.NoError(t, store.ChangeIcon("base", []byte{2, 3}))

	library, err := store.GetLibrary("base")
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, library.Icon)
}

func TestRemoveLibraryCascades(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	model := &types.Model{UUID: "m1", Type: types.ModelPhysical, Name: "Density"}
	model.AddProperty(&types.ModelProperty{Name: "Density", DisplayName: "Density", Type: types.KindQuantity})
	require.NoError(t, store.CreateModel("base", "Mechanical", model))

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.AddTag("metal")
	material.AddPhysicalModel("m1")
	material.SetValue("Density", types.NewStringValue(types.KindQuantity, "7850 kg/m^3"))
	require.NoError(t, store.CreateMaterial("base", "Mechanical", material))

	require.NoError(t, store.RemoveLibrary("base"))

	_, err := store.GetLibrary("base")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
	_, _, err = store.GetModel("m1")
	assert.ErrorIs(t, err, types.ErrModelNotFound)
	_, _, err = store.GetMaterial("mat1")
	assert.ErrorIs(t, err, types.ErrMaterialNotFound)
}

func TestRemoveLibraryMissingNoOp(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.RemoveLibrary("missing"))
}

func TestModelAndMaterialLibraries(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("models", nil, false))
	require.NoError(t, store.CreateLibrary("materials", nil, false))
	require.NoError(t, store.CreateLibrary("empty", nil, false))

	model := &types.Model{UUID: "m1", Type: types.ModelPhysical, Name: "Density"}
	require.NoError(t, store.CreateModel("models", "", model))
	material := &types.Material{UUID: "mat1", Name: "Steel"}
	require.NoError(t, store.CreateMaterial("materials", "", material))

	all, err := store.Libraries()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	withModels, err := store.ModelLibraries()
	require.NoError(t, err)
	require.Len(t, withModels, 1)
	assert.Equal(t, "models", withModels[0].Name)

	withMaterials, err := store.MaterialLibraries()
	require.NoError(t, err)
	require.Len(t, withMaterials, 1)
	assert.Equal(t, "materials", withMaterials[0].Name)
}

func TestLibraryModels(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	model := &types.Model{UUID: "m1", Type: types.ModelPhysical, Name: "Linear Elastic"}
	require.NoError(t, store.CreateModel("base", "Mechanical/Metals", model))

	objects, err := store.LibraryModels("base")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, types.LibraryObject{UUID: "m1", Path: "Mechanical/Metals", Name: "Linear Elastic"}, objects[0])
}

func TestLibraryMaterials(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	require.NoError(t, store.CreateMaterial("base", "Mechanical/Metals", material))

	objects, err := store.LibraryMaterials("base")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, types.LibraryObject{UUID: "mat1", Path: "Mechanical/Metals", Name: "Steel"}, objects[0])
}

func TestLibraryMaterialsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	objects, err := store.LibraryMaterials("base")
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestLibraryListingsUnknownLibrary(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LibraryModels("missing")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
	_, err = store.LibraryMaterials("missing")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
	_, err = store.LibraryFolders("missing")
	assert.ErrorIs(t, err, types.ErrLibraryNotFound)
}

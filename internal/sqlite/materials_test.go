package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukaforge/materialdb/pkg/types"
)

func materialStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))
	return store
}

func roundTripMaterial(t *testing.T, store *Store, material *types.Material) *types.Material {
	t.Helper()
	require.NoError(t, store.CreateMaterial("base", "", material))
	_, got, err := store.GetMaterial(material.UUID)
	require.NoError(t, err)
	return got
}

func TestCreateAndGetMaterial(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{
		UUID:        "mat1",
		Name:        "Steel",
		Author:      "ACME Labs",
		License:     "CC-BY-4.0",
		Description: "Structural steel",
		URL:         "https://example.com/steel",
		Reference:   "EN 10025",
	}
	material.AddTag("steel")
	material.AddTag("ferrous")
	require.NoError(t, store.CreateMaterial("base", "Mechanical/Metals", material))

	library, got, err := store.GetMaterial("mat1")
	require.NoError(t, err)
	assert.Equal(t, "base", library.Name)
	assert.Equal(t, material.Name, got.Name)
	assert.Equal(t, material.Author, got.Author)
	assert.Equal(t, material.License, got.License)
	assert.Equal(t, material.Description, got.Description)
	assert.Equal(t, material.URL, got.URL)
	assert.Equal(t, material.Reference, got.Reference)
	assert.Equal(t, "Mechanical/Metals", got.Directory)
	assert.ElementsMatch(t, []string{"steel", "ferrous"}, got.Tags)
}

func TestLibraryWorkflow(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateLibrary("base", nil, false))

	model := &types.Model{UUID: "m1", Type: types.ModelPhysical, Name: "Linear Elastic"}
	model.AddProperty(&types.ModelProperty{
		Name: "YoungsModulus", DisplayName: "Young's Modulus", Type: types.KindQuantity,
	})
	require.NoError(t, store.CreateModel("base", "Mechanical/Metals", model))

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.AddTag("steel")
	material.AddPhysicalModel("m1")
	material.SetValue("YoungsModulus", types.NewStringValue(types.KindQuantity, "210000 MPa"))
	require.NoError(t, store.CreateMaterial("base", "Mechanical/Metals", material))

	library, got, err := store.GetMaterial("mat1")
	require.NoError(t, err)
	assert.Equal(t, "base", library.Name)
	assert.Equal(t, "Mechanical/Metals", got.Directory)
	assert.Equal(t, []string{"steel"}, got.Tags)
	assert.Equal(t, []string{"m1"}, got.PhysicalModels)
	require.Contains(t, got.Properties, "YoungsModulus")
	assert.Equal(t, "210000 MPa", got.Properties["YoungsModulus"].String)
}

func TestGetMaterialNotFound(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.GetMaterial("missing")
	assert.ErrorIs(t, err, types.ErrMaterialNotFound)
}

func TestCreateMaterialDuplicate(t *testing.T) {
	store := materialStore(t)
	require.NoError(t, store.CreateMaterial("base", "", &types.Material{UUID: "mat1", Name: "Steel"}))

	err := store.CreateMaterial("base", "", &types.Material{UUID: "mat1", Name: "Steel"})
	assert.ErrorIs(t, err, types.ErrMaterialExists)
	assert.NotErrorIs(t, err, types.ErrMaterialCreate)
}

func TestCreateMaterialUnknownLibrarySkipped(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CreateMaterial("missing", "", &types.Material{UUID: "mat1", Name: "Steel"}))

	_, _, err := store.GetMaterial("mat1")
	assert.ErrorIs(t, err, types.ErrMaterialNotFound)
}

func TestCreateMaterialForwardParent(t *testing.T) {
	store := materialStore(t)

	// The parent material is inserted after the child.
	child := &types.Material{UUID: "child", Name: "Alloy", Parent: "parent"}
	require.NoError(t, store.CreateMaterial("base", "", child))
	require.NoError(t, store.CreateMaterial("base", "", &types.Material{UUID: "parent", Name: "Iron"}))

	_, got, err := store.GetMaterial("child")
	require.NoError(t, err)
	assert.Equal(t, "parent", got.Parent)
}

func TestMaterialModelReferences(t *testing.T) {
	store := materialStore(t)
	require.NoError(t, store.CreateModel("base", "", &types.Model{
		UUID: "phys", Type: types.ModelPhysical, Name: "Density",
	}))
	require.NoError(t, store.CreateModel("base", "", &types.Model{
		UUID: "app", Type: types.ModelAppearance, Name: "Basic Rendering",
	}))

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.AddPhysicalModel("phys")
	material.AddAppearanceModel("app")
	got := roundTripMaterial(t, store, material)

	assert.Equal(t, []string{"phys"}, got.PhysicalModels)
	assert.Equal(t, []string{"app"}, got.AppearanceModels)
}

func TestMaterialTagsShared(t *testing.T) {
	store := materialStore(t)

	one := &types.Material{UUID: "mat1", Name: "Steel"}
	one.AddTag("metal")
	two := &types.Material{UUID: "mat2", Name: "Iron"}
	two.AddTag("metal")
	require.NoError(t, store.CreateMaterial("base", "", one))
	require.NoError(t, store.CreateMaterial("base", "", two))

	// One global tag row serves both mappings.
	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM material_tag WHERE material_tag_name = ?", "metal",
	).Scan(&count))
	assert.Equal(t, 1, count)

	_, got, err := store.GetMaterial("mat2")
	require.NoError(t, err)
	assert.Equal(t, []string{"metal"}, got.Tags)
}

func TestQuantityRoundTrip(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("YoungsModulus", types.NewStringValue(types.KindQuantity, "210000 MPa"))
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "YoungsModulus")
	value := got.Properties["YoungsModulus"]
	assert.Equal(t, types.KindQuantity, value.Type)
	assert.Equal(t, "210000 MPa", value.String)
}

func TestEmptyQuantityDecodesAbsent(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("YoungsModulus", &types.PropertyValue{Type: types.KindQuantity, Empty: true})
	got := roundTripMaterial(t, store, material)

	assert.NotContains(t, got.Properties, "YoungsModulus")
}

func TestLongStringRoundTrip(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("Preview", types.NewStringValue(types.KindSVG, "<svg>...</svg>"))
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "Preview")
	assert.Equal(t, "<svg>...</svg>", got.Properties["Preview"].String)
}

func TestListRoundTripKeepsOrder(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("Standards", types.NewListValue(types.KindList, []string{"zz", "aa", "mm"}))
	material.SetValue("Renders", types.NewListValue(types.KindImageList, []string{"b.png", "a.png"}))
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "Standards")
	assert.Equal(t, []string{"zz", "aa", "mm"}, got.Properties["Standards"].List)
	require.Contains(t, got.Properties, "Renders")
	assert.Equal(t, []string{"b.png", "a.png"}, got.Properties["Renders"].List)
}

func TestEmptyListRoundTrip(t *testing.T) {
	store := materialStore(t)

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("Standards", types.NewListValue(types.KindList, []string{}))
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "Standards")
	assert.Empty(t, got.Properties["Standards"].List)
}

func TestArray2DRoundTrip(t *testing.T) {
	store := materialStore(t)

	array := types.NewArray2D(2, 3)
	for row := 0; row < 2; row++ {
		for column := 0; column < 3; column++ {
			require.NoError(t, array.SetValue(row, column, cellValue(row, column)))
		}
	}
	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("Hardness", &types.PropertyValue{Type: types.KindArray2D, Array2D: array})
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "Hardness")
	decoded := got.Properties["Hardness"].Array2D
	require.NotNil(t, decoded)
	assert.Equal(t, 2, decoded.Rows())
	assert.Equal(t, 3, decoded.Columns())
	for row := 0; row < 2; row++ {
		for column := 0; column < 3; column++ {
			cell, err := decoded.Value(row, column)
			require.NoError(t, err)
			assert.Equal(t, cellValue(row, column), cell)
		}
	}
}

func TestArray3DRoundTrip(t *testing.T) {
	store := materialStore(t)

	// Two depth slices with different row counts.
	array := types.NewArray3D(2)
	array.AddDepth("293 K", 2)
	array.AddDepth("373 K", 3)
	require.NoError(t, array.SetValue(0, 0, 0, "a"))
	require.NoError(t, array.SetValue(0, 1, 1, "b"))
	require.NoError(t, array.SetValue(1, 2, 0, "c"))
	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.SetValue("StressStrain", &types.PropertyValue{Type: types.KindArray3D, Array3D: array})
	got := roundTripMaterial(t, store, material)

	require.Contains(t, got.Properties, "StressStrain")
	decoded := got.Properties["StressStrain"].Array3D
	require.NotNil(t, decoded)
	assert.Equal(t, 2, decoded.Depth())
	assert.Equal(t, 2, decoded.Columns())

	label, err := decoded.DepthLabel(0)
	require.NoError(t, err)
	assert.Equal(t, "293 K", label)
	label, err = decoded.DepthLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "373 K", label)

	rows, err := decoded.DepthRows(0)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	rows, err = decoded.DepthRows(1)
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	cell, err := decoded.Value(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", cell)
	cell, err = decoded.Value(1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "c", cell)
	cell, err = decoded.Value(1, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, cell)
}

func TestUpdateMaterialNotFound(t *testing.T) {
	store := materialStore(t)

	err := store.UpdateMaterial("base", "", &types.Material{UUID: "missing", Name: "Steel"})
	assert.ErrorIs(t, err, types.ErrMaterialNotFound)
	assert.NotErrorIs(t, err, types.ErrMaterialUpdate)
}

func TestUpdateMaterialReplacesEverything(t *testing.T) {
	store := materialStore(t)
	require.NoError(t, store.CreateModel("base", "", &types.Model{
		UUID: "phys", Type: types.ModelPhysical, Name: "Density",
	}))

	material := &types.Material{UUID: "mat1", Name: "Steel"}
	material.AddTag("old")
	material.AddPhysicalModel("phys")
	material.SetValue("Density", types.NewStringValue(types.KindQuantity, "7850 kg/m^3"))
	require.NoError(t, store.CreateMaterial("base", "", material))

	updated := &types.Material{UUID: "mat1", Name: "Mild Steel", Author: "ACME Labs"}
	updated.AddTag("new")
	updated.SetValue("YoungsModulus", types.NewStringValue(types.KindQuantity, "210000 MPa"))
	require.NoError(t, store.UpdateMaterial("base", "Mechanical", updated))

	_, got, err := store.GetMaterial("mat1")
	require.NoError(t, err)
	assert.Equal(t, "Mild Steel", got.Name)
	assert.Equal(t, "ACME Labs", got.Author)
	assert.Equal(t, "Mechanical", got.Directory)
	assert.Equal(t, []string{"new"}, got.Tags)
	assert.Empty(t, got.PhysicalModels)
	assert.NotContains(t, got.Properties, "Density")
	require.Contains(t, got.Properties, "YoungsModulus")
	assert.Equal(t, "210000 MPa", got.Properties["YoungsModulus"].String)
}

func cellValue(row, column int) string {
	return string(rune('a'+row)) + string(rune('0'+column))
}

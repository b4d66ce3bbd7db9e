package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeOf(t *testing.T) {
	assert.Equal(t, ShapeString, ShapeOf(KindQuantity))
	assert.Equal(t, ShapeString, ShapeOf("String"))
	assert.Equal(t, ShapeString, ShapeOf("SomeFutureKind"))
	assert.Equal(t, ShapeLongString, ShapeOf(KindSVG))
	assert.Equal(t, ShapeLongString, ShapeOf(KindImage))
	assert.Equal(t, ShapeStringList, ShapeOf(KindList))
	assert.Equal(t, ShapeStringList, ShapeOf(KindFileList))
	assert.Equal(t, ShapeLongStringList, ShapeOf(KindImageList))
	assert.Equal(t, ShapeArray2D, ShapeOf(KindArray2D))
	assert.Equal(t, ShapeArray3D, ShapeOf(KindArray3D))
}

func TestArray2DBounds(t *testing.T) {
	array := NewArray2D(2, 3)

	require.NoError(t, array.SetValue(1, 2, "x"))
	value, err := array.Value(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "x", value)

	assert.ErrorIs(t, array.SetValue(2, 0, "x"), ErrArrayBounds)
	assert.ErrorIs(t, array.SetValue(0, 3, "x"), ErrArrayBounds)
	assert.ErrorIs(t, array.SetValue(-1, 0, "x"), ErrArrayBounds)
	_, err = array.Value(2, 0)
	assert.ErrorIs(t, err, ErrArrayBounds)
}

func TestArray3DDepths(t *testing.T) {
	array := NewArray3D(2)
	assert.Zero(t, array.Depth())
	assert.Zero(t, array.MaxRows())

	first := array.AddDepth("low", 2)
	second := array.AddDepth("high", 4)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 2, array.Depth())
	assert.Equal(t, 4, array.MaxRows())

	label, err := array.DepthLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "high", label)
	rows, err := array.DepthRows(0)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
}

func TestArray3DBounds(t *testing.T) {
	array := NewArray3D(2)
	array.AddDepth("only", 2)

	require.NoError(t, array.SetValue(0, 1, 1, "x"))
	value, err := array.Value(0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "x", value)

	assert.ErrorIs(t, array.SetValue(1, 0, 0, "x"), ErrArrayBounds)
	assert.ErrorIs(t, array.SetValue(0, 2, 0, "x"), ErrArrayBounds)
	assert.ErrorIs(t, array.SetValue(0, 0, 2, "x"), ErrArrayBounds)
	_, err = array.Value(0, 0, 2)
	assert.ErrorIs(t, err, ErrArrayBounds)
	_, err = array.DepthLabel(1)
	assert.ErrorIs(t, err, ErrArrayBounds)
	_, err = array.DepthRows(-1)
	assert.ErrorIs(t, err, ErrArrayBounds)
}

func TestMaterialAddTagDeduplicates(t *testing.T) {
	material := &Material{}
	material.AddTag("metal")
	material.AddTag("metal")
	material.AddTag("steel")
	assert.Equal(t, []string{"metal", "steel"}, material.Tags)
}

package types

import "fmt"

// Property kind tags with a dedicated storage shape. Any tag not listed here
// is stored as a plain short string.
const (
	KindQuantity  = "Quantity"
	KindList      = "List"
	KindFileList  = "FileList"
	KindImageList = "ImageList"
	KindSVG       = "SVG"
	KindImage     = "Image"
	KindArray2D   = "2DArray"
	KindArray3D   = "3DArray"
)

// Shape identifies how a property value is stored. Kinds map 1:1 to shapes.
type Shape int

const (
	ShapeString Shape = iota
	ShapeLongString
	ShapeStringList
	ShapeLongStringList
	ShapeArray2D
	ShapeArray3D
)

// ShapeOf returns the storage shape for a property kind tag.
func ShapeOf(kind string) Shape {
	switch kind {
	case KindArray2D:
		return ShapeArray2D
	case KindArray3D:
		return ShapeArray3D
	case KindSVG, KindImage:
		return ShapeLongString
	case KindList, KindFileList:
		return ShapeStringList
	case KindImageList:
		return ShapeLongStringList
	}
	return ShapeString
}

// PropertyValue is the concrete payload for one property on one material.
// Type carries the kind tag copied from the defining model property; exactly
// one payload field is meaningful, selected by ShapeOf(Type).
type PropertyValue struct {
	Type string

	// Empty marks a Quantity with no value. Empty values are never persisted
	// and decode as absent rather than as an empty string.
	Empty bool

	String  string    // ShapeString, ShapeLongString
	List    []string  // ShapeStringList, ShapeLongStringList
	Array2D *Array2D  // ShapeArray2D
	Array3D *Array3D  // ShapeArray3D
}

// NewStringValue returns a scalar value with the given kind tag.
func NewStringValue(kind, value string) *PropertyValue {
	return &PropertyValue{Type: kind, String: value}
}

// NewListValue returns an ordered list value with the given kind tag.
func NewListValue(kind string, values []string) *PropertyValue {
	return &PropertyValue{Type: kind, List: values}
}

// Array2D is a grid of short text addressed by (row, column). The column
// count is fixed at creation.
type Array2D struct {
	rows    int
	columns int
	cells   [][]string
}

// NewArray2D creates a rows by columns grid with empty cells.
func NewArray2D(rows, columns int) *Array2D {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, columns)
	}
	return &Array2D{rows: rows, columns: columns, cells: cells}
}

// Rows returns the declared row count.
func (a *Array2D) Rows() int { return a.rows }

// Columns returns the declared column count.
func (a *Array2D) Columns() int { return a.columns }

// SetValue stores a cell value. Returns ErrArrayBounds when the address is
// outside the declared bounds.
func (a *Array2D) SetValue(row, column int, value string) error {
	if row < 0 || row >= a.rows || column < 0 || column >= a.columns {
		return fmt.Errorf("%w: (%d, %d) in %dx%d array", ErrArrayBounds, row, column, a.rows, a.columns)
	}
	a.cells[row][column] = value
	return nil
}

// Value returns a cell value.
func (a *Array2D) Value(row, column int) (string, error) {
	if row < 0 || row >= a.rows || column < 0 || column >= a.columns {
		return "", fmt.Errorf("%w: (%d, %d) in %dx%d array", ErrArrayBounds, row, column, a.rows, a.columns)
	}
	return a.cells[row][column], nil
}

// Array3D is a stack of 2D grids addressed by (depth, row, column). Each
// depth carries its own label and row count; the column count is shared and
// fixed at creation.
type Array3D struct {
	columns int
	depths  []array3DDepth
}

type array3DDepth struct {
	label string
	cells [][]string
}

// NewArray3D creates an empty stack with the given shared column count.
func NewArray3D(columns int) *Array3D {
	return &Array3D{columns: columns}
}

// Columns returns the shared column count.
func (a *Array3D) Columns() int { return a.columns }

// Depth returns the number of depth slices.
func (a *Array3D) Depth() int { return len(a.depths) }

// AddDepth appends a depth slice with the given label and row count and
// returns its depth index.
func (a *Array3D) AddDepth(label string, rows int) int {
	cells := make([][]string, rows)
	for i := range cells {
		cells[i] = make([]string, a.columns)
	}
	a.depths = append(a.depths, array3DDepth{label: label, cells: cells})
	return len(a.depths) - 1
}

// DepthLabel returns the label of a depth slice.
func (a *Array3D) DepthLabel(depth int) (string, error) {
	if depth < 0 || depth >= len(a.depths) {
		return "", fmt.Errorf("%w: depth %d of %d", ErrArrayBounds, depth, len(a.depths))
	}
	return a.depths[depth].label, nil
}

// DepthRows returns the row count of a depth slice.
func (a *Array3D) DepthRows(depth int) (int, error) {
	if depth < 0 || depth >= len(a.depths) {
		return 0, fmt.Errorf("%w: depth %d of %d", ErrArrayBounds, depth, len(a.depths))
	}
	return len(a.depths[depth].cells), nil
}

// MaxRows returns the largest row count across all depth slices.
func (a *Array3D) MaxRows() int {
	rows := 0
	for _, d := range a.depths {
		if len(d.cells) > rows {
			rows = len(d.cells)
		}
	}
	return rows
}

// SetValue stores a cell value. Returns ErrArrayBounds when the address is
// outside the declared bounds of the depth slice.
func (a *Array3D) SetValue(depth, row, column int, value string) error {
	if depth < 0 || depth >= len(a.depths) {
		return fmt.Errorf("%w: depth %d of %d", ErrArrayBounds, depth, len(a.depths))
	}
	cells := a.depths[depth].cells
	if row < 0 || row >= len(cells) || column < 0 || column >= a.columns {
		return fmt.Errorf("%w: (%d, %d, %d)", ErrArrayBounds, depth, row, column)
	}
	cells[row][column] = value
	return nil
}

// Value returns a cell value.
func (a *Array3D) Value(depth, row, column int) (string, error) {
	if depth < 0 || depth >= len(a.depths) {
		return "", fmt.Errorf("%w: depth %d of %d", ErrArrayBounds, depth, len(a.depths))
	}
	cells := a.depths[depth].cells
	if row < 0 || row >= len(cells) || column < 0 || column >= a.columns {
		return "", fmt.Errorf("%w: (%d, %d, %d)", ErrArrayBounds, depth, row, column)
	}
	return cells[row][column], nil
}

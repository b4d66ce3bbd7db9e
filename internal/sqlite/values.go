package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/dukaforge/materialdb/pkg/types"
)

// Property value codec. Each property is one material_property_value row
// carrying the kind tag; the payload lives in the kind-specific table(s),
// keyed by the generated value id. Dispatch is purely on the kind tag.

// encodeProperty persists one property value for a material. Empty Quantity
// values and nil payloads are skipped entirely so they decode as absent.
func (s *Store) encodeProperty(materialUUID, name string, value *types.PropertyValue, libraryID int64) error {
	if value == nil {
		return nil
	}

	switch types.ShapeOf(value.Type) {
	case types.ShapeString:
		if value.Type == types.KindQuantity && value.Empty {
			return nil
		}
		return s.encodeString(materialUUID, name, value.Type, value.String, libraryID)
	case types.ShapeLongString:
		return s.encodeLongString(materialUUID, name, value.Type, value.String, libraryID)
	case types.ShapeStringList:
		return s.encodeList(materialUUID, name, value.Type, value.List, libraryID)
	case types.ShapeLongStringList:
		return s.encodeLongList(materialUUID, name, value.Type, value.List, libraryID)
	case types.ShapeArray2D:
		return s.encodeArray2D(materialUUID, name, value.Type, value.Array2D, libraryID)
	case types.ShapeArray3D:
		return s.encodeArray3D(materialUUID, name, value.Type, value.Array3D, libraryID)
	}
	return fmt.Errorf("%w: %q", types.ErrUnknownShape, value.Type)
}

// insertPropertyValue writes the shared identity row and returns its
// generated id, the foreign key for all payload rows.
func (s *Store) insertPropertyValue(materialUUID, name, kind string, libraryID int64) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO material_property_value (material_id, material_property_name, material_property_type) VALUES (?, ?, ?)",
		materialUUID, name, kind,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting property value %q: %w", name, err)
	}
	s.touchLibrary(libraryID)
	return lastInsertID(res)
}

func (s *Store) encodeString(materialUUID, name, kind, value string, libraryID int64) error {
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO material_property_string_value (material_property_value_id, material_property_value) VALUES (?, ?)",
		valueID, value,
	)
	return err
}

func (s *Store) encodeLongString(materialUUID, name, kind, value string, libraryID int64) error {
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		"INSERT INTO material_property_long_string_value (material_property_value_id, material_property_value) VALUES (?, ?)",
		valueID, value,
	)
	return err
}

func (s *Store) encodeList(materialUUID, name, kind string, list []string, libraryID int64) error {
	if list == nil {
		return nil
	}
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}
	for i, entry := range list {
		_, err := s.db.Exec(
			"INSERT INTO material_property_string_value (material_property_value_id, material_property_value_ordinal, material_property_value) VALUES (?, ?, ?)",
			valueID, i, entry,
		)
		if err != nil {
			return fmt.Errorf("inserting list entry %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) encodeLongList(materialUUID, name, kind string, list []string, libraryID int64) error {
	if list == nil {
		return nil
	}
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}
	for i, entry := range list {
		_, err := s.db.Exec(
			"INSERT INTO material_property_long_string_value (material_property_value_id, material_property_value_ordinal, material_property_value) VALUES (?, ?, ?)",
			valueID, i, entry,
		)
		if err != nil {
			return fmt.Errorf("inserting list entry %d: %w", i, err)
		}
	}
	return nil
}

// encodeArray2D writes one description row carrying both dimensions, then one
// cell row per (row, column) pair.
func (s *Store) encodeArray2D(materialUUID, name, kind string, array *types.Array2D, libraryID int64) error {
	if array == nil {
		return nil
	}
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO material_property_array_description (material_property_value_id, material_property_array_rows, material_property_array_columns) VALUES (?, ?, ?)",
		valueID, array.Rows(), array.Columns(),
	)
	if err != nil {
		return fmt.Errorf("inserting array description: %w", err)
	}

	for row := 0; row < array.Rows(); row++ {
		for column := 0; column < array.Columns(); column++ {
			cell, err := array.Value(row, column)
			if err != nil {
				return err
			}
			_, err = s.db.Exec(
				"INSERT INTO material_property_array_value (material_property_value_id, material_property_value_row, material_property_value_column, material_property_value) VALUES (?, ?, ?, ?)",
				valueID, row, column, cell,
			)
			if err != nil {
				return fmt.Errorf("inserting cell (%d, %d): %w", row, column, err)
			}
		}
	}
	return nil
}

// encodeArray3D writes one description row (max rows across depths, columns,
// depth count), one label row per depth carrying the depth index as its
// ordinal, then one cell row per (depth, row, column). Each cell carries its
// depth's row count redundantly for decode convenience; rows may vary by
// depth.
func (s *Store) encodeArray3D(materialUUID, name, kind string, array *types.Array3D, libraryID int64) error {
	if array == nil {
		return nil
	}
	valueID, err := s.insertPropertyValue(materialUUID, name, kind, libraryID)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO material_property_array_description (material_property_value_id, material_property_array_rows, material_property_array_columns, material_property_array_depth) VALUES (?, ?, ?, ?)",
		valueID, array.MaxRows(), array.Columns(), array.Depth(),
	)
	if err != nil {
		return fmt.Errorf("inserting array description: %w", err)
	}

	for depth := 0; depth < array.Depth(); depth++ {
		label, err := array.DepthLabel(depth)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(
			"INSERT INTO material_property_string_value (material_property_value_id, material_property_value_ordinal, material_property_value) VALUES (?, ?, ?)",
			valueID, depth, label,
		)
		if err != nil {
			return fmt.Errorf("inserting depth label %d: %w", depth, err)
		}
	}

	for depth := 0; depth < array.Depth(); depth++ {
		depthRows, err := array.DepthRows(depth)
		if err != nil {
			return err
		}
		for row := 0; row < depthRows; row++ {
			for column := 0; column < array.Columns(); column++ {
				cell, err := array.Value(depth, row, column)
				if err != nil {
					return err
				}
				_, err = s.db.Exec(
					"INSERT INTO material_property_array_value (material_property_value_id, material_property_value_row, material_property_value_column, material_property_value_depth, material_property_value_depth_rows, material_property_value) VALUES (?, ?, ?, ?, ?, ?)",
					valueID, row, column, depth, depthRows, cell,
				)
				if err != nil {
					return fmt.Errorf("inserting cell (%d, %d, %d): %w", depth, row, column, err)
				}
			}
		}
	}
	return nil
}

// decodeProperty restores a typed property value from its payload table,
// given only the recorded kind. A missing payload decodes to nil (absent).
func (s *Store) decodeProperty(valueID int64, kind string) (*types.PropertyValue, error) {
	switch types.ShapeOf(kind) {
	case types.ShapeString:
		return s.decodeString(valueID, kind)
	case types.ShapeLongString:
		return s.decodeLongString(valueID, kind)
	case types.ShapeStringList:
		return s.decodeList(valueID, kind)
	case types.ShapeLongStringList:
		return s.decodeLongList(valueID, kind)
	case types.ShapeArray2D:
		return s.decodeArray2D(valueID, kind)
	case types.ShapeArray3D:
		return s.decodeArray3D(valueID, kind)
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownShape, kind)
}

func (s *Store) decodeString(valueID int64, kind string) (*types.PropertyValue, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT material_property_value FROM material_property_string_value WHERE material_property_value_id = ?",
		valueID,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return types.NewStringValue(kind, value), nil
}

func (s *Store) decodeLongString(valueID int64, kind string) (*types.PropertyValue, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT material_property_value FROM material_property_long_string_value WHERE material_property_value_id = ?",
		valueID,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return types.NewStringValue(kind, value), nil
}

func (s *Store) decodeList(valueID int64, kind string) (*types.PropertyValue, error) {
	list, err := s.scanOrderedValues("material_property_string_value", valueID)
	if err != nil {
		return nil, err
	}
	return types.NewListValue(kind, list), nil
}

func (s *Store) decodeLongList(valueID int64, kind string) (*types.PropertyValue, error) {
	list, err := s.scanOrderedValues("material_property_long_string_value", valueID)
	if err != nil {
		return nil, err
	}
	return types.NewListValue(kind, list), nil
}

// scanOrderedValues reads the payload strings for one value id in ordinal
// order.
func (s *Store) scanOrderedValues(table string, valueID int64) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT material_property_value FROM "+table+
			" WHERE material_property_value_id = ? ORDER BY material_property_value_ordinal ASC",
		valueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	return list, rows.Err()
}

func (s *Store) decodeArray2D(valueID int64, kind string) (*types.PropertyValue, error) {
	var arrayRows, columns int
	err := s.db.QueryRow(
		"SELECT material_property_array_rows, material_property_array_columns FROM material_property_array_description WHERE material_property_value_id = ?",
		valueID,
	).Scan(&arrayRows, &columns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	array := types.NewArray2D(arrayRows, columns)

	rows, err := s.db.Query(
		"SELECT material_property_value_row, material_property_value_column, material_property_value FROM material_property_array_value WHERE material_property_value_id = ?",
		valueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row, column int
		var cell string
		if err := rows.Scan(&row, &column, &cell); err != nil {
			return nil, err
		}
		if err := array.SetValue(row, column, cell); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &types.PropertyValue{Type: kind, Array2D: array}, nil
}

func (s *Store) decodeArray3D(valueID int64, kind string) (*types.PropertyValue, error) {
	var depthCount, columns int
	err := s.db.QueryRow(
		"SELECT material_property_array_depth, material_property_array_columns FROM material_property_array_description WHERE material_property_value_id = ?",
		valueID,
	).Scan(&depthCount, &columns)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	labels, err := s.scanOrderedValues("material_property_string_value", valueID)
	if err != nil {
		return nil, err
	}

	type cell struct {
		depth, row, column int
		value              string
	}
	rows, err := s.db.Query(
		"SELECT material_property_value_depth, material_property_value_row, material_property_value_column, material_property_value_depth_rows, material_property_value FROM material_property_array_value WHERE material_property_value_id = ?",
		valueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rowsPerDepth := make([]int, depthCount)
	var cells []cell
	for rows.Next() {
		var c cell
		var depthRows int
		if err := rows.Scan(&c.depth, &c.row, &c.column, &depthRows, &c.value); err != nil {
			return nil, err
		}
		if c.depth >= 0 && c.depth < depthCount {
			rowsPerDepth[c.depth] = depthRows
		}
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	array := types.NewArray3D(columns)
	for depth := 0; depth < depthCount; depth++ {
		label := ""
		if depth < len(labels) {
			label = labels[depth]
		}
		array.AddDepth(label, rowsPerDepth[depth])
	}
	for _, c := range cells {
		if err := array.SetValue(c.depth, c.row, c.column, c.value); err != nil {
			return nil, err
		}
	}
	return &types.PropertyValue{Type: kind, Array3D: array}, nil
}

// decodeMaterialProperties reads the flat name index for a material and
// decodes every value through the codec.
func (s *Store) decodeMaterialProperties(materialUUID string) (map[string]*types.PropertyValue, error) {
	rows, err := s.db.Query(
		"SELECT material_property_value_id, material_property_name, material_property_type FROM material_property_value WHERE material_id = ?",
		materialUUID,
	)
	if err != nil {
		return nil, err
	}

	type entry struct {
		id   int64
		kind string
	}
	index := make(map[string]entry)
	for rows.Next() {
		var name string
		var e entry
		if err := rows.Scan(&e.id, &name, &e.kind); err != nil {
			rows.Close()
			return nil, err
		}
		index[name] = e
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	properties := make(map[string]*types.PropertyValue, len(index))
	for name, e := range index {
		value, err := s.decodeProperty(e.id, e.kind)
		if err != nil {
			return nil, fmt.Errorf("decoding property %q: %w", name, err)
		}
		if value != nil {
			properties[name] = value
		}
	}
	return properties, nil
}

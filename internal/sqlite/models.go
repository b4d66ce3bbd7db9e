package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukaforge/materialdb/pkg/types"
)

// CreateModel persists a model into a library, placing it under the given
// folder path. Fails with ErrModelExists when the identifier is already
// present. An unknown library name is skipped silently.
func (s *Store) CreateModel(libraryName, path string, model *types.Model) error {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrModelCreate, err)
	}
	if libraryID == 0 {
		s.log.Warn().Str("library", libraryName).Str("model", model.UUID).
			Msg("create model skipped, library not found")
		return nil
	}

	err = s.createModel(libraryID, path, model)
	if errors.Is(err, types.ErrModelExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrModelCreate, err)
	}
	return nil
}

func (s *Store) createModel(libraryID int64, path string, model *types.Model) error {
	folderID, err := s.resolvePath(libraryID, path)
	if err != nil {
		return err
	}

	var existing string
	err = s.db.QueryRow("SELECT model_id FROM model WHERE model_id = ?", model.UUID).Scan(&existing)
	if err == nil {
		return types.ErrModelExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO model (model_id, library_id, folder_id, model_name, model_type, model_url, model_description, model_doi) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		model.UUID, libraryID, nullableID(folderID),
		model.Name, model.Type, model.URL, model.Description, model.DOI,
	)
	if err != nil {
		return fmt.Errorf("inserting model: %w", err)
	}

	for _, inherit := range model.Inherited {
		if err := s.createInheritance(model.UUID, inherit, libraryID); err != nil {
			return err
		}
	}
	for _, prop := range model.Properties {
		if err := s.createModelProperty(model.UUID, prop, libraryID); err != nil {
			return err
		}
	}
	s.touchLibrary(libraryID)
	return nil
}

// createInheritance records one inheritance edge, skipping duplicates.
// Foreign key checks are relaxed around the insert: mass loads may insert
// models out of sequence, and the referenced model may not exist yet.
func (s *Store) createInheritance(modelUUID, inheritUUID string, libraryID int64) error {
	var id int64
	err := s.db.QueryRow(
		"SELECT model_inheritance_id FROM model_inheritance WHERE model_id = ? AND inherits_id = ?",
		modelUUID, inheritUUID,
	).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	s.relaxForeignKeys()
	defer s.restoreForeignKeys()

	_, err = s.db.Exec(
		"INSERT INTO model_inheritance (model_id, inherits_id) VALUES (?, ?)",
		modelUUID, inheritUUID,
	)
	if err != nil {
		return fmt.Errorf("inserting inheritance edge: %w", err)
	}
	s.touchLibrary(libraryID)
	return nil
}

// createModelProperty inserts one property definition with its columns.
// Inherited definitions are never persisted with the declaring model. A
// definition whose name already exists is left untouched.
func (s *Store) createModelProperty(modelUUID string, prop *types.ModelProperty, libraryID int64) error {
	if prop.Inherited {
		return nil
	}

	var id int64
	err := s.db.QueryRow(
		"SELECT model_property_id FROM model_property WHERE model_id = ? AND model_property_name = ?",
		modelUUID, prop.Name,
	).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := s.db.Exec(
		"INSERT INTO model_property (model_id, model_property_name, model_property_display_name, model_property_type, model_property_units, model_property_url, model_property_description) VALUES (?, ?, ?, ?, ?, ?, ?)",
		modelUUID, prop.Name, prop.DisplayName, prop.Type, prop.Units, prop.URL, prop.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting property %q: %w", prop.Name, err)
	}
	propertyID, err := lastInsertID(res)
	if err != nil {
		return err
	}

	for _, column := range prop.Columns {
		if err := s.createModelPropertyColumn(propertyID, column); err != nil {
			return err
		}
	}
	s.touchLibrary(libraryID)
	return nil
}

func (s *Store) createModelPropertyColumn(propertyID int64, column *types.ModelProperty) error {
	var id int64
	err := s.db.QueryRow(
		"SELECT model_property_column_id FROM model_property_column WHERE model_property_id = ? AND model_property_name = ?",
		propertyID, column.Name,
	).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO model_property_column (model_property_id, model_property_name, model_property_display_name, model_property_type, model_property_units, model_property_url, model_property_description) VALUES (?, ?, ?, ?, ?, ?, ?)",
		propertyID, column.Name, column.DisplayName, column.Type, column.Units, column.URL, column.Description,
	)
	if err != nil {
		return fmt.Errorf("inserting property column %q: %w", column.Name, err)
	}
	return nil
}

// UpdateModel updates a model in place. Mutable fields and folder placement
// are rewritten, inheritance edges are fully replaced, and property
// definitions are diffed by name: stale names are deleted, new names are
// inserted, and matching names keep their existing row identity. Fails with
// ErrModelNotFound when the identifier is absent.
func (s *Store) UpdateModel(libraryName, path string, model *types.Model) error {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrModelUpdate, err)
	}
	if libraryID == 0 {
		s.log.Warn().Str("library", libraryName).Str("model", model.UUID).
			Msg("update model skipped, library not found")
		return nil
	}

	err = s.updateModel(libraryID, path, model)
	if errors.Is(err, types.ErrModelNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrModelUpdate, err)
	}
	return nil
}

func (s *Store) updateModel(libraryID int64, path string, model *types.Model) error {
	folderID, err := s.resolvePath(libraryID, path)
	if err != nil {
		return err
	}

	var existing string
	err = s.db.QueryRow("SELECT model_id FROM model WHERE model_id = ?", model.UUID).Scan(&existing)
	if err == sql.ErrNoRows {
		return types.ErrModelNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"UPDATE model SET folder_id = ?, model_name = ?, model_type = ?, model_url = ?, model_description = ?, model_doi = ? WHERE model_id = ?",
		nullableID(folderID), model.Name, model.Type, model.URL, model.Description, model.DOI, model.UUID,
	)
	if err != nil {
		return fmt.Errorf("updating model: %w", err)
	}

	// Inheritance edges are replaced wholesale.
	if _, err := s.db.Exec("DELETE FROM model_inheritance WHERE model_id = ?", model.UUID); err != nil {
		return fmt.Errorf("deleting inheritance edges: %w", err)
	}
	for _, inherit := range model.Inherited {
		if err := s.createInheritance(model.UUID, inherit, libraryID); err != nil {
			return err
		}
	}

	if err := s.diffModelProperties(model); err != nil {
		return err
	}
	for _, prop := range model.Properties {
		if err := s.createModelProperty(model.UUID, prop, libraryID); err != nil {
			return err
		}
	}
	s.touchLibrary(libraryID)
	return nil
}

// diffModelProperties deletes the property definitions whose name is no
// longer in the model's property set. Column rows cascade with the
// definition.
func (s *Store) diffModelProperties(model *types.Model) error {
	rows, err := s.db.Query(
		"SELECT model_property_id, model_property_name FROM model_property WHERE model_id = ?",
		model.UUID,
	)
	if err != nil {
		return err
	}

	existing := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return err
		}
		existing[name] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	desired := make(map[string]bool, len(model.Properties))
	for name := range model.Properties {
		desired[name] = true
	}

	stale, _ := splitByName(existing, desired)
	for _, name := range stale {
		if _, err := s.db.Exec(
			"DELETE FROM model_property WHERE model_property_id = ?", existing[name],
		); err != nil {
			return fmt.Errorf("deleting property %q: %w", name, err)
		}
	}
	return nil
}

// splitByName partitions the existing definition names into those absent
// from the desired set (to delete) and those still present (to keep).
func splitByName(existing map[string]int64, desired map[string]bool) (toDelete, toKeep []string) {
	for name := range existing {
		if desired[name] {
			toKeep = append(toKeep, name)
		} else {
			toDelete = append(toDelete, name)
		}
	}
	return toDelete, toKeep
}

// GetModel reconstructs a model and its owning library from storage. The
// returned property set holds only the model's own definitions; callers walk
// the inheritance edges for the effective set.
func (s *Store) GetModel(uuid string) (*types.Library, *types.Model, error) {
	var libraryID int64
	var folderID sql.NullInt64
	model := &types.Model{UUID: uuid}
	var url, description, doi sql.NullString

	err := s.db.QueryRow(
		"SELECT library_id, folder_id, model_type, model_name, model_url, model_description, model_doi FROM model WHERE model_id = ?",
		uuid,
	).Scan(&libraryID, &folderID, &model.Type, &model.Name, &url, &description, &doi)
	if err == sql.ErrNoRows {
		return nil, nil, types.ErrModelNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting model %s: %w", uuid, err)
	}
	model.URL = url.String
	model.Description = description.String
	model.DOI = doi.String

	library, err := s.getLibraryByID(libraryID)
	if err != nil {
		return nil, nil, err
	}

	model.Directory, err = s.FolderPath(folderID.Int64)
	if err != nil {
		return nil, nil, err
	}

	model.Inherited, err = s.getInherits(uuid)
	if err != nil {
		return nil, nil, err
	}

	properties, err := s.getModelProperties(uuid)
	if err != nil {
		return nil, nil, err
	}
	for _, prop := range properties {
		model.AddProperty(prop)
	}

	return library, model, nil
}

func (s *Store) getInherits(uuid string) ([]string, error) {
	rows, err := s.db.Query("SELECT inherits_id FROM model_inheritance WHERE model_id = ?", uuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inherits []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		inherits = append(inherits, id)
	}
	return inherits, rows.Err()
}

// getModelProperties loads the model's own definitions, then backfills each
// definition's columns in a second pass to avoid nested queries.
func (s *Store) getModelProperties(uuid string) ([]*types.ModelProperty, error) {
	rows, err := s.db.Query(
		"SELECT model_property_id, model_property_name, model_property_display_name, model_property_type, model_property_units, model_property_url, model_property_description FROM model_property WHERE model_id = ?",
		uuid,
	)
	if err != nil {
		return nil, err
	}

	var ids []int64
	var properties []*types.ModelProperty
	for rows.Next() {
		var id int64
		prop, err := scanModelProperty(rows, &id)
		if err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		properties = append(properties, prop)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, prop := range properties {
		columns, err := s.getModelPropertyColumns(ids[i])
		if err != nil {
			return nil, err
		}
		for _, column := range columns {
			prop.AddColumn(column)
		}
	}
	return properties, nil
}

func (s *Store) getModelPropertyColumns(propertyID int64) ([]*types.ModelProperty, error) {
	rows, err := s.db.Query(
		"SELECT model_property_column_id, model_property_name, model_property_display_name, model_property_type, model_property_units, model_property_url, model_property_description FROM model_property_column WHERE model_property_id = ?",
		propertyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*types.ModelProperty
	for rows.Next() {
		var id int64
		column, err := scanModelProperty(rows, &id)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func scanModelProperty(rows *sql.Rows, id *int64) (*types.ModelProperty, error) {
	var prop types.ModelProperty
	var description sql.NullString
	if err := rows.Scan(id, &prop.Name, &prop.DisplayName, &prop.Type, &prop.Units, &prop.URL, &description); err != nil {
		return nil, err
	}
	prop.Description = description.String
	return &prop, nil
}

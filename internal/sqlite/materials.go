package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukaforge/materialdb/pkg/types"
)

// CreateMaterial persists a material into a library under the given folder
// path. Fails with ErrMaterialExists when the identifier is already present.
// An unknown library name is skipped silently.
func (s *Store) CreateMaterial(libraryName, path string, material *types.Material) error {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrMaterialCreate, err)
	}
	if libraryID == 0 {
		s.log.Warn().Str("library", libraryName).Str("material", material.UUID).
			Msg("create material skipped, library not found")
		return nil
	}

	err = s.createMaterial(libraryID, path, material)
	if errors.Is(err, types.ErrMaterialExists) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrMaterialCreate, err)
	}
	return nil
}

func (s *Store) createMaterial(libraryID int64, path string, material *types.Material) error {
	folderID, err := s.resolvePath(libraryID, path)
	if err != nil {
		return err
	}

	var existing string
	err = s.db.QueryRow("SELECT material_id FROM material WHERE material_id = ?", material.UUID).Scan(&existing)
	if err == nil {
		return types.ErrMaterialExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	if err := s.insertMaterial(libraryID, folderID, material); err != nil {
		return err
	}
	if err := s.writeMaterialRelations(libraryID, material); err != nil {
		return err
	}
	s.touchLibrary(libraryID)
	return nil
}

// insertMaterial writes the material row. Foreign key checks are relaxed
// around the insert: the parent material or a referenced model may arrive
// later in a batch load.
func (s *Store) insertMaterial(libraryID, folderID int64, material *types.Material) error {
	s.relaxForeignKeys()
	defer s.restoreForeignKeys()

	_, err := s.db.Exec(
		"INSERT INTO material (material_id, library_id, folder_id, material_name, material_author, material_license, material_parent_uuid, material_description, material_url, material_reference) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		material.UUID, libraryID, nullableID(folderID),
		material.Name, material.Author, material.License, nullableString(material.Parent),
		material.Description, material.URL, material.Reference,
	)
	if err != nil {
		return fmt.Errorf("inserting material: %w", err)
	}
	return nil
}

// writeMaterialRelations persists tags, model references, and property
// values for a material whose base row already exists.
func (s *Store) writeMaterialRelations(libraryID int64, material *types.Material) error {
	for _, tag := range material.Tags {
		if err := s.tagMaterial(material.UUID, tag); err != nil {
			return err
		}
	}

	models := append([]string{}, material.PhysicalModels...)
	models = append(models, material.AppearanceModels...)
	for _, modelUUID := range models {
		if err := s.linkMaterialModel(material.UUID, modelUUID); err != nil {
			return err
		}
	}

	for name, value := range material.Properties {
		if err := s.encodeProperty(material.UUID, name, value, libraryID); err != nil {
			return err
		}
	}
	return nil
}

// tagMaterial attaches a tag to a material, creating the tag row on first
// use. Tags are global; the mapping row is per material.
func (s *Store) tagMaterial(materialUUID, tag string) error {
	var tagID int64
	err := s.db.QueryRow(
		"SELECT material_tag_id FROM material_tag WHERE material_tag_name = ?", tag,
	).Scan(&tagID)
	if err == sql.ErrNoRows {
		res, err := s.db.Exec("INSERT INTO material_tag (material_tag_name) VALUES (?)", tag)
		if err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
		tagID, err = lastInsertID(res)
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var mapped int
	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM material_tag_mapping WHERE material_id = ? AND material_tag_id = ?",
		materialUUID, tagID,
	).Scan(&mapped)
	if err != nil {
		return err
	}
	if mapped > 0 {
		return nil
	}

	_, err = s.db.Exec(
		"INSERT INTO material_tag_mapping (material_id, material_tag_id) VALUES (?, ?)",
		materialUUID, tagID,
	)
	if err != nil {
		return fmt.Errorf("mapping tag %q: %w", tag, err)
	}
	return nil
}

// linkMaterialModel records a model reference. The model's own type column
// decides whether the reference reads back as physical or appearance, so the
// link row does not repeat it. Checks are relaxed for forward references.
func (s *Store) linkMaterialModel(materialUUID, modelUUID string) error {
	s.relaxForeignKeys()
	defer s.restoreForeignKeys()

	_, err := s.db.Exec(
		"INSERT INTO material_models (material_id, model_id) VALUES (?, ?)",
		materialUUID, modelUUID,
	)
	if err != nil {
		return fmt.Errorf("linking model %s: %w", modelUUID, err)
	}
	return nil
}

// UpdateMaterial updates a material in place. The base row is rewritten and
// tags, model references, and property values are replaced wholesale. Fails
// with ErrMaterialNotFound when the identifier is absent.
func (s *Store) UpdateMaterial(libraryName, path string, material *types.Material) error {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrMaterialUpdate, err)
	}
	if libraryID == 0 {
		s.log.Warn().Str("library", libraryName).Str("material", material.UUID).
			Msg("update material skipped, library not found")
		return nil
	}

	err = s.updateMaterial(libraryID, path, material)
	if errors.Is(err, types.ErrMaterialNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrMaterialUpdate, err)
	}
	return nil
}

func (s *Store) updateMaterial(libraryID int64, path string, material *types.Material) error {
	folderID, err := s.resolvePath(libraryID, path)
	if err != nil {
		return err
	}

	var existing string
	err = s.db.QueryRow("SELECT material_id FROM material WHERE material_id = ?", material.UUID).Scan(&existing)
	if err == sql.ErrNoRows {
		return types.ErrMaterialNotFound
	}
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"UPDATE material SET folder_id = ?, material_name = ?, material_author = ?, material_license = ?, material_parent_uuid = ?, material_description = ?, material_url = ?, material_reference = ? WHERE material_id = ?",
		nullableID(folderID), material.Name, material.Author, material.License,
		nullableString(material.Parent), material.Description, material.URL, material.Reference,
		material.UUID,
	)
	if err != nil {
		return fmt.Errorf("updating material: %w", err)
	}

	if err := s.clearMaterialRelations(material.UUID); err != nil {
		return err
	}
	if err := s.writeMaterialRelations(libraryID, material); err != nil {
		return err
	}
	s.touchLibrary(libraryID)
	return nil
}

// clearMaterialRelations removes tags, model links, and property values so
// an update can rewrite them. Payload rows go first since they key off the
// value ids.
func (s *Store) clearMaterialRelations(materialUUID string) error {
	const byValue = `material_property_value_id IN (
        SELECT material_property_value_id FROM material_property_value WHERE material_id = ?)`

	stmts := []string{
		"DELETE FROM material_property_array_value WHERE " + byValue,
		"DELETE FROM material_property_array_description WHERE " + byValue,
		"DELETE FROM material_property_string_value WHERE " + byValue,
		"DELETE FROM material_property_long_string_value WHERE " + byValue,
		"DELETE FROM material_property_value WHERE material_id = ?",
		"DELETE FROM material_tag_mapping WHERE material_id = ?",
		"DELETE FROM material_models WHERE material_id = ?",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt, materialUUID); err != nil {
			return fmt.Errorf("clearing material relations: %w", err)
		}
	}
	return nil
}

// GetMaterial reconstructs a material and its owning library from storage.
func (s *Store) GetMaterial(uuid string) (*types.Library, *types.Material, error) {
	var libraryID int64
	var folderID sql.NullInt64
	material := &types.Material{UUID: uuid}
	var author, license, parent, description, url, reference sql.NullString

	err := s.db.QueryRow(
		"SELECT library_id, folder_id, material_name, material_author, material_license, material_parent_uuid, material_description, material_url, material_reference FROM material WHERE material_id = ?",
		uuid,
	).Scan(&libraryID, &folderID, &material.Name, &author, &license, &parent, &description, &url, &reference)
	if err == sql.ErrNoRows {
		return nil, nil, types.ErrMaterialNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getting material %s: %w", uuid, err)
	}
	material.Author = author.String
	material.License = license.String
	material.Parent = parent.String
	material.Description = description.String
	material.URL = url.String
	material.Reference = reference.String

	library, err := s.getLibraryByID(libraryID)
	if err != nil {
		return nil, nil, err
	}

	material.Directory, err = s.FolderPath(folderID.Int64)
	if err != nil {
		return nil, nil, err
	}

	material.Tags, err = s.getMaterialTags(uuid)
	if err != nil {
		return nil, nil, err
	}

	if err := s.getMaterialModels(material); err != nil {
		return nil, nil, err
	}

	material.Properties, err = s.decodeMaterialProperties(uuid)
	if err != nil {
		return nil, nil, err
	}

	return library, material, nil
}

func (s *Store) getMaterialTags(uuid string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT t.material_tag_name FROM material_tag t, material_tag_mapping m WHERE m.material_id = ? AND m.material_tag_id = t.material_tag_id",
		uuid,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// getMaterialModels splits the model references into the physical and
// appearance lists by joining on the model's type. A link whose model is
// still missing carries no type and is dropped from both lists.
func (s *Store) getMaterialModels(material *types.Material) error {
	rows, err := s.db.Query(
		"SELECT mm.model_id, m.model_type FROM material_models mm, model m WHERE mm.material_id = ? AND mm.model_id = m.model_id",
		material.UUID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var modelUUID, modelType string
		if err := rows.Scan(&modelUUID, &modelType); err != nil {
			return err
		}
		switch modelType {
		case types.ModelPhysical:
			material.AddPhysicalModel(modelUUID)
		case types.ModelAppearance:
			material.AddAppearanceModel(modelUUID)
		}
	}
	return rows.Err()
}

// nullableString converts an empty string to NULL for optional self
// referencing columns.
func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

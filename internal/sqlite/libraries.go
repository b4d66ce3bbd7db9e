package sqlite

import (
	"bytes"
	"database/sql"
	"fmt"

	"github.com/dukaforge/materialdb/pkg/types"
)

// CreateLibrary creates a named library. Creating a library that already
// exists with the same icon and read-only flag is a no-op; a name collision
// with different attributes fails with ErrLibraryCreate.
func (s *Store) CreateLibrary(name string, icon []byte, readOnly bool) error {
	var id int64
	var storedIcon []byte
	var storedReadOnly bool
	err := s.db.QueryRow(
		"SELECT library_id, library_icon, library_read_only FROM library WHERE library_name = ?", name,
	).Scan(&id, &storedIcon, &storedReadOnly)

	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(
			"INSERT INTO library (library_name, library_icon, library_read_only) VALUES (?, ?, ?)",
			name, icon, readOnly,
		); err != nil {
			return fmt.Errorf("%w: %w", types.ErrLibraryCreate, err)
		}
		s.log.Info().Str("library", name).Msg("library created")
		return nil
	case err != nil:
		return fmt.Errorf("%w: %w", types.ErrLibraryCreate, err)
	}

	if readOnly == storedReadOnly && bytes.Equal(icon, storedIcon) {
		return nil
	}
	return fmt.Errorf("%w: library %q already exists", types.ErrLibraryCreate, name)
}

// RenameLibrary renames a library in place. Fails with ErrRename when the
// destination name is taken.
func (s *Store) RenameLibrary(oldName, newName string) error {
	existing, err := s.findLibrary(newName)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrRename, err)
	}
	if existing != 0 {
		return fmt.Errorf("%w: destination library name already exists", types.ErrRename)
	}

	if _, err := s.db.Exec(
		"UPDATE library SET library_name = ? WHERE library_name = ?", newName, oldName,
	); err != nil {
		return fmt.Errorf("%w: %w", types.ErrRename, err)
	}
	return nil
}

// ChangeIcon replaces a library's icon.
func (s *Store) ChangeIcon(name string, icon []byte) error {
	if _, err := s.db.Exec(
		"UPDATE library SET library_icon = ? WHERE library_name = ?", icon, name,
	); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIconUpdate, err)
	}
	return nil
}

// RemoveLibrary deletes a library and everything it owns: folders, models,
// materials, and all their property rows. The cascade is issued explicitly,
// leaf tables first, with foreign key enforcement relaxed so self-referential
// rows cannot block the delete.
func (s *Store) RemoveLibrary(name string) error {
	libraryID, err := s.findLibrary(name)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrDelete, err)
	}
	if libraryID == 0 {
		return nil
	}

	s.relaxForeignKeys()
	defer s.restoreForeignKeys()

	const materialValues = `material_property_value_id IN (
        SELECT material_property_value_id FROM material_property_value
        WHERE material_id IN (SELECT material_id FROM material WHERE library_id = ?))`
	const libraryMaterials = `material_id IN (SELECT material_id FROM material WHERE library_id = ?)`
	const libraryModels = `model_id IN (SELECT model_id FROM model WHERE library_id = ?)`

	cascade := []string{
		"DELETE FROM material_property_array_value WHERE " + materialValues,
		"DELETE FROM material_property_array_description WHERE " + materialValues,
		"DELETE FROM material_property_string_value WHERE " + materialValues,
		"DELETE FROM material_property_long_string_value WHERE " + materialValues,
		"DELETE FROM material_property_value WHERE " + libraryMaterials,
		"DELETE FROM material_tag_mapping WHERE " + libraryMaterials,
		"DELETE FROM material_models WHERE " + libraryMaterials,
		"DELETE FROM material WHERE library_id = ?",
		`DELETE FROM model_property_column WHERE model_property_id IN (
            SELECT model_property_id FROM model_property
            WHERE model_id IN (SELECT model_id FROM model WHERE library_id = ?))`,
		"DELETE FROM model_property WHERE " + libraryModels,
		"DELETE FROM model_inheritance WHERE " + libraryModels,
		"DELETE FROM model WHERE library_id = ?",
		"DELETE FROM folder WHERE library_id = ?",
		"DELETE FROM library WHERE library_id = ?",
	}
	for _, stmt := range cascade {
		if _, err := s.db.Exec(stmt, libraryID); err != nil {
			return fmt.Errorf("%w: %w", types.ErrDelete, err)
		}
	}

	s.log.Info().Str("library", name).Msg("library removed")
	return nil
}

// Libraries lists every library.
func (s *Store) Libraries() ([]*types.Library, error) {
	return s.queryLibraries(
		"SELECT library_name, library_icon, library_read_only, library_modified FROM library")
}

// ModelLibraries lists the libraries that contain at least one model.
func (s *Store) ModelLibraries() ([]*types.Library, error) {
	return s.queryLibraries(
		"SELECT DISTINCT l.library_name, l.library_icon, l.library_read_only, l.library_modified" +
			" FROM library l, model m WHERE l.library_id = m.library_id")
}

// MaterialLibraries lists the libraries that contain at least one material.
func (s *Store) MaterialLibraries() ([]*types.Library, error) {
	return s.queryLibraries(
		"SELECT DISTINCT l.library_name, l.library_icon, l.library_read_only, l.library_modified" +
			" FROM library l, material m WHERE l.library_id = m.library_id")
}

func (s *Store) queryLibraries(query string) ([]*types.Library, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying libraries: %w", err)
	}
	defer rows.Close()

	var libraries []*types.Library
	for rows.Next() {
		lib, err := scanLibrary(rows)
		if err != nil {
			return nil, err
		}
		libraries = append(libraries, lib)
	}
	return libraries, rows.Err()
}

// GetLibrary returns one library by name, or ErrLibraryNotFound.
func (s *Store) GetLibrary(name string) (*types.Library, error) {
	row := s.db.QueryRow(
		"SELECT library_name, library_icon, library_read_only, library_modified FROM library WHERE library_name = ?",
		name,
	)
	lib, err := scanLibrary(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// getLibraryByID returns the library owning an entity row.
func (s *Store) getLibraryByID(libraryID int64) (*types.Library, error) {
	row := s.db.QueryRow(
		"SELECT library_name, library_icon, library_read_only, library_modified FROM library WHERE library_id = ?",
		libraryID,
	)
	lib, err := scanLibrary(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLibrary(row scanner) (*types.Library, error) {
	var lib types.Library
	var modified string
	if err := row.Scan(&lib.Name, &lib.Icon, &lib.ReadOnly, &modified); err != nil {
		return nil, err
	}
	lib.Modified = parseTimestamp(modified)
	return &lib, nil
}

// LibraryModels lists the models of a library with their folder paths. The
// path comes from the iterative ancestor walk.
func (s *Store) LibraryModels(libraryName string) ([]types.LibraryObject, error) {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return nil, err
	}
	if libraryID == 0 {
		return nil, types.ErrLibraryNotFound
	}

	rows, err := s.db.Query(
		"SELECT model_id, folder_id, model_name FROM model WHERE library_id = ?", libraryID)
	if err != nil {
		return nil, fmt.Errorf("querying library models: %w", err)
	}

	type modelRow struct {
		uuid     string
		folderID sql.NullInt64
		name     string
	}
	var modelRows []modelRow
	for rows.Next() {
		var m modelRow
		if err := rows.Scan(&m.uuid, &m.folderID, &m.name); err != nil {
			rows.Close()
			return nil, err
		}
		modelRows = append(modelRows, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	objects := make([]types.LibraryObject, 0, len(modelRows))
	for _, m := range modelRows {
		path, err := s.FolderPath(m.folderID.Int64)
		if err != nil {
			return nil, err
		}
		objects = append(objects, types.LibraryObject{UUID: m.uuid, Path: path, Name: m.name})
	}
	return objects, nil
}

// LibraryMaterials lists the materials of a library with their folder paths.
// The path is resolved in-query by the recursive folder expression.
func (s *Store) LibraryMaterials(libraryName string) ([]types.LibraryObject, error) {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return nil, err
	}
	if libraryID == 0 {
		return nil, types.ErrLibraryNotFound
	}

	query := fmt.Sprintf(
		"SELECT m.material_id, %s AS folder_name, m.material_name FROM material m WHERE m.library_id = ?",
		fmt.Sprintf(folderPathExpr, "m.folder_id"),
	)
	rows, err := s.db.Query(query, libraryID)
	if err != nil {
		return nil, fmt.Errorf("querying library materials: %w", err)
	}
	defer rows.Close()

	var objects []types.LibraryObject
	for rows.Next() {
		var obj types.LibraryObject
		var path sql.NullString
		if err := rows.Scan(&obj.UUID, &path, &obj.Name); err != nil {
			return nil, err
		}
		obj.Path = path.String
		objects = append(objects, obj)
	}
	if objects == nil {
		objects = []types.LibraryObject{}
	}
	return objects, rows.Err()
}

package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukaforge/materialdb/pkg/types"
)

// maxFolderDepth bounds the ancestor walk so a corrupted parent link cannot
// loop forever.
const maxFolderDepth = 256

// resolvePath maps a slash-separated folder path to a folder id within a
// library, creating missing segments. Returns 0 for an empty path. Folder
// identity is structural: a segment matching an existing (name, library,
// parent) row reuses that row, so repeated resolution of the same path is
// idempotent.
//
// Each created segment is committed independently of the entity create that
// triggered it; a failed entity create can leave the folders behind.
func (s *Store) resolvePath(libraryID int64, path string) (int64, error) {
	if path == "" {
		return 0, nil
	}

	var parentID int64
	for _, segment := range strings.Split(path, "/") {
		id, err := s.resolveSegment(libraryID, parentID, segment)
		if err != nil {
			return 0, fmt.Errorf("resolving folder %q: %w", segment, err)
		}
		parentID = id
	}
	return parentID, nil
}

// resolveSegment looks up or creates one folder row. parentID 0 means a root
// folder (stored as NULL).
func (s *Store) resolveSegment(libraryID, parentID int64, name string) (int64, error) {
	var id int64
	var err error
	if parentID == 0 {
		err = s.db.QueryRow(
			"SELECT folder_id FROM folder WHERE folder_name = ? AND library_id = ? AND parent_id IS NULL",
			name, libraryID,
		).Scan(&id)
	} else {
		err = s.db.QueryRow(
			"SELECT folder_id FROM folder WHERE folder_name = ? AND library_id = ? AND parent_id = ?",
			name, libraryID, parentID,
		).Scan(&id)
	}
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := s.db.Exec(
		"INSERT INTO folder (folder_name, library_id, parent_id) VALUES (?, ?, ?)",
		name, libraryID, nullableID(parentID),
	)
	if err != nil {
		return 0, err
	}
	id, err = lastInsertID(res)
	if err != nil {
		return 0, err
	}
	s.touchLibrary(libraryID)
	return id, nil
}

// FolderPath resolves a folder id back into its slash-joined path, root
// first. An iterative ancestor walk keeps the behavior independent of the
// store's recursive query support; folderPathExpr is the set-based
// equivalent used inside list queries.
func (s *Store) FolderPath(folderID int64) (string, error) {
	if folderID == 0 {
		return "", nil
	}

	var segments []string
	id := folderID
	for depth := 0; ; depth++ {
		if depth >= maxFolderDepth {
			return "", fmt.Errorf("folder %d: ancestry deeper than %d", folderID, maxFolderDepth)
		}

		var name string
		var parent sql.NullInt64
		err := s.db.QueryRow(
			"SELECT folder_name, parent_id FROM folder WHERE folder_id = ?", id,
		).Scan(&name, &parent)
		if err != nil {
			return "", fmt.Errorf("folder %d: %w", id, err)
		}

		segments = append([]string{name}, segments...)
		if !parent.Valid {
			break
		}
		id = parent.Int64
	}
	return strings.Join(segments, "/"), nil
}

// CreateFolder creates a folder path in a library without placing an entity
// in it. Idempotent.
func (s *Store) CreateFolder(libraryName, path string) error {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return err
	}
	if libraryID == 0 {
		return types.ErrLibraryNotFound
	}
	_, err = s.resolvePath(libraryID, path)
	return err
}

// LibraryFolders lists the full path of every folder in a library, in
// creation order.
func (s *Store) LibraryFolders(libraryName string) ([]string, error) {
	libraryID, err := s.findLibrary(libraryName)
	if err != nil {
		return nil, err
	}
	if libraryID == 0 {
		return nil, types.ErrLibraryNotFound
	}

	query := fmt.Sprintf(
		"SELECT %s FROM folder f WHERE f.library_id = ? ORDER BY f.folder_id ASC",
		fmt.Sprintf(folderPathExpr, "f.folder_id"),
	)
	rows, err := s.db.Query(query, libraryID)
	if err != nil {
		return nil, fmt.Errorf("querying folders: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning folder path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// nullableID converts a 0 id to NULL for optional foreign key columns.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/dukaforge/materialdb/pkg/types"
)

// timestampLayout matches SQLite's CURRENT_TIMESTAMP output.
const timestampLayout = "2006-01-02 15:04:05"

// Store is the shared execution handle for all mappers. It serializes
// statements on a single connection; callers must not run two mutating
// operations concurrently.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens the database at path. The schema is not touched; use Create or
// Provision to build it.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}

	// One connection: keeps PRAGMA scope and statement ordering predictable.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", types.ErrConnection, err)
	}

	return &Store{db: db, log: logger}, nil
}

// Create removes any database at path and opens a freshly provisioned one.
func Create(path string, logger zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no database path", types.ErrDatabaseCreate)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", types.ErrDatabaseCreate, err)
	}

	store, err := Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrDatabaseCreate, err)
	}
	if err := store.Provision(); err != nil {
		store.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("database created")
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Provision drops and recreates every table and index. Idempotent per
// invocation.
func (s *Store) Provision() error {
	if err := s.DropTables(); err != nil {
		return err
	}
	return s.CreateTables()
}

// CreateTables creates all tables and indexes in dependency order.
func (s *Store) CreateTables() error {
	for _, ddl := range schemaDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("%w: %w", types.ErrTableCreate, err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("%w: %w", types.ErrTableCreate, err)
		}
	}
	s.log.Debug().Int("tables", len(schemaDDL)).Msg("tables created")
	return nil
}

// DropTables drops every table. Foreign key enforcement is disabled during
// the drop to avoid ordering constraints.
func (s *Store) DropTables() error {
	s.relaxForeignKeys()
	defer s.restoreForeignKeys()

	for _, name := range tableNames {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
			return fmt.Errorf("%w: drop %s: %w", types.ErrTableCreate, name, err)
		}
	}
	return nil
}

// relaxForeignKeys disables foreign key enforcement. Batch loads may insert
// models and materials out of sequence, referencing rows that do not exist
// yet.
func (s *Store) relaxForeignKeys() {
	if _, err := s.db.Exec("PRAGMA foreign_keys = OFF"); err != nil {
		s.log.Error().Err(err).Msg("unable to relax foreign keys")
	}
}

// restoreForeignKeys re-enables foreign key enforcement.
func (s *Store) restoreForeignKeys() {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		s.log.Error().Err(err).Msg("unable to restore foreign keys")
	}
}

// findLibrary returns the library id for a name, or 0 when the library does
// not exist.
func (s *Store) findLibrary(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT library_id FROM library WHERE library_name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// touchLibrary refreshes the library's modified timestamp.
func (s *Store) touchLibrary(libraryID int64) {
	_, err := s.db.Exec("UPDATE library SET library_modified = CURRENT_TIMESTAMP WHERE library_id = ?", libraryID)
	if err != nil {
		s.log.Error().Err(err).Int64("library_id", libraryID).Msg("unable to update library timestamp")
	}
}

// lastInsertID returns the generated id of the most recent insert.
func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// parseTimestamp converts a stored CURRENT_TIMESTAMP string. A zero time is
// returned for empty or malformed values.
func parseTimestamp(value string) time.Time {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

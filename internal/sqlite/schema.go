// Package sqlite implements the relational persistence layer for material
// libraries: the schema provisioner, folder path resolution, the property
// value codec, and the library, model, and material mappers.
package sqlite

// Schema DDL. Table and column names are the wire contract with existing
// data and must not change.
const (
	createLibrary = `CREATE TABLE library (
    library_id INTEGER PRIMARY KEY AUTOINCREMENT,
    library_name TEXT NOT NULL UNIQUE,
    library_icon BLOB,
    library_read_only INTEGER NOT NULL DEFAULT 0,
    library_modified TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

	createFolder = `CREATE TABLE folder (
    folder_id INTEGER PRIMARY KEY AUTOINCREMENT,
    folder_name TEXT NOT NULL,
    library_id INTEGER NOT NULL,
    parent_id INTEGER,
    FOREIGN KEY (library_id) REFERENCES library(library_id) ON DELETE CASCADE,
    FOREIGN KEY (parent_id) REFERENCES folder(folder_id)
);`

	createModel = `CREATE TABLE model (
    model_id TEXT NOT NULL PRIMARY KEY,
    library_id INTEGER NOT NULL,
    folder_id INTEGER,
    model_type TEXT NOT NULL CHECK (model_type IN ('Physical', 'Appearance')),
    model_name TEXT NOT NULL,
    model_url TEXT,
    model_description TEXT,
    model_doi TEXT,
    FOREIGN KEY (library_id) REFERENCES library(library_id) ON DELETE CASCADE,
    FOREIGN KEY (folder_id) REFERENCES folder(folder_id) ON DELETE CASCADE
);`

	createModelInheritance = `CREATE TABLE model_inheritance (
    model_inheritance_id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_id TEXT NOT NULL,
    inherits_id TEXT NOT NULL,
    FOREIGN KEY (model_id) REFERENCES model(model_id) ON DELETE CASCADE,
    FOREIGN KEY (inherits_id) REFERENCES model(model_id) ON DELETE RESTRICT
);`

	createModelProperty = `CREATE TABLE model_property (
    model_property_id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_id TEXT NOT NULL,
    model_property_name TEXT NOT NULL,
    model_property_display_name TEXT NOT NULL,
    model_property_type TEXT NOT NULL,
    model_property_units TEXT NOT NULL,
    model_property_url TEXT NOT NULL,
    model_property_description TEXT,
    FOREIGN KEY (model_id) REFERENCES model(model_id) ON DELETE CASCADE
);`

	createModelPropertyColumn = `CREATE TABLE model_property_column (
    model_property_column_id INTEGER PRIMARY KEY AUTOINCREMENT,
    model_property_id INTEGER NOT NULL,
    model_property_name TEXT NOT NULL,
    model_property_display_name TEXT NOT NULL,
    model_property_type TEXT NOT NULL,
    model_property_units TEXT NOT NULL,
    model_property_url TEXT NOT NULL,
    model_property_description TEXT,
    FOREIGN KEY (model_property_id) REFERENCES model_property(model_property_id) ON DELETE CASCADE
);`

	createMaterial = `CREATE TABLE material (
    material_id TEXT NOT NULL PRIMARY KEY,
    library_id INTEGER NOT NULL,
    folder_id INTEGER,
    material_name TEXT NOT NULL,
    material_author TEXT,
    material_license TEXT,
    material_parent_uuid TEXT,
    material_description TEXT,
    material_url TEXT,
    material_reference TEXT,
    FOREIGN KEY (library_id) REFERENCES library(library_id) ON DELETE CASCADE,
    FOREIGN KEY (folder_id) REFERENCES folder(folder_id) ON DELETE CASCADE,
    FOREIGN KEY (material_parent_uuid) REFERENCES material(material_id) ON DELETE RESTRICT
);`

	createMaterialTag = `CREATE TABLE material_tag (
    material_tag_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_tag_name TEXT NOT NULL UNIQUE
);`

	createMaterialTagMapping = `CREATE TABLE material_tag_mapping (
    material_id TEXT NOT NULL,
    material_tag_id INTEGER NOT NULL,
    FOREIGN KEY (material_id) REFERENCES material(material_id) ON DELETE CASCADE,
    FOREIGN KEY (material_tag_id) REFERENCES material_tag(material_tag_id) ON DELETE CASCADE
);`

	createMaterialModels = `CREATE TABLE material_models (
    material_id TEXT NOT NULL,
    model_id TEXT NOT NULL,
    FOREIGN KEY (material_id) REFERENCES material(material_id) ON DELETE CASCADE,
    FOREIGN KEY (model_id) REFERENCES model(model_id) ON DELETE CASCADE
);`

	createMaterialPropertyValue = `CREATE TABLE material_property_value (
    material_property_value_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_id TEXT NOT NULL,
    material_property_name TEXT NOT NULL,
    material_property_type TEXT NOT NULL,
    FOREIGN KEY (material_id) REFERENCES material(material_id) ON DELETE CASCADE
);`

	// The ordinal column fixes list ordering and 3D depth label ordering to an
	// explicit index instead of insertion order.
	createMaterialPropertyStringValue = `CREATE TABLE material_property_string_value (
    material_property_string_value_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_property_value_id INTEGER NOT NULL,
    material_property_value_ordinal INTEGER NOT NULL DEFAULT 0,
    material_property_value TEXT NOT NULL,
    FOREIGN KEY (material_property_value_id) REFERENCES material_property_value(material_property_value_id) ON DELETE CASCADE
);`

	createMaterialPropertyLongStringValue = `CREATE TABLE material_property_long_string_value (
    material_property_long_string_value_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_property_value_id INTEGER NOT NULL,
    material_property_value_ordinal INTEGER NOT NULL DEFAULT 0,
    material_property_value TEXT NOT NULL,
    FOREIGN KEY (material_property_value_id) REFERENCES material_property_value(material_property_value_id) ON DELETE CASCADE
);`

	createMaterialPropertyArrayDescription = `CREATE TABLE material_property_array_description (
    material_property_array_description_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_property_value_id INTEGER NOT NULL,
    material_property_array_rows INTEGER NOT NULL,
    material_property_array_columns INTEGER NOT NULL,
    material_property_array_depth INTEGER NOT NULL DEFAULT -1,
    FOREIGN KEY (material_property_value_id) REFERENCES material_property_value(material_property_value_id) ON DELETE CASCADE
);`

	createMaterialPropertyArrayValue = `CREATE TABLE material_property_array_value (
    material_property_array_value_id INTEGER PRIMARY KEY AUTOINCREMENT,
    material_property_value_id INTEGER NOT NULL,
    material_property_value_row INTEGER NOT NULL,
    material_property_value_column INTEGER NOT NULL,
    material_property_value_depth INTEGER NOT NULL DEFAULT -1,
    material_property_value_depth_rows INTEGER NOT NULL DEFAULT -1,
    material_property_value TEXT NOT NULL,
    FOREIGN KEY (material_property_value_id) REFERENCES material_property_value(material_property_value_id) ON DELETE CASCADE
);`
)

// Index DDL for the common lookup paths.
const (
	idxFolderLookup        = `CREATE INDEX idx_folder_lookup ON folder(library_id, folder_name);`
	idxModelLibrary        = `CREATE INDEX idx_model_library ON model(library_id);`
	idxModelInheritance    = `CREATE INDEX idx_model_inheritance ON model_inheritance(model_id);`
	idxModelProperty       = `CREATE INDEX idx_model_property ON model_property(model_id);`
	idxModelPropertyColumn = `CREATE INDEX idx_model_property_column ON model_property_column(model_property_id);`
	idxMaterialLibrary     = `CREATE INDEX idx_material_library ON material(library_id);`
	idxTagMapping          = `CREATE INDEX idx_tag_mapping ON material_tag_mapping(material_id);`
	idxMaterialModels      = `CREATE INDEX idx_material_models ON material_models(material_id);`
	idxPropertyValue       = `CREATE INDEX idx_property_value ON material_property_value(material_id);`
	idxStringValue         = `CREATE INDEX idx_string_value ON material_property_string_value(material_property_value_id);`
	idxLongStringValue     = `CREATE INDEX idx_long_string_value ON material_property_long_string_value(material_property_value_id);`
	idxArrayDescription    = `CREATE INDEX idx_array_description ON material_property_array_description(material_property_value_id);`
	idxArrayValue          = `CREATE INDEX idx_array_value ON material_property_array_value(material_property_value_id);`
)

// tableNames lists every table in creation order. Drops disable foreign key
// enforcement instead of reversing the order.
var tableNames = []string{
	"library",
	"folder",
	"model",
	"model_inheritance",
	"model_property",
	"model_property_column",
	"material",
	"material_tag",
	"material_tag_mapping",
	"material_models",
	"material_property_value",
	"material_property_string_value",
	"material_property_long_string_value",
	"material_property_array_description",
	"material_property_array_value",
}

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createLibrary,
	createFolder,
	createModel,
	createModelInheritance,
	createModelProperty,
	createModelPropertyColumn,
	createMaterial,
	createMaterialTag,
	createMaterialTagMapping,
	createMaterialModels,
	createMaterialPropertyValue,
	createMaterialPropertyStringValue,
	createMaterialPropertyLongStringValue,
	createMaterialPropertyArrayDescription,
	createMaterialPropertyArrayValue,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxFolderLookup,
	idxModelLibrary,
	idxModelInheritance,
	idxModelProperty,
	idxModelPropertyColumn,
	idxMaterialLibrary,
	idxTagMapping,
	idxMaterialModels,
	idxPropertyValue,
	idxStringValue,
	idxLongStringValue,
	idxArrayDescription,
	idxArrayValue,
}

// folderPathExpr is the set-based counterpart of Store.FolderPath, usable as a
// correlated scalar subquery. SQLite has no stored functions, so the recursive
// folder lookup the MySQL schema provisions as GetFolder is expressed inline.
// Parent rows are always inserted before their children, so ordering by
// folder_id yields the path root first.
const folderPathExpr = `(
    WITH RECURSIVE ancestry AS (
        SELECT folder_id, folder_name, parent_id FROM folder WHERE folder_id = %s
        UNION ALL
        SELECT f.folder_id, f.folder_name, f.parent_id
        FROM folder f JOIN ancestry a ON f.folder_id = a.parent_id
    )
    SELECT group_concat(folder_name, '/')
    FROM (SELECT folder_name FROM ancestry ORDER BY folder_id ASC)
)`

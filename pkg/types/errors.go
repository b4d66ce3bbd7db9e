package types

import "errors"

// Connection and provisioning errors.
var (
	ErrConnection     = errors.New("unable to connect to database")
	ErrDatabaseCreate = errors.New("unable to create database")
	ErrTableCreate    = errors.New("unable to create tables")
)

// Library errors.
var (
	ErrLibraryCreate   = errors.New("unable to create library")
	ErrLibraryNotFound = errors.New("library not found")
	ErrIconUpdate      = errors.New("unable to set icon")
)

// Model errors. ErrModelExists and ErrModelNotFound are expected outcomes and
// are never wrapped into the generic create/update errors; callers match on
// them with errors.Is.
var (
	ErrModelCreate   = errors.New("unable to create model")
	ErrModelUpdate   = errors.New("unable to update model")
	ErrModelExists   = errors.New("model already exists")
	ErrModelNotFound = errors.New("model not found")
)

// Material errors.
var (
	ErrMaterialCreate   = errors.New("unable to create material")
	ErrMaterialUpdate   = errors.New("unable to update material")
	ErrMaterialExists   = errors.New("material already exists")
	ErrMaterialNotFound = errors.New("material not found")
)

// Generic mutation errors.
var (
	ErrRename = errors.New("unable to rename object")
	ErrDelete = errors.New("unable to remove object")
)

// Value shape errors.
var (
	ErrArrayBounds  = errors.New("array index out of bounds")
	ErrUnknownShape = errors.New("unknown property value shape")
)

package types

import "time"

// Library is a named ownership root for folders, models, and materials.
// Removing a library cascades to everything it owns.
type Library struct {
	Name     string    // Unique library name.
	Icon     []byte    // Optional icon image bytes.
	ReadOnly bool      // Read-only libraries reject workbench edits.
	Modified time.Time // Timestamp of the last mutation touching the library.
}

// LibraryObject is a summary entry for listing the models or materials of a
// library: the object identifier, its folder path, and its display name.
type LibraryObject struct {
	UUID string
	Path string
	Name string
}

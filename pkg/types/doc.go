// Package types defines the domain model for material libraries: libraries,
// folders, models, materials, property definitions, and the tagged property
// value variants, together with the standard errors raised by the storage and
// transport layers.
package types

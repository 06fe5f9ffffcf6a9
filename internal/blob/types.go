// Package blob is the entry point to archive storage. Callers depend on Store and
// never import the infra backends directly.
package blob

import "chemstate/internal/blob/core"

type (
	// Driver identifies an archive backend.
	Driver = core.Driver
	// PutOptions configures a write.
	PutOptions = core.PutOptions
	// Info describes a stored object.
	Info = core.Info
	// Store is the archive storage interface.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	// ErrNotFound is returned for a missing key.
	ErrNotFound = core.ErrNotFound
	// ErrExists is returned when writing over an existing key.
	ErrExists = core.ErrExists
)

package treewalk

import "errors"

// Standard traversal errors that FileSystem implementations should use.
var (
	// Path resolution errors
	ErrEnvironment = errors.New("treewalk: working directory unavailable")
	ErrInvalidPath = errors.New("treewalk: invalid path")
	ErrRootPath    = errors.New("treewalk: path has no parent")

	// Metadata and listing errors
	ErrNotExist     = errors.New("treewalk: file does not exist")
	ErrPermission   = errors.New("treewalk: permission denied")
	ErrNotDirectory = errors.New("treewalk: not a directory")
	ErrCorruptEntry = errors.New("treewalk: unreadable directory entry")

	// Internal invariant violation: the start path passed its own stat but
	// was not found among its parent's children. Indicates the tree changed
	// underneath the scan.
	ErrSeedNotFound = errors.New("treewalk: start entry not found in parent listing")
)

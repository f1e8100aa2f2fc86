package treewalk

import (
	"context"

	"github.com/mwantia/treewalk/data"
)

// FileSystem is the set of platform primitives the walker consumes. It is
// deliberately narrow: resolving the working directory, reading metadata
// for a path and listing a directory's direct children. Implementations
// live in the mounts package; tests substitute their own.
//
// All paths are absolute, slash-separated paths within the implementation's
// namespace.
type FileSystem interface {
	// Name returns the identifier name defined for this filesystem.
	Name() string

	// WorkingDirectory returns the directory that relative start paths are
	// resolved against. Returns ErrEnvironment when it cannot be determined.
	WorkingDirectory(ctx context.Context) (string, error)

	// Stat returns metadata for the object at path, including its identity.
	// Returns ErrNotExist or ErrPermission wrapped as appropriate.
	Stat(ctx context.Context, path string) (*data.FileStat, error)

	// List returns the direct children of the directory at path, in the
	// implementation's natural order, each with identity populated. A child
	// that exists but cannot be materialized must be reported with an error
	// wrapping ErrCorruptEntry, never silently skipped.
	List(ctx context.Context, path string) ([]*data.FileStat, error)
}

package treewalk

import (
	"context"
	"fmt"
	"path"

	"github.com/mwantia/treewalk/data"
)

// AbsolutePath resolves p against the filesystem's working directory and
// normalizes it lexically (redundant separators, "." and ".." segments).
// No component of p needs to exist for resolution to succeed.
func AbsolutePath(ctx context.Context, fsys FileSystem, p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if !path.IsAbs(p) {
		wd, err := fsys.WorkingDirectory(ctx)
		if err != nil {
			return "", err
		}

		p = path.Join(wd, p)
	}

	return data.ToAbsolutePath(p), nil
}

// ParentPath returns the path with its final component removed, or false
// when the path is a root and has no parent.
func ParentPath(p string) (string, bool) {
	return data.ParentOf(p)
}

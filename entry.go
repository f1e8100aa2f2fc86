package treewalk

import (
	"context"

	"github.com/mwantia/treewalk/data"
)

// DirEntry is an opaque handle to one filesystem object discovered by a
// directory listing. The walker never fabricates one from a bare path; the
// only producers are FileSystem.List and the identity-matched bootstrap in
// New.
type DirEntry struct {
	fsys FileSystem
	stat *data.FileStat
}

func newDirEntry(fsys FileSystem, stat *data.FileStat) *DirEntry {
	return &DirEntry{
		fsys: fsys,
		stat: stat,
	}
}

// Path returns the absolute path of the entry.
func (e *DirEntry) Path() string {
	return e.stat.Path
}

// Name returns the base name of the entry.
func (e *DirEntry) Name() string {
	return e.stat.Name
}

// Identity returns the (device, inode) pair captured when the entry was
// listed.
func (e *DirEntry) Identity() data.Identity {
	return e.stat.Identity()
}

// IsDir reports whether the entry described a directory when it was listed.
func (e *DirEntry) IsDir() bool {
	return e.stat.IsDir()
}

// Info returns the metadata captured when the entry was listed, without
// touching the filesystem.
func (e *DirEntry) Info() *data.FileStat {
	return e.stat
}

// Stat performs a fresh metadata read for the entry and replaces the
// cached record.
func (e *DirEntry) Stat(ctx context.Context) (*data.FileStat, error) {
	stat, err := e.fsys.Stat(ctx, e.stat.Path)
	if err != nil {
		return nil, err
	}

	e.stat = stat
	return stat, nil
}

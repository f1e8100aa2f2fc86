package mounts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"syscall"

	"github.com/mwantia/treewalk"
	"github.com/mwantia/treewalk/data"
)

// LocalMount provides traversal over the real OS filesystem. With an empty
// root the mount exposes the native namespace and reports the true process
// working directory; with a root set, all paths are confined below it and
// the working directory is "/", which makes rooted mounts the natural
// fixture for tests against a temp directory.
type LocalMount struct {
	root string
}

// NewLocal creates a LocalMount. Pass "" for the native namespace or an
// absolute directory path to confine the mount.
func NewLocal(root string) *LocalMount {
	if root != "" {
		root = filepath.Clean(root)
	}

	return &LocalMount{
		root: root,
	}
}

// Name returns the identifier name defined for this filesystem.
func (lm *LocalMount) Name() string {
	return "local"
}

// WorkingDirectory returns the process working directory for native mounts
// and "/" for rooted mounts.
func (lm *LocalMount) WorkingDirectory(ctx context.Context) (string, error) {
	if lm.root != "" {
		return "/", nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", treewalk.ErrEnvironment, err)
	}

	return wd, nil
}

// Stat returns metadata for the object at the given path, without following
// symbolic links.
func (lm *LocalMount) Stat(ctx context.Context, p string) (*data.FileStat, error) {
	full := lm.resolvePath(p)

	info, err := os.Lstat(full)
	if err != nil {
		return nil, translateError(err, p)
	}

	identity, err := fileIdentity(full)
	if err != nil {
		return nil, translateError(err, p)
	}

	return localStat(p, info, identity), nil
}

// List returns the direct children of the directory at the given path, in
// the order the OS reports them.
func (lm *LocalMount) List(ctx context.Context, p string) ([]*data.FileStat, error) {
	full := lm.resolvePath(p)

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, translateError(err, p)
	}

	stats := make([]*data.FileStat, 0, len(entries))
	for _, entry := range entries {
		childPath := path.Join(p, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': %v", treewalk.ErrCorruptEntry, childPath, err)
		}

		identity, err := fileIdentity(filepath.Join(full, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: '%s': %v", treewalk.ErrCorruptEntry, childPath, err)
		}

		stats = append(stats, localStat(childPath, info, identity))
	}

	return stats, nil
}

// resolvePath maps a namespace path onto the OS filesystem.
func (lm *LocalMount) resolvePath(p string) string {
	if lm.root == "" {
		return filepath.FromSlash(p)
	}

	return filepath.Join(lm.root, filepath.FromSlash(path.Clean(p)))
}

// localStat converts os.FileInfo plus identity to a FileStat.
func localStat(p string, info fs.FileInfo, identity data.Identity) *data.FileStat {
	fileType := data.FileTypeFile
	mode := data.FileMode(info.Mode().Perm())

	switch {
	case info.IsDir():
		fileType = data.FileTypeDirectory
		mode |= data.ModeDir
	case info.Mode()&fs.ModeSymlink != 0:
		fileType = data.FileTypeSymlink
		mode |= data.ModeSymlink
	case info.Mode()&fs.ModeSocket != 0:
		fileType = data.FileTypeSocket
		mode |= data.ModeSocket
	case info.Mode()&fs.ModeDevice != 0:
		fileType = data.FileTypeDevice
		mode |= data.ModeDevice
	}

	stat := data.NewStat(p, fileType, mode, info.Size())
	stat.Device = identity.Device
	stat.Inode = identity.Inode
	stat.ModifyTime = info.ModTime()

	return stat
}

// translateError maps OS errors onto the traversal sentinels.
func translateError(err error, p string) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: '%s'", treewalk.ErrPermission, p)
	case errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, p)
	}

	return err
}

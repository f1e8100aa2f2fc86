//go:build unix

package mounts

import (
	"golang.org/x/sys/unix"

	"github.com/mwantia/treewalk/data"
)

// fileIdentity reads the (device, inode) pair for the object at the given
// OS path, without following symbolic links.
func fileIdentity(path string) (data.Identity, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return data.Identity{}, err
	}

	return data.Identity{
		Device: uint64(st.Dev),
		Inode:  uint64(st.Ino),
	}, nil
}

package data

import (
	"path"
	"time"

	"github.com/google/uuid"
)

// NewStat creates a stat record for the object at p.
// Identity is left zero; implementations fill it from their own inode space.
func NewStat(p string, fileType FileType, fileMode FileMode, size int64) *FileStat {
	now := time.Now()

	return &FileStat{
		ID:         genStatID(),
		Path:       p,
		Name:       path.Base(p),
		Type:       fileType,
		Mode:       fileMode,
		Size:       size,
		ModifyTime: now,
		CreateTime: now,
	}
}

// NewFileStat creates a stat record for a regular file.
func NewFileStat(p string, size int64, mode FileMode) *FileStat {
	return NewStat(p, FileTypeFile, mode, size)
}

// NewDirectoryStat creates a stat record for a directory.
func NewDirectoryStat(p string, mode FileMode) *FileStat {
	return NewStat(p, FileTypeDirectory, mode|ModeDir, 0)
}

// NewSymlinkStat creates a stat record for a symbolic link.
func NewSymlinkStat(p string) *FileStat {
	return NewStat(p, FileTypeSymlink, ModeSymlink|0777, 0)
}

func genStatID() string {
	return uuid.Must(uuid.NewV7()).String()
}

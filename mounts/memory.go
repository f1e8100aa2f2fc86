package mounts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/btree"

	"github.com/mwantia/treewalk"
	"github.com/mwantia/treewalk/data"
)

// Synthetic device ids for memory mounts. Each mount instance gets its own
// device so identities never collide across mounts.
var nextMemoryDevice atomic.Uint64

// MemoryMount is a thread-safe in-memory filesystem. Paths are kept in a
// B-tree so listings come back in stable lexical order, which makes it the
// deterministic fixture filesystem for traversal tests. All nodes are lost
// when the mount is released.
type MemoryMount struct {
	mu sync.RWMutex

	// Path index - B-tree for ordered path → node mapping.
	// Enables O(log n) lookups and range scans for directory listings.
	paths *btree.Map[string, *memoryNode]

	device    uint64
	nextInode uint64
	cwd       string
}

// memoryNode holds the metadata of a single file or directory.
type memoryNode struct {
	inode      uint64
	isDir      bool
	symlink    bool
	size       int64
	mode       data.FileMode
	modifyTime time.Time
	createTime time.Time
}

// NewMemory creates a new in-memory filesystem with an empty root directory
// and the working directory set to "/".
func NewMemory() *MemoryMount {
	mm := &MemoryMount{
		paths:  btree.NewMap[string, *memoryNode](0), // degree 0 = auto-optimize
		device: nextMemoryDevice.Add(1),
		cwd:    "/",
	}

	now := time.Now()
	mm.paths.Set("/", &memoryNode{
		inode:      mm.generateInode(),
		isDir:      true,
		mode:       data.ModeDir | 0755,
		modifyTime: now,
		createTime: now,
	})

	return mm
}

// generateInode returns the next unique inode number for this mount.
// Callers must hold the write lock.
func (mm *MemoryMount) generateInode() uint64 {
	mm.nextInode++
	return mm.nextInode
}

// Name returns the identifier name defined for this filesystem.
func (mm *MemoryMount) Name() string {
	return "memory"
}

// WorkingDirectory returns the directory relative paths resolve against.
func (mm *MemoryMount) WorkingDirectory(ctx context.Context) (string, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	return mm.cwd, nil
}

// Chdir changes the working directory. The target must be an existing
// directory.
func (mm *MemoryMount) Chdir(p string) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	p = data.ToAbsolutePath(p)
	node, exists := mm.paths.Get(p)
	if !exists {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}
	if !node.isDir {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, p)
	}

	mm.cwd = p
	return nil
}

// Create creates a new file or directory at the given path.
// Parent directories must exist - they are NOT created automatically.
func (mm *MemoryMount) Create(ctx context.Context, p string, isDir bool) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	p = data.ToAbsolutePath(p)
	if _, exists := mm.paths.Get(p); exists {
		return fmt.Errorf("%w: '%s'", treewalk.ErrInvalidPath, p)
	}

	if err := mm.checkParent(p); err != nil {
		return err
	}

	now := time.Now()
	node := &memoryNode{
		inode:      mm.generateInode(),
		isDir:      isDir,
		mode:       0644,
		modifyTime: now,
		createTime: now,
	}
	if isDir {
		node.mode = data.ModeDir | 0755
	}

	mm.paths.Set(p, node)
	return nil
}

// Symlink creates a symbolic link node at the given path. Links are yielded
// by a traversal but never descended into.
func (mm *MemoryMount) Symlink(ctx context.Context, p string) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	p = data.ToAbsolutePath(p)
	if _, exists := mm.paths.Get(p); exists {
		return fmt.Errorf("%w: '%s'", treewalk.ErrInvalidPath, p)
	}

	if err := mm.checkParent(p); err != nil {
		return err
	}

	now := time.Now()
	mm.paths.Set(p, &memoryNode{
		inode:      mm.generateInode(),
		symlink:    true,
		mode:       data.ModeSymlink | 0777,
		modifyTime: now,
		createTime: now,
	})

	return nil
}

// Remove deletes the node at the given path and, for directories, its
// whole subtree.
func (mm *MemoryMount) Remove(ctx context.Context, p string) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	p = data.ToAbsolutePath(p)
	if _, exists := mm.paths.Get(p); !exists {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}

	prefix := childPrefix(p)
	var doomed []string
	mm.paths.Ascend(p, func(key string, _ *memoryNode) bool {
		if key != p && !strings.HasPrefix(key, prefix) {
			return false
		}
		doomed = append(doomed, key)
		return true
	})

	for _, key := range doomed {
		mm.paths.Delete(key)
	}

	return nil
}

// checkParent verifies the parent directory of p exists.
// Callers must hold the write lock.
func (mm *MemoryMount) checkParent(p string) error {
	parent, ok := data.ParentOf(p)
	if !ok {
		return nil
	}

	node, exists := mm.paths.Get(parent)
	if !exists {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, parent)
	}
	if !node.isDir {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, parent)
	}

	return nil
}

// Stat returns metadata for the object at the given path.
func (mm *MemoryMount) Stat(ctx context.Context, p string) (*data.FileStat, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	p = data.ToAbsolutePath(p)
	node, exists := mm.paths.Get(p)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}

	return mm.statFor(p, node), nil
}

// List returns the direct children of the directory at the given path, in
// lexical order.
func (mm *MemoryMount) List(ctx context.Context, p string) ([]*data.FileStat, error) {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	p = data.ToAbsolutePath(p)
	node, exists := mm.paths.Get(p)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}
	if !node.isDir {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, p)
	}

	prefix := childPrefix(p)

	var stats []*data.FileStat
	mm.paths.Ascend(prefix, func(key string, child *memoryNode) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}

		// The root directory is its own prefix; never list it as a child.
		if key == p {
			return true
		}

		// Range scan covers the whole subtree; keep direct children only.
		if strings.Contains(key[len(prefix):], "/") {
			return true
		}

		stats = append(stats, mm.statFor(key, child))
		return true
	})

	return stats, nil
}

// statFor builds a FileStat for a node. Callers must hold at least the
// read lock.
func (mm *MemoryMount) statFor(p string, node *memoryNode) *data.FileStat {
	fileType := data.FileTypeFile
	switch {
	case node.isDir:
		fileType = data.FileTypeDirectory
	case node.symlink:
		fileType = data.FileTypeSymlink
	}

	stat := data.NewStat(p, fileType, node.mode, node.size)
	stat.Device = mm.device
	stat.Inode = node.inode
	stat.ModifyTime = node.modifyTime
	stat.CreateTime = node.createTime

	return stat
}

// childPrefix returns the key prefix shared by all descendants of p.
func childPrefix(p string) string {
	if p == "/" {
		return "/"
	}
	return p + "/"
}

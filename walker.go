// Package treewalk implements a lazy, pre-order traversal of a filesystem
// tree over a pluggable FileSystem. A TreeWalker yields one directory-entry
// handle per call, visiting each directory before its children and
// descending depth-first. Because an entry handle can only be obtained by
// listing its parent directory, a walker cannot be rooted at a path without
// a parent (the filesystem root).
package treewalk

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/mwantia/treewalk/log"
)

// TreeWalker is the traversal engine. Its entire state is the pending-work
// stack and the fatal-error latch; both live only as long as the walker.
// A TreeWalker is not safe for concurrent use.
type TreeWalker struct {
	fsys FileSystem
	log  *log.Logger

	// Pending entries, last-in-first-out. While production has not
	// terminated and no fatal error has occurred, the top of the stack is
	// the next entry to be yielded.
	stack []*DirEntry

	// Set at most once, never reset. Once set, production is permanently
	// halted even if work remains on the stack.
	fatal bool
}

// New constructs a walker rooted at start. The start path must exist and be
// statable, and must not be a filesystem root: the seed entry is located by
// listing the parent directory and matching the child whose identity
// (device id + inode number) equals the start path's metadata. Any failure
// aborts construction; no partial walker is returned.
func New(ctx context.Context, fsys FileSystem, start string, opts ...WalkerOption) (*TreeWalker, error) {
	options := newDefaultWalkerOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := log.NewLogger("treewalk", options.LogLevel, options.LogFile, options.NoTerminalLog)

	abs, err := AbsolutePath(ctx, fsys, start)
	if err != nil {
		return nil, err
	}

	startStat, err := fsys.Stat(ctx, abs)
	if err != nil {
		return nil, err
	}

	parent, ok := ParentPath(abs)
	if !ok {
		return nil, fmt.Errorf("%w: cannot walk '%s'", ErrRootPath, abs)
	}

	children, err := fsys.List(ctx, parent)
	if err != nil {
		return nil, err
	}

	walker := &TreeWalker{
		fsys: fsys,
		log:  logger,
	}

	// Scan the parent's children in listing order for the object the start
	// path refers to. Identity is unique among siblings, so the first match
	// ends the scan.
	identity := startStat.Identity()
	for _, child := range children {
		if child.Identity().Equal(identity) {
			walker.stack = append(walker.stack, newDirEntry(fsys, child))
			break
		}
	}

	if len(walker.stack) != 1 {
		return nil, fmt.Errorf("%w: '%s' (%s) missing from '%s'", ErrSeedNotFound, abs, identity, parent)
	}

	logger.Debug("Seeded traversal at '%s' with identity %s", abs, identity)

	return walker, nil
}

// Next produces the next entry of the traversal. It returns (nil, nil) when
// the sequence has ended, either through normal exhaustion or after a fatal
// error has been yielded. A non-nil error is an in-band production error:
// metadata failures and corrupt listing entries end the sequence
// permanently, while a failure to list a single directory only loses that
// directory's children and later calls continue with the remaining stack.
func (tw *TreeWalker) Next(ctx context.Context) (*DirEntry, error) {
	// The latch keeps a traversal whose assumptions broke from faulting
	// again on every call.
	if tw.fatal {
		return nil, nil
	}

	if len(tw.stack) == 0 {
		return nil, nil
	}

	entry := tw.stack[len(tw.stack)-1]
	tw.stack = tw.stack[:len(tw.stack)-1]

	// A fresh metadata read classifies the popped entry. Without it the
	// entry cannot be expanded or reported truthfully, so failure here
	// halts the traversal.
	stat, err := entry.Stat(ctx)
	if err != nil {
		tw.fatal = true
		tw.log.Error("Metadata read for '%s' failed, halting traversal: %v", entry.Path(), err)
		return nil, err
	}

	if stat.IsDir() {
		children, err := tw.fsys.List(ctx, entry.Path())
		if err != nil {
			if errors.Is(err, ErrCorruptEntry) {
				tw.fatal = true
				tw.log.Error("Corrupt entry while listing '%s', halting traversal: %v", entry.Path(), err)
				return nil, err
			}

			// Listing failures are scoped to this directory. Its subtree
			// is lost but everything still on the stack stays walkable.
			tw.log.Warn("Listing '%s' failed, skipping subtree: %v", entry.Path(), err)
			return nil, err
		}

		// Push in reverse listing order so the next pops reproduce the
		// original order.
		for i := len(children) - 1; i >= 0; i-- {
			tw.stack = append(tw.stack, newDirEntry(tw.fsys, children[i]))
		}

		tw.log.Debug("Expanded '%s' into %d entries", entry.Path(), len(children))
	}

	return entry, nil
}

// All returns an iterator over the remaining traversal. Iteration stops
// after the sequence ends; fatal errors are yielded with a nil entry before
// the sequence ends, matching Next.
func (tw *TreeWalker) All(ctx context.Context) iter.Seq2[*DirEntry, error] {
	return func(yield func(*DirEntry, error) bool) {
		for {
			entry, err := tw.Next(ctx)
			if entry == nil && err == nil {
				return
			}

			if !yield(entry, err) {
				return
			}
		}
	}
}

// Remaining reports how many entries are currently pending on the stack.
// After a fatal error this can be non-zero even though Next yields nothing.
func (tw *TreeWalker) Remaining() int {
	return len(tw.stack)
}

// FileSystem returns the filesystem this walker traverses.
func (tw *TreeWalker) FileSystem() FileSystem {
	return tw.fsys
}

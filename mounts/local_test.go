package mounts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/treewalk"
)

// buildLocalTree creates a small tree under a temp directory and returns a
// mount rooted at it.
func buildLocalTree(t *testing.T) *LocalMount {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "tree", "sub"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, name := range []string{"tree/a.txt", "tree/sub/b.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("content"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	return NewLocal(tmpDir)
}

func TestLocalMount_Stat(t *testing.T) {
	ctx := t.Context()
	local := buildLocalTree(t)

	stat, err := local.Stat(ctx, "/tree")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stat.IsDir() {
		t.Error("Expected directory type")
	}
	if stat.Identity().IsZero() {
		t.Error("Expected a populated identity")
	}

	stat, err = local.Stat(ctx, "/tree/a.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stat.IsFile() {
		t.Error("Expected file type")
	}
	if stat.Size != int64(len("content")) {
		t.Errorf("Expected size %d, got %d", len("content"), stat.Size)
	}
}

func TestLocalMount_StatNotExist(t *testing.T) {
	ctx := t.Context()
	local := buildLocalTree(t)

	if _, err := local.Stat(ctx, "/missing"); !errors.Is(err, treewalk.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}
}

func TestLocalMount_List(t *testing.T) {
	ctx := t.Context()
	local := buildLocalTree(t)

	stats, err := local.List(ctx, "/tree")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// os.ReadDir reports entries sorted by name.
	expected := []string{"/tree/a.txt", "/tree/sub"}
	if len(stats) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(stats))
	}
	for i, path := range expected {
		if stats[i].Path != path {
			t.Errorf("Position %d: expected %s, got %s", i, path, stats[i].Path)
		}
		if stats[i].Identity().IsZero() {
			t.Errorf("Entry %s: expected a populated identity", path)
		}
	}
}

func TestLocalMount_ListNotDirectory(t *testing.T) {
	ctx := t.Context()
	local := buildLocalTree(t)

	if _, err := local.List(ctx, "/tree/a.txt"); !errors.Is(err, treewalk.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestLocalMount_IdentityStable(t *testing.T) {
	ctx := t.Context()
	local := buildLocalTree(t)

	first, err := local.Stat(ctx, "/tree/a.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	second, err := local.Stat(ctx, "/tree/a.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	other, err := local.Stat(ctx, "/tree/sub")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if !first.Identity().Equal(second.Identity()) {
		t.Error("Identity changed between stats of the same file")
	}
	if first.Identity().Equal(other.Identity()) {
		t.Error("Distinct files share an identity")
	}
}

func TestLocalMount_WorkingDirectory(t *testing.T) {
	ctx := t.Context()

	// Rooted mounts resolve relative paths against "/".
	rooted := NewLocal(t.TempDir())
	if wd, err := rooted.WorkingDirectory(ctx); err != nil || wd != "/" {
		t.Errorf("Expected (/, nil), got (%s, %v)", wd, err)
	}

	// Native mounts report the true process working directory.
	native := NewLocal("")
	wd, err := native.WorkingDirectory(ctx)
	if err != nil {
		t.Fatalf("WorkingDirectory failed: %v", err)
	}
	osWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if wd != osWd {
		t.Errorf("Expected %s, got %s", osWd, wd)
	}
}

func TestLocalMount_Symlink(t *testing.T) {
	ctx := t.Context()
	tmpDir := t.TempDir()

	if err := os.Mkdir(filepath.Join(tmpDir, "target"), 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	if err := os.Symlink(filepath.Join(tmpDir, "target"), filepath.Join(tmpDir, "link")); err != nil {
		t.Skipf("Symlinks not supported: %v", err)
	}

	local := NewLocal(tmpDir)

	// Lstat semantics: the link itself, not its target.
	stat, err := local.Stat(ctx, "/link")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stat.IsSymlink() {
		t.Error("Expected symlink type")
	}
	if stat.IsDir() {
		t.Error("Symlink must not classify as a directory")
	}
}

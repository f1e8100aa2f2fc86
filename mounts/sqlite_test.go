package mounts

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mwantia/treewalk"
)

func TestSQLiteMount_CreateAndStat(t *testing.T) {
	ctx := t.Context()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer sqlite.Close()

	if err := sqlite.Create(ctx, "/dir", true); err != nil {
		t.Fatalf("Create dir failed: %v", err)
	}
	if err := sqlite.Create(ctx, "/dir/file", false); err != nil {
		t.Fatalf("Create file failed: %v", err)
	}

	stat, err := sqlite.Stat(ctx, "/dir")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stat.IsDir() {
		t.Error("Expected directory type")
	}

	stat, err = sqlite.Stat(ctx, "/dir/file")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !stat.IsFile() {
		t.Error("Expected file type")
	}
	if stat.Identity().IsZero() {
		t.Error("Expected a populated identity")
	}
}

func TestSQLiteMount_ParentChecks(t *testing.T) {
	ctx := t.Context()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer sqlite.Close()

	if err := sqlite.Create(ctx, "/no/parent", false); !errors.Is(err, treewalk.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	if err := sqlite.Create(ctx, "/file", false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := sqlite.Create(ctx, "/file/child", false); !errors.Is(err, treewalk.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestSQLiteMount_ListOrder(t *testing.T) {
	ctx := t.Context()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer sqlite.Close()

	for _, name := range []string{"/zeta", "/alpha", "/mid"} {
		if err := sqlite.Create(ctx, name, false); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	stats, err := sqlite.List(ctx, "/")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := []string{"alpha", "mid", "zeta"}
	if len(stats) != len(expected) {
		t.Fatalf("Expected %d entries, got %d", len(expected), len(stats))
	}
	for i, name := range expected {
		if stats[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, stats[i].Name)
		}
	}
}

func TestSQLiteMount_ListErrors(t *testing.T) {
	ctx := t.Context()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer sqlite.Close()

	if _, err := sqlite.List(ctx, "/missing"); !errors.Is(err, treewalk.ErrNotExist) {
		t.Errorf("Expected ErrNotExist, got %v", err)
	}

	if err := sqlite.Create(ctx, "/file", false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := sqlite.List(ctx, "/file"); !errors.Is(err, treewalk.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}

func TestSQLiteMount_IdentityStableAcrossReopen(t *testing.T) {
	ctx := t.Context()
	dbPath := filepath.Join(t.TempDir(), "index.db")

	sqlite, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}

	if err := sqlite.Create(ctx, "/file", false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	before, err := sqlite.Stat(ctx, "/file")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if err := sqlite.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("NewSQLite reopen failed: %v", err)
	}
	defer reopened.Close()

	after, err := reopened.Stat(ctx, "/file")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if !before.Identity().Equal(after.Identity()) {
		t.Errorf("Identity changed across reopen: %s != %s", before.Identity(), after.Identity())
	}
}

package treewalk

import (
	"context"
	"errors"
	"testing"

	"github.com/mwantia/treewalk/data"
)

// wdFS is a minimal FileSystem stub exposing only a working directory.
type wdFS struct {
	wd  string
	err error
}

func (w *wdFS) Name() string {
	return "stub"
}

func (w *wdFS) WorkingDirectory(ctx context.Context) (string, error) {
	return w.wd, w.err
}

func (w *wdFS) Stat(ctx context.Context, path string) (*data.FileStat, error) {
	return nil, ErrNotExist
}

func (w *wdFS) List(ctx context.Context, path string) ([]*data.FileStat, error) {
	return nil, ErrNotExist
}

func TestAbsolutePath(t *testing.T) {
	ctx := t.Context()
	fsys := &wdFS{wd: "/home/user"}

	cases := []struct {
		input    string
		expected string
	}{
		{"docs", "/home/user/docs"},
		{"./docs", "/home/user/docs"},
		{"../other", "/home/other"},
		{"docs/../docs/./a", "/home/user/docs/a"},
		{"/var//log/", "/var/log"},
		{"/", "/"},
		{"..", "/home"},
	}

	for _, tc := range cases {
		got, err := AbsolutePath(ctx, fsys, tc.input)
		if err != nil {
			t.Fatalf("AbsolutePath(%q) failed: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("AbsolutePath(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestAbsolutePath_EmptyPath(t *testing.T) {
	ctx := t.Context()

	if _, err := AbsolutePath(ctx, &wdFS{wd: "/"}, ""); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
}

func TestAbsolutePath_EnvironmentFailure(t *testing.T) {
	ctx := t.Context()
	fsys := &wdFS{err: ErrEnvironment}

	if _, err := AbsolutePath(ctx, fsys, "relative"); !errors.Is(err, ErrEnvironment) {
		t.Errorf("Expected ErrEnvironment, got %v", err)
	}

	// Absolute input never consults the working directory.
	if _, err := AbsolutePath(ctx, fsys, "/absolute"); err != nil {
		t.Errorf("Expected no error for absolute path, got %v", err)
	}
}

func TestParentPath(t *testing.T) {
	cases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"/a/b/c", "/a/b", true},
		{"/a", "/", true},
		{"/a/", "/", true},
		{"/", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := ParentPath(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParentPath(%q) ok = %v, expected %v", tc.input, ok, tc.ok)
		}
		if got != tc.expected {
			t.Errorf("ParentPath(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

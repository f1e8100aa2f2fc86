package data

import (
	"path"
	"strings"
)

// ToAbsolutePath normalizes p into a clean, absolute path within a
// filesystem namespace. Relative input is treated as rooted at "/".
func ToAbsolutePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return path.Clean(p)
}

// ToRelativePath removes the prefix from p.
// It additionally removes any leading slashes.
func ToRelativePath(p, prefix string) string {
	if prefix == "" {
		return p
	}

	if p == prefix {
		return ""
	}

	rel := strings.TrimPrefix(p, prefix)
	return strings.TrimPrefix(rel, "/")
}

// DirectChild extracts the name of the direct child of prefix that p
// belongs to. Used by mounts with flat key spaces, where a nested key
// implies virtual parent directories. Returns false if p does not sit
// below prefix.
func DirectChild(p, prefix string) (string, bool) {
	if prefix != "" && !strings.HasPrefix(p, prefix) {
		return "", false
	}

	rel := ToRelativePath(p, prefix)
	if rel == "" {
		return "", false
	}

	name, _, _ := strings.Cut(rel, "/")
	if name == "" {
		return "", false
	}

	return name, true
}

// ParentOf returns the path with its final component removed.
// Returns false when p has no parent, i.e. it is a root.
func ParentOf(p string) (string, bool) {
	clean := path.Clean(p)
	if clean == "/" || clean == "." || clean == "" {
		return "", false
	}

	return path.Dir(clean), true
}

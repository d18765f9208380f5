// Package security guards file access driven by request input.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscape is returned when a path resolves outside its root directory.
var ErrPathEscape = errors.New("path escapes root directory")

// ResolveWithin joins the relative path rel onto root and returns the result,
// rejecting absolute paths and any rel that would escape root. When root
// exists on disk, symlinks along the joined path are resolved before the
// check so a link inside root cannot point outside it.
func ResolveWithin(root, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: %s is absolute", ErrPathEscape, rel)
	}

	joined := filepath.Join(root, rel)
	if err := within(joined, root); err != nil {
		return "", err
	}

	canonicalRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		// Root is not on disk (e.g. an in-memory filesystem); the lexical check stands.
		return joined, nil
	}
	if err := within(canonicalize(joined), canonicalRoot); err != nil {
		return "", err
	}
	return joined, nil
}

// within reports ErrPathEscape unless path lies inside dir. Both are compared
// as absolute, cleaned paths.
func within(path, dir string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}

	relPath, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathEscape, err)
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) || filepath.IsAbs(relPath) {
		return fmt.Errorf("%w: %s is outside %s", ErrPathEscape, path, dir)
	}
	return nil
}

// canonicalize resolves symlinks in path. For a path that does not exist yet,
// the deepest existing parent is resolved and the remainder re-attached, so
// /root/link/new.png with link -> /etc still resolves under /etc.
func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	for check := abs; ; {
		parent := filepath.Dir(check)
		if parent == check {
			return abs
		}
		if resolved, err := filepath.EvalSymlinks(parent); err == nil {
			rest, _ := filepath.Rel(parent, abs)
			return filepath.Join(resolved, rest)
		}
		check = parent
	}
}

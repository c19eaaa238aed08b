// Package safepath guards extraction and removal against paths that resolve
// outside of a designated root directory.
package safepath

import (
	"path/filepath"
	"strings"

	"github.com/balatro-mod-manager/bmm/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// AssertWithin returns a PathTraversal error unless candidate, after
// cleaning, is root itself or lies below root. Both paths are compared
// lexically; callers build candidate with filepath.Join(root, name).
func AssertWithin(root, candidate string) error {
	rel, err := relative(root, candidate)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve path against root",
			goerr.T(types.ErrTagPathTraversal),
			goerr.V(types.KeyPath, candidate),
			goerr.V("root", root),
		)
	}
	if escapes(rel) {
		return goerr.New("path traversal attempt detected",
			goerr.T(types.ErrTagPathTraversal),
			goerr.V(types.KeyPath, candidate),
			goerr.V("root", root),
		)
	}
	return nil
}

// AssertDescendant is the strict form of AssertWithin: root itself is rejected too
func AssertDescendant(root, candidate string) error {
	if err := AssertWithin(root, candidate); err != nil {
		return err
	}
	if IsSame(root, candidate) {
		return goerr.New("path must be below root, not the root itself",
			goerr.T(types.ErrTagPathTraversal),
			goerr.V(types.KeyPath, candidate),
			goerr.V("root", root),
		)
	}
	return nil
}

// IsWithin reports whether candidate is root or below it
func IsWithin(root, candidate string) bool {
	rel, err := relative(root, candidate)
	return err == nil && !escapes(rel)
}

// IsSame reports whether both paths clean to the same location
func IsSame(a, b string) bool {
	return clean(a) == clean(b)
}

func relative(root, candidate string) (string, error) {
	return filepath.Rel(clean(root), clean(candidate))
}

func escapes(rel string) bool {
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	return filepath.IsAbs(rel)
}

func clean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

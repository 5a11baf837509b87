package model

import (
	"fmt"
	"path"
	"strings"
)

// ValidateRelativePath checks that an operation path from a manifest is safe
// to resolve against the installation root: non-empty, relative, forward-slash
// separated and free of traversal segments. Validation happens before any
// filesystem call, a path never reaches the executor unchecked.
func ValidateRelativePath(p string) error {
	if p == "" {
		return ErrPathEmpty
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("%w: %q", ErrPathSeparator, p)
	}
	if path.IsAbs(p) || hasDrivePrefix(p) {
		return fmt.Errorf("%w: %q", ErrPathAbsolute, p)
	}

	cleaned := path.Clean(p)
	if cleaned == "." {
		return fmt.Errorf("%w: %q", ErrPathEmpty, p)
	}
	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return fmt.Errorf("%w: %q", ErrPathTraversal, p)
		}
	}
	return nil
}

// hasDrivePrefix catches Windows-style drive roots such as "C:/app", which
// path.IsAbs does not consider absolute.
func hasDrivePrefix(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z'))
}

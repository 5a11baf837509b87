package model

import "fmt"

// Manifest and operation validation errors.
var (
	ErrPathEmpty     = fmt.Errorf("operation path cannot be empty")
	ErrPathAbsolute  = fmt.Errorf("operation path cannot be absolute")
	ErrPathTraversal = fmt.Errorf("operation path cannot traverse outside the installation root")
	ErrPathSeparator = fmt.Errorf("operation path must use forward slashes")

	ErrNoPackages       = fmt.Errorf("manifest contains no installable packages")
	ErrPackageURLEmpty  = fmt.Errorf("package URL cannot be empty")
	ErrSignatureMissing = fmt.Errorf("package signature cannot be empty")
)

package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxProjectNameLen = 256
	maxRelPathLen     = 500
)

// ValidateProjectRoot checks that root names an existing directory.
func ValidateProjectRoot(root string) error {
	if strings.TrimSpace(root) == "" || strings.IndexByte(root, 0) >= 0 {
		return New(ErrCodeInvalidPath, "invalid project root %q", root)
	}
	info, err := os.Stat(root)
	switch {
	case os.IsNotExist(err):
		return New(ErrCodeFileNotFound, "project root %s does not exist", root)
	case err != nil:
		return Wrap(ErrCodeInvalidPath, err, "stat %s", root)
	case !info.IsDir():
		return New(ErrCodeInvalidPath, "project root %s is not a directory", root)
	}
	return nil
}

// ValidateProjectName rejects names that cannot serve as a diagram title:
// empty ones, overly long ones and ones with control characters.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidInput, "project name cannot be empty")
	case utf8.RuneCountInString(name) > maxProjectNameLen:
		return New(ErrCodeInvalidInput, "project name longer than %d characters", maxProjectNameLen)
	case hasControl(name):
		return New(ErrCodeInvalidInput, "project name contains control characters")
	}
	return nil
}

// ValidateOutputPath checks that a file can be created at path: its parent
// directory exists and path itself is not a directory.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return New(ErrCodeInvalidPath, "output path %s is a directory", path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		return New(ErrCodeInvalidPath, "output directory %s does not exist", filepath.Dir(path))
	}
	return nil
}

// ValidateRelativePath checks a path that must resolve inside the project
// root, such as a plugin source in a marketplace manifest. Absolute paths
// and ".." segments are rejected under either separator.
func ValidateRelativePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxRelPathLen:
		return New(ErrCodeInvalidPath, "path longer than %d bytes", maxRelPathLen)
	case hasControl(path):
		return New(ErrCodeInvalidPath, "path %q contains control characters", path)
	case filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`):
		return New(ErrCodeInvalidPath, "path %s must be relative", path)
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' })
	for _, seg := range segments {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path %s escapes the project root", path)
		}
	}
	return nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

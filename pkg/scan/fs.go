package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// FindFiles walks root up to maxDepth directory levels below it and returns
// the files whose name or root-relative slash path matches any of the glob
// patterns. Hidden directories and node_modules are not entered. Unreadable
// directories are skipped. Results are in lexical walk order.
//
//	FindFiles(root, 3, "*.tf")          // main.tf, modules/vpc/main.tf
//	FindFiles(root, 1, "skills/*/SKILL.md")
func FindFiles(root string, maxDepth int, patterns ...string) []string {
	var out []string
	walk(root, root, maxDepth, patterns, func(path string) bool {
		out = append(out, path)
		return true
	})
	return out
}

// HasFile reports whether FindFiles would return at least one file. It stops
// at the first match.
func HasFile(root string, maxDepth int, patterns ...string) bool {
	found := false
	walk(root, root, maxDepth, patterns, func(string) bool {
		found = true
		return false
	})
	return found
}

// walk visits matching files; visit returns false to stop the walk.
func walk(root, dir string, depth int, patterns []string, visit func(string) bool) bool {
	if depth < 0 {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if skipDir(e.Name()) {
				continue
			}
			if !walk(root, path, depth-1, patterns, visit) {
				return false
			}
			continue
		}
		if matchAny(patterns, e.Name(), RelPath(root, path)) && !visit(path) {
			return false
		}
	}
	return true
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

func matchAny(patterns []string, name, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// RelPath returns path relative to root using forward slashes, or path
// unchanged if it is not below root.
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// FileExists reports whether path names a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path names a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FirstExisting returns the first name that exists as a file in dir.
func FirstExisting(dir string, names ...string) (string, bool) {
	for _, n := range names {
		p := filepath.Join(dir, n)
		if FileExists(p) {
			return p, true
		}
	}
	return "", false
}

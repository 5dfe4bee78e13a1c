package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRel accepts only slash-relative paths that stay inside the
// tree they are resolved against. Depth is tracked per component so a
// ".." that climbs above the start is caught wherever it appears.
func ValidateRel(p string) error {
	if p == "" {
		return fmt.Errorf("empty path")
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("path %q contains a NUL byte", p)
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q is absolute", p)
	}
	depth := 0
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
		case "..":
			depth--
			if depth < 0 {
				return fmt.Errorf("path %q climbs out of the tree", p)
			}
		default:
			depth++
		}
	}
	if depth == 0 {
		return fmt.Errorf("path %q names the tree root", p)
	}
	return nil
}

func ValidatePattern(p string) error {
	if p == "" {
		return fmt.Errorf("empty pattern")
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("pattern contains null byte")
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf(
			"pattern %q: use '/' separators", p,
		)
	}
	if strings.HasPrefix(p, "/") {
		return fmt.Errorf("absolute pattern not allowed: %s", p)
	}
	if p == "." {
		return fmt.Errorf("pattern resolves to the root")
	}
	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return fmt.Errorf("pattern escapes the root: %s", p)
		}
		if part == "." {
			return fmt.Errorf(
				"pattern %q: '.' path component", p,
			)
		}
		if part == "" {
			return fmt.Errorf(
				"pattern %q: empty path component", p,
			)
		}
	}
	return nil
}

// WithinRoot reports whether full sits at or below root.
func WithinRoot(root, full string) bool {
	rel, err := filepath.Rel(root, full)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first != ".."
}

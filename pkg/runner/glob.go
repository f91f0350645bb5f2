package runner

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// matcher holds compiled exclude patterns.
type matcher struct {
	anchored []anchoredGlob
	names    []glob.Glob
}

type anchoredGlob struct {
	glob.Glob

	// anyDepth is set for patterns starting with "**/", which also match
	// at the top level.
	anyDepth bool
}

// newMatcher compiles patterns. Patterns containing a slash are matched
// against the slash-separated path relative to the working directory, and
// "**" spans directories. Other patterns match any single path component.
// Invalid patterns are ignored; configloader reports them.
func newMatcher(patterns []string) *matcher {
	m := &matcher{}
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if pattern == "" {
			continue
		}

		pattern = strings.TrimSuffix(pattern, "/")
		compiled, err := glob.Compile(pattern, '/')
		if err != nil {
			continue
		}
		if strings.Contains(pattern, "/") {
			m.anchored = append(m.anchored, anchoredGlob{
				Glob:     compiled,
				anyDepth: strings.HasPrefix(pattern, "**/"),
			})
		} else {
			m.names = append(m.names, compiled)
		}
	}
	return m
}

// ValidGlob reports whether pattern compiles.
func ValidGlob(pattern string) bool {
	_, err := glob.Compile(filepath.ToSlash(pattern), '/')
	return err == nil
}

// match reports whether relPath, or for directories anything beneath it,
// is excluded.
func (m *matcher) match(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)

	candidates := []string{relPath}
	if isDir {
		candidates = append(candidates, relPath+"/")
	}
	for _, g := range m.anchored {
		for _, candidate := range candidates {
			if g.Match(candidate) || (g.anyDepth && g.Match("/"+candidate)) {
				return true
			}
		}
	}

	if len(m.names) == 0 {
		return false
	}
	for _, part := range strings.Split(relPath, "/") {
		for _, g := range m.names {
			if g.Match(part) {
				return true
			}
		}
	}
	return false
}

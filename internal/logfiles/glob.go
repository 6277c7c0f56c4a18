package logfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

const globMeta = "*?[{"

// SplitList splits pipe-separated input into trimmed, non-empty items.
func SplitList(input string) []string {
	var items []string
	for _, part := range strings.Split(input, "|") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ExpandGlobs returns the directories matched by any of patterns, in walk
// order and without duplicates. "**" matches any number of directories,
// including none. Folders whose name starts with a period are only entered
// when the pattern names such a folder explicitly (for example ".*/logs").
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var dirs []string
	for _, raw := range patterns {
		matched, err := expandGlob(raw)
		if err != nil {
			return nil, err
		}
		for _, dir := range matched {
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

func expandGlob(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	pattern := path.Clean(filepath.ToSlash(trimmed))

	// gobwas "**" needs at least the separators around it; the collapsed
	// variants let it stand for zero directories as well.
	variants := []string{
		pattern,
		strings.ReplaceAll(pattern, "/**/", "/"),
		strings.TrimPrefix(strings.ReplaceAll(pattern, "/**/", "/"), "**/"),
	}
	matchers := make([]glob.Glob, 0, len(variants))
	for _, variant := range variants {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("compile glob %q: %w", raw, err)
		}
		matchers = append(matchers, g)
	}

	root := staticRoot(pattern)
	recursive := strings.Contains(pattern, "**")
	depth := segments(pattern)
	hidden := namesHidden(pattern)

	var dirs []string
	err := filepath.WalkDir(filepath.FromSlash(root), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == filepath.FromSlash(root) {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		slashed := filepath.ToSlash(p)
		if slashed != root && strings.HasPrefix(d.Name(), ".") && !hidden {
			return fs.SkipDir
		}
		if !recursive && segments(slashed) > depth {
			return fs.SkipDir
		}
		for _, g := range matchers {
			if g.Match(slashed) {
				dirs = append(dirs, p)
				break
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("expand glob %q: %w", raw, err)
	}
	return dirs, nil
}

// staticRoot returns the leading directories of pattern that hold no glob
// syntax, which is where the walk starts.
func staticRoot(pattern string) string {
	parts := strings.Split(pattern, "/")
	var fixed []string
	for _, part := range parts {
		if strings.ContainsAny(part, globMeta) {
			break
		}
		fixed = append(fixed, part)
	}
	switch {
	case len(fixed) == len(parts):
		return pattern
	case len(fixed) == 0:
		return "."
	case len(fixed) == 1 && fixed[0] == "":
		return "/"
	}
	root := strings.Join(fixed, "/")
	if strings.HasSuffix(root, ":") {
		root += "/"
	}
	return root
}

func segments(p string) int {
	return len(strings.Split(strings.TrimPrefix(p, "/"), "/"))
}

func namesHidden(pattern string) bool {
	for _, part := range strings.Split(pattern, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

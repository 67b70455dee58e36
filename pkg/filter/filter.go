// Package filter builds resource filters from ignore patterns.
//
// Patterns use the dockerignore syntax (via moby/patternmatcher). A path
// matching any pattern is excluded from the copy. Exception patterns ("!")
// are honored for files, but cannot resurrect files inside a directory
// that is itself excluded.
package filter

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/appstage/pkg/errors"
	"github.com/arthur-debert/appstage/pkg/filesystem"
	"github.com/moby/patternmatcher"
)

// IncludeAll is a filter that copies everything.
func IncludeAll() filesystem.Filter {
	return func(string) (bool, error) { return true, nil }
}

// New builds a filesystem.Filter from ignore patterns. With no patterns,
// the returned filter includes everything.
func New(patterns []string) (filesystem.Filter, error) {
	if len(patterns) == 0 {
		return IncludeAll(), nil
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"invalid ignore patterns %v", patterns)
	}

	return func(rel string) (bool, error) {
		ignored, err := pm.MatchesOrParentMatches(filepath.ToSlash(rel))
		if err != nil {
			return false, err
		}
		return !ignored, nil
	}, nil
}

// ParsePatterns reads ignore patterns from r, one per line. Blank lines
// and "#" comments are skipped.
func ParsePatterns(r io.Reader) ([]string, error) {
	var patterns []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

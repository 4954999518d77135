// Package match implements gitwildmatch-style filtering of relative
// paths for directory traversal.
//
// Patterns follow the gitignore wildmatch dialect: `*` and `?` do not
// cross `/`, `**` does, a pattern containing `/` is anchored to the
// root while a bare name matches at any depth, a trailing `/` restricts
// the pattern to directories, and a leading `!` negates it. A path is
// included when at least one positive pattern matches it and no negated
// pattern does.
package match

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides which relative paths a traversal includes. Paths are
// matched in slash form, relative to the traversal root.
type Matcher struct {
	include []pattern
	exclude []pattern
}

type pattern struct {
	glob string
	dir  bool
}

// New compiles patterns into a Matcher. Malformed globs and empty
// patterns are rejected up front, before any filesystem access.
func New(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range patterns {
		p, negated, err := compile(raw)
		if err != nil {
			return nil, err
		}
		if negated {
			m.exclude = append(m.exclude, p)
		} else {
			m.include = append(m.include, p)
		}
	}
	return m, nil
}

func compile(raw string) (pattern, bool, error) {
	p := raw
	negated := strings.HasPrefix(p, "!")
	if negated {
		p = p[1:]
	}
	dir := strings.HasSuffix(p, "/")
	p = strings.TrimSuffix(p, "/")
	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return pattern{}, false, fmt.Errorf("empty pattern %q", raw)
	}
	if !anchored {
		// A bare name floats: it matches at any depth.
		p = "**/" + p
	}
	if _, err := doublestar.Match(p, ""); err != nil {
		return pattern{}, false, fmt.Errorf("invalid pattern %q: %w", raw, err)
	}
	return pattern{glob: p, dir: dir}, negated, nil
}

// IncludeFile reports whether the file at rel is selected: no negated
// pattern may match it and at least one positive pattern must.
func (m *Matcher) IncludeFile(rel string) bool {
	for _, p := range m.exclude {
		if p.matchesFile(rel) {
			return false
		}
	}
	for _, p := range m.include {
		if p.matchesContent(rel) {
			return true
		}
	}
	return false
}

// EnterDir reports whether traversal may descend into the directory at
// rel. Only negated directory patterns prune; positive patterns never
// cut traversal since a deeper file may still match.
func (m *Matcher) EnterDir(rel string) bool {
	for _, p := range m.exclude {
		if p.dir && matchPath(p.glob, rel) {
			return false
		}
	}
	return true
}

// matchesFile is the negated-pattern test: a file pattern must match
// the path exactly, a directory pattern matches the directory's
// contents. The expansion demands a segment below the directory since
// a trailing `/**` alone also matches zero segments, which would
// swallow a file named like the directory.
func (p pattern) matchesFile(rel string) bool {
	if p.dir {
		return matchPath(p.glob+"/**/*", rel)
	}
	return matchPath(p.glob, rel)
}

// matchesContent is the positive-pattern test: a match on the path
// itself or on any leading directory portion counts, so a pattern
// naming a directory selects the files under it. Directory patterns
// never match a same-named file, hence the one-segment minimum.
func (p pattern) matchesContent(rel string) bool {
	if !p.dir && matchPath(p.glob, rel) {
		return true
	}
	return matchPath(p.glob+"/**/*", rel)
}

func matchPath(glob, rel string) bool {
	// Globs are validated in compile, Match cannot fail here.
	ok, _ := doublestar.Match(glob, rel)
	return ok
}

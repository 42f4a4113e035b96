// Package pathmatch matches slash-separated repository paths against glob lists.
package pathmatch

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Set is a compiled list of globs. A path matches the set when it matches any glob.
// `*` stops at `/`, `**` crosses it, and a leading `**/` also matches at the root.
type Set struct {
	patterns []string
	globs    []glob.Glob
}

// Compile builds a Set from patterns.
func Compile(patterns []string) (*Set, error) {
	s := &Set{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", p, err)
			}
			s.globs = append(s.globs, g)
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// MustCompile is Compile for static pattern lists.
func MustCompile(patterns ...string) *Set {
	s, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return s
}

// Empty reports whether the set has no patterns.
func (s *Set) Empty() bool {
	return s == nil || len(s.globs) == 0
}

// Patterns returns the source patterns.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.patterns...)
}

// Match reports whether p matches any glob of the set.
func (s *Set) Match(p string) bool {
	if s == nil {
		return false
	}
	p = Normalize(p)
	for _, g := range s.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// MatchAny reports whether at least one of paths matches.
func (s *Set) MatchAny(paths []string) bool {
	for _, p := range paths {
		if s.Match(p) {
			return true
		}
	}
	return false
}

// MatchAll reports whether paths is non-empty and every path matches.
func (s *Set) MatchAll(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if !s.Match(p) {
			return false
		}
	}
	return true
}

// Normalize converts p to a clean, slash-separated, relative path.
func Normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

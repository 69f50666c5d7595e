// Package filtering selects catalog locations by glob patterns on their targets.
package filtering

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned for patterns that do not compile
var ErrInvalidPattern = errors.New("invalid glob pattern")

// TargetFilter decides whether a location target is selected
type TargetFilter interface {
	// ShouldInclude reports whether target passes the filter and why
	ShouldInclude(target string) (bool, string)
}

// globFilter holds compiled include and exclude patterns
type globFilter struct {
	include []compiledPattern
	exclude []compiledPattern
}

type compiledPattern struct {
	source string
	glob   glob.Glob
}

var _ TargetFilter = (*globFilter)(nil)

// NewTargetFilter compiles include and exclude patterns. A * matches across slashes.
func NewTargetFilter(include, exclude []string) (TargetFilter, error) {
	inc, err := compileAll(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileAll(exclude)
	if err != nil {
		return nil, err
	}
	return &globFilter{include: inc, exclude: exc}, nil
}

func compileAll(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		// filepath.Match rejects malformed brackets that glob would accept
		if _, err := filepath.Match(pattern, "test"); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
		}
		compiled = append(compiled, compiledPattern{source: pattern, glob: g})
	}
	return compiled, nil
}

// ShouldInclude applies the patterns:
// 1. a target matching any exclude pattern is excluded
// 2. with include patterns, the target must match one of them
// 3. without include patterns, every target not excluded is included
func (f *globFilter) ShouldInclude(target string) (bool, string) {
	for _, p := range f.exclude {
		if p.glob.Match(target) {
			return false, fmt.Sprintf("excluded by pattern '%s'", p.source)
		}
	}

	if len(f.include) > 0 {
		for _, p := range f.include {
			if p.glob.Match(target) {
				return true, fmt.Sprintf("included by pattern '%s'", p.source)
			}
		}
		return false, "no match found in include patterns"
	}

	if len(f.exclude) > 0 {
		return true, "no match in exclude patterns"
	}
	return true, "no filters specified"
}

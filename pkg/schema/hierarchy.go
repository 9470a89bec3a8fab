package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

// Depth returns a variable's depth in the hierarchy: the number of
// separators between the root segment and the leaf. "Primary Energy" has
// depth 0, "Primary Energy|Coal" depth 1.
func Depth(variable, separator string) int {
	return strings.Count(variable, separator)
}

// ParentOf returns the variable one level up the hierarchy, or the empty
// string for root variables.
func ParentOf(variable, separator string) string {
	i := strings.LastIndex(variable, separator)
	if i < 0 {
		return ""
	}
	return variable[:i]
}

// IsDirectChild reports whether child sits exactly one hierarchy level below
// parent.
func IsDirectChild(child, parent, separator string) bool {
	return strings.HasPrefix(child, parent+separator) &&
		Depth(child, separator) == Depth(parent, separator)+1
}

// LevelMatcher tests variable depths against a level filter.
type LevelMatcher struct {
	depth int
	mode  levelMode
}

type levelMode int

const (
	levelExact levelMode = iota
	levelAtMost
	levelAtLeast
)

// ParseLevel parses a depth filter: an exact depth ("1"), depth-or-shallower
// ("1-"), or depth-or-deeper ("1+"). Any other suffix fails with a value
// error.
func ParseLevel(spec string) (LevelMatcher, error) {
	mode := levelExact
	number := spec
	if n := len(spec); n > 0 {
		switch spec[n-1] {
		case '-':
			mode, number = levelAtMost, spec[:n-1]
		case '+':
			mode, number = levelAtLeast, spec[:n-1]
		}
	}
	depth, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil || depth < 0 {
		return LevelMatcher{}, fmt.Errorf("%w: unknown level filter %q", apperrors.ErrInvalidArgument, spec)
	}
	return LevelMatcher{depth: depth, mode: mode}, nil
}

// Match reports whether a depth satisfies the filter.
func (m LevelMatcher) Match(depth int) bool {
	switch m.mode {
	case levelAtMost:
		return depth <= m.depth
	case levelAtLeast:
		return depth >= m.depth
	default:
		return depth == m.depth
	}
}

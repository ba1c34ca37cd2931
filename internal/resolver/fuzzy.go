package resolver

import (
	"strings"

	"github.com/antzucaro/matchr"

	"hansard/internal/domain"
)

const (
	defaultFuzzyMinLength       = 4
	defaultJaroWinklerThreshold = 0.92
)

// FuzzyStrategy is the resolver's last-resort matcher. names holds the
// normalized registry names in snapshot order; Match returns the index of the
// chosen name, or -1.
type FuzzyStrategy interface {
	Match(candidate string, names []string) int
}

// SubstringStrategy matches when the candidate is a substring of a registry
// name or contains one. Ties go to the first name in registry order.
//
// Short fragments such as a lone common surname are substrings of many names,
// so the shorter side of a comparison must have at least MinLength letters.
type SubstringStrategy struct {
	MinLength int
}

// Match implements FuzzyStrategy.
func (s SubstringStrategy) Match(candidate string, names []string) int {
	if candidate == "" || letterCount(candidate) < s.MinLength {
		return -1
	}
	for i, name := range names {
		if name == "" {
			continue
		}
		if strings.Contains(name, candidate) {
			return i
		}
		if letterCount(name) >= s.MinLength && strings.Contains(candidate, name) {
			return i
		}
	}
	return -1
}

// JaroWinklerStrategy picks the registry name with the highest Jaro-Winkler
// similarity, provided it reaches Threshold.
type JaroWinklerStrategy struct {
	Threshold float64
	MinLength int
}

// Match implements FuzzyStrategy.
func (s JaroWinklerStrategy) Match(candidate string, names []string) int {
	if candidate == "" || letterCount(candidate) < s.MinLength {
		return -1
	}
	best, bestScore := -1, 0.0
	for i, name := range names {
		if name == "" {
			continue
		}
		score := matchr.JaroWinkler(candidate, name, false)
		if score >= s.Threshold && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// NewFuzzyStrategy builds the strategy selected by configuration. Unknown
// names fall back to the substring strategy; zero values take defaults.
func NewFuzzyStrategy(name domain.FuzzyStrategyName, minLength int, threshold float64) FuzzyStrategy {
	if minLength <= 0 {
		minLength = defaultFuzzyMinLength
	}
	if threshold <= 0 || threshold > 1 {
		threshold = defaultJaroWinklerThreshold
	}
	if name == domain.FuzzyJaroWinkler {
		return JaroWinklerStrategy{Threshold: threshold, MinLength: minLength}
	}
	return SubstringStrategy{MinLength: minLength}
}

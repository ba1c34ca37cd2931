// Package resolver maps free-text member names and constituencies onto
// entries of a registry snapshot.
package resolver

import (
	"hansard/internal/domain"
	"hansard/internal/registry"
)

// Step identifies which stage of the cascade produced a match.
type Step int

const (
	StepNone Step = iota
	StepExactName
	StepConstituency
	StepFuzzy
)

func (s Step) String() string {
	switch s {
	case StepExactName:
		return "exact_name"
	case StepConstituency:
		return "constituency"
	case StepFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Resolver resolves a name fragment and an optional constituency fragment to
// exactly one member. A miss is an expected outcome, not an error.
type Resolver interface {
	Resolve(name, constituency string) (*domain.Member, bool)
}

// ConstituencyResolver resolves by exact normalized constituency only.
type ConstituencyResolver interface {
	ByConstituency(constituency string) (*domain.Member, bool)
}

// Match is a successful resolution together with the step that produced it.
type Match struct {
	Member domain.Member
	Step   Step
}

// Option configures a Cascade.
type Option func(*Cascade)

// WithFuzzyStrategy replaces the default substring strategy.
func WithFuzzyStrategy(fs FuzzyStrategy) Option {
	return func(c *Cascade) {
		if fs != nil {
			c.fuzzy = fs
		}
	}
}

// Cascade resolves against one snapshot: exact normalized name, then
// normalized constituency, then the fuzzy strategy. First success wins.
// It is read-only after construction and safe for concurrent use.
type Cascade struct {
	snap           *registry.Snapshot
	names          []string
	byName         map[string]int
	byConstituency map[string]int
	fuzzy          FuzzyStrategy
}

var (
	_ Resolver             = (*Cascade)(nil)
	_ ConstituencyResolver = (*Cascade)(nil)
)

// New indexes snap for resolution. When two members normalize to the same
// name or constituency, the first in registry order wins.
func New(snap *registry.Snapshot, opts ...Option) *Cascade {
	members := snap.Members()
	c := &Cascade{
		snap:           snap,
		names:          make([]string, len(members)),
		byName:         make(map[string]int, len(members)),
		byConstituency: make(map[string]int, len(members)),
		fuzzy:          SubstringStrategy{MinLength: defaultFuzzyMinLength},
	}
	for i := range members {
		n := NormalizeName(members[i].Name)
		c.names[i] = n
		if _, dup := c.byName[n]; n != "" && !dup {
			c.byName[n] = i
		}
		k := NormalizeConstituency(members[i].Constituency)
		if _, dup := c.byConstituency[k]; k != "" && !dup {
			c.byConstituency[k] = i
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Snapshot returns the snapshot this cascade resolves against.
func (c *Cascade) Snapshot() *registry.Snapshot { return c.snap }

// Resolve implements Resolver.
func (c *Cascade) Resolve(name, constituency string) (*domain.Member, bool) {
	m, ok := c.ResolveMatch(name, constituency)
	if !ok {
		return nil, false
	}
	return &m.Member, true
}

// ResolveMatch is Resolve that also reports the cascade step used.
func (c *Cascade) ResolveMatch(name, constituency string) (Match, bool) {
	normName := NormalizeName(name)
	if normName != "" {
		if i, ok := c.byName[normName]; ok {
			return c.match(i, StepExactName), true
		}
	}
	if constituency != "" {
		if i, ok := c.byConstituency[NormalizeConstituency(constituency)]; ok {
			return c.match(i, StepConstituency), true
		}
	}
	if normName != "" {
		if i := c.fuzzy.Match(normName, c.names); i >= 0 && i < len(c.names) {
			return c.match(i, StepFuzzy), true
		}
	}
	return Match{}, false
}

// ByConstituency implements ConstituencyResolver.
func (c *Cascade) ByConstituency(constituency string) (*domain.Member, bool) {
	k := NormalizeConstituency(constituency)
	if k == "" {
		return nil, false
	}
	i, ok := c.byConstituency[k]
	if !ok {
		return nil, false
	}
	m := c.snap.Members()[i]
	return &m, true
}

func (c *Cascade) match(i int, step Step) Match {
	return Match{Member: c.snap.Members()[i], Step: step}
}

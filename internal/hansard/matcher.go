package hansard

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"hansard/internal/resolver"
)

// Candidate is one speaker introduction found by a matcher. Start and End are
// byte offsets relative to the scanned window and cover the whole introduction
// up to and including the colon.
type Candidate struct {
	Start        int
	End          int
	Name         string
	Constituency string
	Matcher      string
}

func (c Candidate) overlaps(o Candidate) bool {
	return c.Start < o.End && o.Start < c.End
}

// SpeakerMatcher finds speaker introductions of one shape.
type SpeakerMatcher interface {
	Name() string
	FindAll(window string) []Candidate
}

const (
	titlePattern = `(?i:yang[ \t]+amat[ \t]+berhormat|yang[ \t]+berhormat|deputy[ \t]+minister|timbalan[ \t]+menteri|` +
		`dato['’]?[ \t]+s(?:e)?ri|datuk[ \t]+s(?:e)?ri|tan[ \t]+sri|minister|menteri|madam|mrs|mr|ms|dr|yb|` +
		`dato['’]?|datuk|tun|tuan|puan|hajah|haji|hj|ir|prof)\.?`
	titleSeq     = titlePattern + `(?:[ \t]+` + titlePattern + `)*`
	namePart     = `\p{Lu}[\p{L}\p{M}'’.\-/@ \t]{0,80}?`
	capsNamePart = `\p{Lu}[\p{Lu}'’.\-/@ \t]{2,80}?`
	parenPart    = `\(([^()\n]{2,80})\)`
	bracketPart  = `\[([^\[\]\n]{2,80})\]`
	lineStart    = `(?m)^[ \t]*`
	colon        = `[ \t]*:`
)

// patternMatcher is a SpeakerMatcher backed by one regular expression. Group
// indexes of zero mean the fragment is not captured.
type patternMatcher struct {
	name              string
	re                *regexp.Regexp
	nameGroup         int
	constituencyGroup int
}

func (m patternMatcher) Name() string { return m.name }

func (m patternMatcher) FindAll(window string) []Candidate {
	locs := m.re.FindAllStringSubmatchIndex(window, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Candidate, 0, len(locs))
	for _, loc := range locs {
		name := group(window, loc, m.nameGroup)
		constituency := group(window, loc, m.constituencyGroup)
		name, constituency = disambiguate(name, constituency)
		if name == "" && constituency == "" {
			continue
		}
		out = append(out, Candidate{
			Start:        loc[0],
			End:          loc[1],
			Name:         name,
			Constituency: constituency,
			Matcher:      m.name,
		})
	}
	return out
}

func group(s string, loc []int, g int) string {
	if g <= 0 || 2*g+1 >= len(loc) || loc[2*g] < 0 {
		return ""
	}
	return strings.Join(strings.Fields(s[loc[2*g]:loc[2*g+1]]), " ")
}

// disambiguate decides which captured fragment is the person. Transcripts write
// both "Name [Constituency]" and "Office [Name]", so a second fragment that
// looks like a name while the first does not is swapped into place.
func disambiguate(first, second string) (name, constituency string) {
	if first == "" {
		if resolver.LooksLikeName(second) {
			return second, ""
		}
		return "", second
	}
	if second != "" && !resolver.LooksLikeName(first) && resolver.LooksLikeName(second) {
		return second, first
	}
	return first, second
}

// DefaultMatchers returns the speaker matchers from most to least specific.
func DefaultMatchers() []SpeakerMatcher {
	return []SpeakerMatcher{
		patternMatcher{
			name:              "titled_name_constituency",
			re:                regexp.MustCompile(lineStart + `(` + titleSeq + `[ \t]+` + namePart + `)[ \t]*` + parenPart + colon),
			nameGroup:         1,
			constituencyGroup: 2,
		},
		patternMatcher{
			name:      "titled_name",
			re:        regexp.MustCompile(lineStart + `(` + titleSeq + `[ \t]+` + namePart + `)` + colon),
			nameGroup: 1,
		},
		patternMatcher{
			name:              "caps_name_constituency",
			re:                regexp.MustCompile(lineStart + `(` + capsNamePart + `)[ \t]*` + parenPart + colon),
			nameGroup:         1,
			constituencyGroup: 2,
		},
		patternMatcher{
			name:              "name_bracket_constituency",
			re:                regexp.MustCompile(lineStart + `(` + namePart + `)[ \t]*` + bracketPart + colon),
			nameGroup:         1,
			constituencyGroup: 2,
		},
		patternMatcher{
			name:              "bare_constituency",
			re:                regexp.MustCompile(lineStart + parenPart + colon),
			constituencyGroup: 1,
		},
	}
}

// collect runs matchers in priority order over one window. A candidate that
// overlaps a span already claimed by an earlier matcher is dropped. The result
// is in document order.
func collect(matchers []SpeakerMatcher, text string) []Candidate {
	var accepted []Candidate
	for _, m := range matchers {
	next:
		for _, c := range m.FindAll(text) {
			for _, a := range accepted {
				if c.overlaps(a) {
					continue next
				}
			}
			accepted = append(accepted, c)
		}
	}
	slices.SortFunc(accepted, func(a, b Candidate) int { return cmp.Compare(a.Start, b.Start) })
	return accepted
}

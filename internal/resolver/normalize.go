package resolver

import (
	"strings"
	"unicode"
)

// connectors are patronymic particles that carry no identity on their own.
var connectors = map[string]struct{}{
	"bin": {}, "binti": {}, "bte": {}, "bt": {},
	"a/l": {}, "a/p": {}, "s/o": {}, "d/o": {},
}

// honorifics are title token sequences stripped from the front of a name,
// longest first so that "deputy minister" wins over "minister".
var honorifics = [][]string{
	{"yang", "amat", "berhormat"},
	{"yang", "berhormat"},
	{"deputy", "minister"},
	{"timbalan", "menteri"},
	{"dato", "sri"},
	{"dato", "seri"},
	{"datuk", "seri"},
	{"datuk", "sri"},
	{"tan", "sri"},
	{"minister"},
	{"menteri"},
	{"madam"},
	{"mr"},
	{"mrs"},
	{"ms"},
	{"dr"},
	{"yb"},
	{"dato"},
	{"datuk"},
	{"tun"},
	{"tuan"},
	{"puan"},
	{"haji"},
	{"hajah"},
	{"hj"},
	{"ir"},
	{"prof"},
}

// NormalizeName lowercases a person's name, drops connector particles,
// replaces punctuation with spaces and strips leading honorifics.
// "Dato' Sri Anwar bin Ibrahim" and "anwar ibrahim" normalize identically.
func NormalizeName(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := connectors[f]; ok {
			continue
		}
		kept = append(kept, f)
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, strings.Join(kept, " "))

	tokens := stripHonorifics(strings.Fields(cleaned))
	return strings.Join(tokens, " ")
}

func stripHonorifics(tokens []string) []string {
	for {
		stripped := false
		for _, h := range honorifics {
			if hasPrefix(tokens, h) {
				tokens = tokens[len(h):]
				stripped = true
				break
			}
		}
		if !stripped || len(tokens) == 0 {
			return tokens
		}
	}
}

func hasPrefix(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

// NormalizeConstituency lowercases s and keeps only letters, so
// "Sungai  Petani", "sungai-petani" and "SUNGAIPETANI" compare equal.
func NormalizeConstituency(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasConnector reports whether s contains a connector particle as a word.
func HasConnector(s string) bool {
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:'\"()[]")
		if _, ok := connectors[f]; ok {
			return true
		}
	}
	return false
}

// LooksLikeName is the heuristic used to tell a person's name from a
// constituency: a fragment with a connector particle, or more than three
// words, is a name.
func LooksLikeName(s string) bool {
	return HasConnector(s) || len(strings.Fields(s)) > 3
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

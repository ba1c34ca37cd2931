package hansard

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTopics caps the number of topics kept per session.
const MaxTopics = 10

// tocScanLimit bounds the contents section when no body marker follows it.
const tocScanLimit = 8000

var (
	tocHeaderRe = regexp.MustCompile(`(?mi)^[ \t]*(?:KANDUNGAN|CONTENTS)[ \t\r]*$`)
	bodyStartRe = regexp.MustCompile(`(?mi)^[ \t]*(?:AHLI-AHLI[ \t]+YANG[ \t]+HADIR|MEMBERS[ \t]+PRESENT|DOA|PRAYERS|` +
		`MESYUARAT[ \t]+DIMULAKAN|DEWAN[ \t]+RAKYAT[ \t]+MULA[ \t]+BERSIDANG|THE[ \t]+HOUSE[ \t]+MET)\b`)

	leaderRe    = regexp.MustCompile(`(?:[ \t]*(?:\.{2,}|…+|_{2,})[ \t]*\(?\d*(?:[-–]\d+)?\)?|[ \t]+\(?\d{1,3}(?:[-–]\d{1,3})?\)?)[ \t]*$`)
	numberingRe = regexp.MustCompile(`^(?:\d+[.)]|\([a-zA-Z0-9]+\)|[a-z][.)])[ \t]*`)
)

// captionWords make up the column captions of a contents table.
var captionWords = map[string]struct{}{
	"muka": {}, "surat": {}, "halaman": {}, "perkara": {}, "page": {}, "subject": {},
}

var topicKeywords = []string{
	"budget", "education", "health", "economy", "security",
	"environment", "transport", "agriculture", "housing", "digital",
}

var keywordRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(topicKeywords))
	for i, k := range topicKeywords {
		out[i] = regexp.MustCompile(`(?i)\b` + k + `\b`)
	}
	return out
}()

// ExtractTopics returns up to limit topic labels: headings from the contents
// section first, then well-known keywords found anywhere in the text.
// Duplicates are removed case-insensitively. A limit outside 1..MaxTopics
// means MaxTopics.
func ExtractTopics(text string, limit int) []string {
	if limit <= 0 || limit > MaxTopics {
		limit = MaxTopics
	}
	topics := make([]string, 0, limit)
	seen := make(map[string]struct{})
	add := func(t string) bool {
		k := strings.ToLower(t)
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			topics = append(topics, t)
		}
		return len(topics) >= limit
	}

	for _, h := range tocHeadings(text) {
		if add(h) {
			return topics
		}
	}
	for i, re := range keywordRes {
		if re.MatchString(text) && add(capitalize(topicKeywords[i])) {
			return topics
		}
	}
	return topics
}

func tocHeadings(text string) []string {
	loc := tocHeaderRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	section := text[loc[1]:]
	if l := bodyStartRe.FindStringIndex(section); l != nil {
		section = section[:l[0]]
	} else if len(section) > tocScanLimit {
		section = section[:tocScanLimit]
	}

	var out []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		line = numberingRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(leaderRe.ReplaceAllString(line, ""))
		if isCaption(line) {
			continue
		}
		if isHeading(line) {
			out = append(out, strings.Join(strings.Fields(line), " "))
		}
	}
	return out
}

// isHeading accepts capitalized lines: the first letter is upper case and most
// words of four or more letters start with a capital.
func isHeading(s string) bool {
	if s == "" || len(s) > 120 {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(first) {
		return false
	}
	long, capped := 0, 0
	for _, w := range strings.Fields(s) {
		if letterLen(w) < 4 {
			continue
		}
		long++
		r, _ := utf8.DecodeRuneInString(w)
		if unicode.IsUpper(r) {
			capped++
		}
	}
	return long > 0 && capped*2 >= long
}

func isCaption(s string) bool {
	words := strings.Fields(strings.ToLower(s))
	for _, w := range words {
		if _, ok := captionWords[w]; !ok {
			return false
		}
	}
	return len(words) > 0
}

func letterLen(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

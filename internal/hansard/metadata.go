package hansard

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"hansard/internal/domain"
)

// headerRegionSize is how much of the transcript counts as its header.
const headerRegionSize = 4000

var (
	filenameDateRe = regexp.MustCompile(`(?:^|\D)(\d{2})[-_.]?(\d{2})[-_.]?(\d{4})(?:\D|$)`)
	sessionNoRe    = regexp.MustCompile(`(?i)\b(?:bil|no)\.[ \t]*(\d{1,4})\b`)
	headerDateRe   = regexp.MustCompile(`(?i)\b(\d{1,2})[ \t]+(january|januari|february|februari|march|mac|april|may|mei|` +
		`june|jun|july|julai|august|ogos|september|october|oktober|november|december|disember)[ \t,]+(\d{4})\b`)

	termMalayRe      = regexp.MustCompile(`(?m)^[ \t]*(PARLIMEN[ \t]+\S[^\n]*?)[ \t\r]*$`)
	termEnglishRe    = regexp.MustCompile(`(?m)^[ \t]*(\S[^\n]*?PARLIAMENT\b[^\n]*?)[ \t\r]*$`)
	sittingMalayRe   = regexp.MustCompile(`(?m)^[ \t]*(PENGGAL[ \t][^\n]*?MESYUARAT[^\n]*?)[ \t\r]*$`)
	sittingEnglishRe = regexp.MustCompile(`(?mi)^[ \t]*(\S[^\n]*?\bsession\b[^\n]*?\bmeeting\b[^\n]*?)[ \t\r]*$`)
)

var months = map[string]time.Month{
	"january": time.January, "januari": time.January,
	"february": time.February, "februari": time.February,
	"march": time.March, "mac": time.March,
	"april": time.April,
	"may": time.May, "mei": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "julai": time.July,
	"august": time.August, "ogos": time.August,
	"september": time.September,
	"october": time.October, "oktober": time.October,
	"november": time.November,
	"december": time.December, "disember": time.December,
}

// ExtractMetadata derives session identity from the filename and the header.
//
// A DDMMYYYY token in the filename gives both the date and the session number.
// Otherwise a "Bil. N" or "No. N" header marker gives the number and a written
// header date gives the date. Whatever is still missing falls back to the
// current day and a label derived from the text's hash, so re-running the
// same document yields the same label. Term and sitting default to "Unknown".
func ExtractMetadata(filename, text string, now time.Time) domain.SessionMetadata {
	header := headerRegion(text)
	md := domain.SessionMetadata{
		ParliamentTerm: firstGroup(header, termMalayRe, termEnglishRe),
		Sitting:        firstGroup(header, sittingMalayRe, sittingEnglishRe),
	}
	if md.ParliamentTerm == "" {
		md.ParliamentTerm = domain.UnknownValue
	}
	if md.Sitting == "" {
		md.Sitting = domain.UnknownValue
	}

	if d, ok := filenameDate(filename); ok {
		md.SessionDate = d
		md.SessionNumber = "DR-" + d.Format("02012006")
		return md
	}

	if m := sessionNoRe.FindStringSubmatch(header); m != nil {
		n, _ := strconv.Atoi(m[1])
		md.SessionNumber = "BIL-" + strconv.Itoa(n)
	}
	if d, ok := headerDate(header); ok {
		md.SessionDate = d
	} else {
		n := now.UTC()
		md.SessionDate = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	}
	if md.SessionNumber == "" {
		md.SessionNumber = SyntheticLabel(text)
	}
	return md
}

// SyntheticLabel returns the session label used when no marker is found.
func SyntheticLabel(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "AUTO-" + strings.ToUpper(hex.EncodeToString(sum[:4]))
}

func headerRegion(text string) string {
	if len(text) <= headerRegionSize {
		return text
	}
	end := headerRegionSize
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end]
}

func filenameDate(filename string) (time.Time, bool) {
	if filename == "" {
		return time.Time{}, false
	}
	base := filepath.Base(filename)
	for _, m := range filenameDateRe.FindAllStringSubmatch(base, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d, ok := validDate(year, time.Month(month), day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func headerDate(header string) (time.Time, bool) {
	for _, m := range headerDateRe.FindAllStringSubmatch(header, -1) {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if d, ok := validDate(year, months[strings.ToLower(m[2])], day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// validDate rejects components that time.Date would silently normalize,
// such as 31 February.
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func firstGroup(s string, res ...*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(s); m != nil {
			return strings.Join(strings.Fields(m[1]), " ")
		}
	}
	return ""
}

package hansard

import (
	"bytes"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/resolver"
)

var (
	// Roster headers are upper-case lines of their own.
	presentHeaderRe = regexp.MustCompile(`(?m)^[ \t]*(?:AHLI-AHLI[ \t]+YANG[ \t]+HADIR|MEMBERS[ \t]+PRESENT)[ \t]*:?[ \t\r]*$`)
	absentHeaderRe  = regexp.MustCompile(`(?m)^[ \t]*(?:AHLI-AHLI[ \t]+YANG[ \t]+TIDAK[ \t]+HADIR|MEMBERS[ \t]+ABSENT)[ \t]*:?[ \t\r]*$`)

	// Sections that may follow a roster. The opposite roster header is always
	// an end marker as well.
	rosterEndRe = regexp.MustCompile(`(?mi)^[ \t]*(?:SENATOR[ \t]+YANG[ \t]+HADIR|TURUT[ \t]+HADIR|` +
		`PEGAWAI[ \t]+BERTUGAS|ALSO[ \t]+PRESENT|OFFICERS[ \t]+ON[ \t]+DUTY|DOA|PRAYERS|` +
		`DEWAN[ \t]+RAKYAT[ \t]+MULA[ \t]+BERSIDANG|THE[ \t]+HOUSE[ \t]+MET)\b`)

	parenTokenRe = regexp.MustCompile(`\(([^()\n]{2,80})\)`)
)

// ExtractAttendance reads the present and absent rosters. Rosters are keyed
// by constituency, so entries are resolved by exact normalized constituency
// only. A missing roster header leaves that side empty and its Found flag
// false.
func ExtractAttendance(text string, r resolver.ConstituencyResolver) domain.AttendanceResult {
	var res domain.AttendanceResult

	present, ok := rosterSection(text, presentHeaderRe, absentHeaderRe)
	res.PresentFound = ok
	absent, ok := rosterSection(text, absentHeaderRe, presentHeaderRe)
	res.AbsentFound = ok

	seen := make(map[string]struct{})
	res.AttendedConstituencies = constituencyTokens(present, seen)
	res.AbsentConstituencies = constituencyTokens(absent, seen)

	resolve := func(names []string, present bool) {
		for _, c := range names {
			m, ok := r.ByConstituency(c)
			if !ok {
				res.Unresolved = append(res.Unresolved, c)
				continue
			}
			res.Refs = append(res.Refs, domain.AttendanceRef{Constituency: c, MemberID: m.ID, Present: present})
		}
	}
	resolve(res.AttendedConstituencies, true)
	resolve(res.AbsentConstituencies, false)

	res.AttendedMemberIDs, res.AbsentMemberIDs = AttendanceSets(res.Refs)
	return res
}

// AttendanceSets derives the attended and absent id sets from refs. An id that
// is present anywhere is never reported absent.
func AttendanceSets(refs []domain.AttendanceRef) (attended, absent []uuid.UUID) {
	present := make(map[uuid.UUID]struct{})
	missing := make(map[uuid.UUID]struct{})
	for _, ref := range refs {
		if ref.Present {
			present[ref.MemberID] = struct{}{}
		}
	}
	for _, ref := range refs {
		if _, ok := present[ref.MemberID]; !ref.Present && !ok {
			missing[ref.MemberID] = struct{}{}
		}
	}
	return sortedIDs(present), sortedIDs(missing)
}

// rosterSection returns the text between header and the nearest end marker.
func rosterSection(text string, header, opposite *regexp.Regexp) (string, bool) {
	loc := header.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	body := text[loc[1]:]
	end := len(body)
	for _, re := range []*regexp.Regexp{rosterEndRe, opposite} {
		if l := re.FindStringIndex(body); l != nil && l[0] < end {
			end = l[0]
		}
	}
	return body[:end], true
}

// constituencyTokens collects parenthesized constituency names in order.
// seen is shared across rosters so a name is kept only in the first roster
// that lists it.
func constituencyTokens(section string, seen map[string]struct{}) []string {
	var out []string
	for _, m := range parenTokenRe.FindAllStringSubmatch(section, -1) {
		name := strings.Join(strings.Fields(m[1]), " ")
		if !constituencyLike(name) {
			continue
		}
		key := resolver.NormalizeConstituency(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// constituencyLike accepts place names and rejects seat codes, page
// references and similar parenthesized noise.
func constituencyLike(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ' || r == '-' || r == '\'' || r == '’' || r == '.':
		default:
			return false
		}
	}
	return letters >= 2
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

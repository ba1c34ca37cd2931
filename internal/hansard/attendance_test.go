package hansard_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/hansard"
)

func TestExtractAttendance_PresentResolvedAbsentUnresolved(t *testing.T) {
	r := newRoster()
	text := "AHLI-AHLI YANG HADIR\n" +
		"1. Yang Berhormat Tuan Lee Chean Chung (Petaling Jaya)\n" +
		"AHLI-AHLI YANG TIDAK HADIR\n" +
		"1. Yang Berhormat Tuan Fong Kui Lun (Bukit  Bintang)\n"

	res := hansard.ExtractAttendance(text, r.cascade())

	assert.True(t, res.PresentFound)
	assert.True(t, res.AbsentFound)
	assert.Equal(t, []uuid.UUID{r.petaling.ID}, res.AttendedMemberIDs)
	assert.Empty(t, res.AbsentMemberIDs)
	assert.Equal(t, []string{"Petaling Jaya"}, res.AttendedConstituencies)
	assert.Equal(t, []string{"Bukit Bintang"}, res.AbsentConstituencies)
	assert.Equal(t, []string{"Bukit Bintang"}, res.Unresolved)
}

func TestExtractAttendance_BoundsDedupAndDisjointness(t *testing.T) {
	r := newRoster()
	text := "MUKA SURAT 1\n" +
		"AHLI-AHLI YANG HADIR\n" +
		"1. Yang Berhormat Tuan Lee (Petaling Jaya)\n" +
		"2. Yang Berhormat Puan Siti (Sungai Petani)\n" +
		"3. Yang Berhormat Tuan Lee (petaling jaya)\n" +
		"4. Kerusi (P.021) dan (202)\n" +
		"AHLI-AHLI YANG TIDAK HADIR\n" +
		"1. Yang Berhormat Tuan Lim (Bagan)\n" +
		"2. Yang Berhormat Puan Siti (Sungai Petani)\n" +
		"TURUT HADIR\n" +
		"1. Tuan John (Kota Bharu)\n"

	res := hansard.ExtractAttendance(text, r.cascade())

	assert.Equal(t, []string{"Petaling Jaya", "Sungai Petani"}, res.AttendedConstituencies)
	assert.Equal(t, []string{"Bagan"}, res.AbsentConstituencies)
	assert.ElementsMatch(t, []uuid.UUID{r.petaling.ID, r.siti.ID}, res.AttendedMemberIDs)
	assert.Equal(t, []uuid.UUID{r.limGuan.ID}, res.AbsentMemberIDs)
	assert.Empty(t, res.Unresolved)
	assert.NotContains(t, res.AttendedMemberIDs, r.johnTan.ID)
}

func TestExtractAttendance_MissingSectionsAreUnknown(t *testing.T) {
	r := newRoster()

	res := hansard.ExtractAttendance("Minister John Tan: no rosters here.\n", r.cascade())

	assert.False(t, res.PresentFound)
	assert.False(t, res.AbsentFound)
	assert.Empty(t, res.AttendedMemberIDs)
	assert.Empty(t, res.AbsentMemberIDs)
	assert.Empty(t, res.AttendedConstituencies)
	assert.Empty(t, res.AbsentConstituencies)
}

func TestExtractAttendance_HeaderWordsInProseAreIgnored(t *testing.T) {
	r := newRoster()
	text := "Minister John Tan: I thank all members present today.\n" +
		"(Sungai Petani): Members absent last week should be named.\n"

	res := hansard.ExtractAttendance(text, r.cascade())

	assert.False(t, res.PresentFound)
	assert.False(t, res.AbsentFound)
	assert.Empty(t, res.AttendedConstituencies)
	assert.Empty(t, res.AbsentConstituencies)
	assert.Empty(t, res.AttendedMemberIDs)
	assert.Empty(t, res.Refs)
}

func TestExtractAttendance_HeaderLineWithColon(t *testing.T) {
	r := newRoster()
	text := "  MEMBERS PRESENT:\r\n(Sungai Petani)\r\n"

	res := hansard.ExtractAttendance(text, r.cascade())

	assert.True(t, res.PresentFound)
	assert.Equal(t, []uuid.UUID{r.siti.ID}, res.AttendedMemberIDs)
}

func TestExtractAttendance_EnglishHeadersAbsentFirst(t *testing.T) {
	r := newRoster()
	text := "MEMBERS ABSENT\n(Tambun)\nMEMBERS PRESENT\n(Bagan)\n(Kota Bharu)\nPRAYERS\n(Pasir Mas)\n"

	res := hansard.ExtractAttendance(text, r.cascade())

	assert.Equal(t, []string{"Bagan", "Kota Bharu"}, res.AttendedConstituencies)
	assert.Equal(t, []string{"Tambun"}, res.AbsentConstituencies)
	assert.Equal(t, []uuid.UUID{r.anwar.ID}, res.AbsentMemberIDs)
}

// sameSeat resolves every constituency it knows to one member.
type sameSeat struct {
	member domain.Member
	known  map[string]bool
}

func (s sameSeat) ByConstituency(c string) (*domain.Member, bool) {
	if !s.known[c] {
		return nil, false
	}
	m := s.member
	return &m, true
}

func TestExtractAttendance_IDSetsDisjoint(t *testing.T) {
	m := domain.Member{ID: uuid.New(), Name: "Redistricted", Constituency: "Alpha"}
	r := sameSeat{member: m, known: map[string]bool{"Alpha": true, "Beta": true}}
	text := "AHLI-AHLI YANG HADIR\n(Alpha)\nAHLI-AHLI YANG TIDAK HADIR\n(Beta)\n"

	res := hansard.ExtractAttendance(text, r)

	require.Equal(t, []uuid.UUID{m.ID}, res.AttendedMemberIDs)
	assert.Empty(t, res.AbsentMemberIDs)
	assert.Equal(t, []string{"Beta"}, res.AbsentConstituencies)
}

func TestAttendanceSets(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	refs := []domain.AttendanceRef{
		{Constituency: "Alpha", MemberID: a, Present: false},
		{Constituency: "Beta", MemberID: b, Present: false},
		{Constituency: "Gamma", MemberID: a, Present: true},
	}

	attended, absent := hansard.AttendanceSets(refs)

	assert.Equal(t, []uuid.UUID{a}, attended)
	assert.Equal(t, []uuid.UUID{b}, absent)
}

package hansard_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/hansard"
)

const sessionText = `DEWAN RAKYAT
PARLIMEN KELIMA BELAS
PENGGAL KETIGA MESYUARAT PERTAMA
Bil. 12
Selasa, 12 Mac 2024

KANDUNGAN
1. RANG UNDANG-UNDANG KEWANGAN ........ 5

AHLI-AHLI YANG HADIR
1. Yang Berhormat Tuan Lee Chean Chung (Petaling Jaya)
2. Yang Berhormat Puan Siti Aminah binti Ahmad (Sungai Petani)
AHLI-AHLI YANG TIDAK HADIR
1. Yang Berhormat Tuan Lim Guan Eng (Bagan)

DOA

Tuan Yang di-Pertua: Ahli-ahli Yang Berhormat, sila duduk.
Minister John Tan: Thank you. The budget for health is increased.
(Sungai Petani): Soalan tambahan.
Minister John Tan: Jawapan bertulis akan diberi.
`

func TestParser_Parse(t *testing.T) {
	r := newRoster()
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, time.FixedZone("MYT", 8*3600))
	p := hansard.NewParser(hansard.ParserConfig{ExcerptLength: 40, Now: func() time.Time { return now }})

	ps, err := p.Parse(context.Background(), "DR-12032024.pdf", sessionText, r.cascade())
	require.NoError(t, err)

	assert.Equal(t, "DR-12032024.pdf", ps.SourceName)
	assert.Equal(t, "DR-12032024", ps.Metadata.SessionNumber)
	assert.Equal(t, "PARLIMEN KELIMA BELAS", ps.Metadata.ParliamentTerm)
	assert.Equal(t, "PENGGAL KETIGA MESYUARAT PERTAMA", ps.Metadata.Sitting)

	assert.ElementsMatch(t, []uuid.UUID{r.petaling.ID, r.siti.ID}, ps.Attendance.AttendedMemberIDs)
	assert.Len(t, ps.Attendance.AbsentMemberIDs, 1)

	require.Len(t, ps.Speakers, 2)
	assert.Equal(t, r.johnTan.ID, ps.Speakers[0].MemberID)
	assert.Len(t, ps.Instances, 3)
	assert.Equal(t, 3, ps.InstanceCount(r.johnTan.ID)+ps.InstanceCount(r.siti.ID))
	require.Len(t, ps.Unmatched, 1)
	assert.Equal(t, "Tuan Yang di-Pertua", ps.Unmatched[0].Key)

	assert.Equal(t, []string{"RANG UNDANG-UNDANG KEWANGAN", "Budget", "Health"}, ps.Topics)
	assert.Equal(t, "DEWAN RAKYAT PARLIMEN KELIMA BELAS PENGG", ps.Excerpt)
	assert.Equal(t, now.UTC(), ps.ParsedAt)
	assert.Equal(t, registryTakenAt, ps.RegistryTakenAt)
}

func TestParser_EmptyTranscript(t *testing.T) {
	r := newRoster()
	p := hansard.NewParser(hansard.ParserConfig{})

	ps, err := p.Parse(context.Background(), "empty.txt", " \n\t ", r.cascade())

	assert.ErrorIs(t, err, domain.ErrEmptyTranscript)
	assert.Nil(t, ps)
}

func TestParser_CancelledContext(t *testing.T) {
	r := newRoster()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hansard.NewParser(hansard.ParserConfig{}).Parse(ctx, "DR-12032024.pdf", sessionText, r.cascade())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", hansard.Excerpt("  a \n b\tc  ", 10))
	assert.Equal(t, "abcd", hansard.Excerpt("abcd efg", 5))
	assert.Equal(t, "Dewan Ra", hansard.Excerpt("Dewan Rakyat", 8))
	assert.Equal(t, "", hansard.Excerpt("text", 0))
	assert.Equal(t, "Déwán", hansard.Excerpt("Déwán Rakyat", 5))
}


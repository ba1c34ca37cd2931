package hansard_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/hansard"
)

func TestSpeakerEngine_RepeatedMinisterAndConstituency(t *testing.T) {
	r := newRoster()
	text := "Minister John Tan: Thank you, Mr Speaker.\n" +
		"The ministry has studied the matter.\n" +
		"(Sungai Petani): I rise to ask a supplementary question.\n" +
		"Thank you.\n" +
		"Minister John Tan: I will answer that in writing.\n"

	res, err := hansard.NewSpeakerEngine(r.cascade(), 0).Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, res.Speakers, 2)
	assert.Equal(t, r.johnTan.ID, res.Speakers[0].MemberID)
	assert.Equal(t, 1, res.Speakers[0].SpeakingOrder)
	assert.Equal(t, r.siti.ID, res.Speakers[1].MemberID)
	assert.Equal(t, 2, res.Speakers[1].SpeakingOrder)

	require.Len(t, res.Instances, 3)
	var johnNumbers, lines []int
	for _, in := range res.Instances {
		lines = append(lines, in.LineNumber)
		if in.MemberID == r.johnTan.ID {
			johnNumbers = append(johnNumbers, in.InstanceNumber)
		}
	}
	assert.Equal(t, []int{1, 2}, johnNumbers)
	assert.Equal(t, []int{1, 3, 5}, lines)
	assert.Empty(t, res.Unmatched)
}

func TestSpeakerEngine_PatternShapes(t *testing.T) {
	r := newRoster()
	text := strings.Join([]string{
		"DATO' SRI ANWAR IBRAHIM (Tambun): Terima kasih.",
		"Tuan Ahmad bin Ismail [Pasir Mas]: Soalan saya.",
		"Menteri Kewangan [Tuan Lim Guan Eng]: Jawapan.",
		"LIM GUAN ENG (Bagan): Tambahan.",
		"Mr. John Tan (Kota Bharu): Thank you.",
		"",
	}, "\n")

	res, err := hansard.NewSpeakerEngine(r.cascade(), 0).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Empty(t, res.Unmatched)

	got := make([]uuid.UUID, 0, len(res.Instances))
	for _, in := range res.Instances {
		got = append(got, in.MemberID)
	}
	assert.Equal(t, []uuid.UUID{r.anwar.ID, r.ahmad.ID, r.limGuan.ID, r.limGuan.ID, r.johnTan.ID}, got)
	assert.Len(t, res.Speakers, 4)
	assert.Equal(t, "Lim Guan Eng", res.Instances[2].Name)
	assert.Equal(t, "Bagan", res.Instances[2].Constituency)
}

func TestSpeakerEngine_UnmatchedRecordedOnce(t *testing.T) {
	r := newRoster()
	text := "Tuan Yang di-Pertua: Order, order.\n" +
		"Minister John Tan: Thank you.\n" +
		"Tuan Yang di-Pertua: Sila duduk.\n" +
		"(Gua Musang): Point of order.\n"

	res, err := hansard.NewSpeakerEngine(r.cascade(), 0).Extract(context.Background(), text)
	require.NoError(t, err)

	require.Len(t, res.Unmatched, 2)
	assert.Equal(t, "Tuan Yang di-Pertua", res.Unmatched[0].Key)
	assert.Equal(t, 1, res.Unmatched[0].LineNumber)
	assert.Equal(t, "(Gua Musang)", res.Unmatched[1].Key)
	assert.Equal(t, "Gua Musang", res.Unmatched[1].RawConstituency)
	assert.Equal(t, 4, res.Unmatched[1].LineNumber)
	require.Len(t, res.Speakers, 1)
	assert.Equal(t, r.johnTan.ID, res.Speakers[0].MemberID)
}

func TestSpeakerEngine_WindowBoundariesKeepLineNumbers(t *testing.T) {
	r := newRoster()
	var b strings.Builder
	for i := 1; i <= 60; i++ {
		switch i % 15 {
		case 3:
			b.WriteString("Minister John Tan: Statement.\n")
		case 9:
			b.WriteString("(Sungai Petani): Question.\n")
		case 12:
			b.WriteString("LIM GUAN ENG (Bagan): Follow-up.\n")
		default:
			fmt.Fprintf(&b, "Filler line %02d of the debate record.\n", i)
		}
	}
	text := b.String()

	whole, err := hansard.NewSpeakerEngine(r.cascade(), len(text)+1).Extract(context.Background(), text)
	require.NoError(t, err)
	small, err := hansard.NewSpeakerEngine(r.cascade(), 80).Extract(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, whole, small)
	require.Len(t, whole.Instances, 12)
	assert.Equal(t, 3, whole.Instances[0].LineNumber)
	assert.Equal(t, 9, whole.Instances[1].LineNumber)
	assert.Equal(t, 12, whole.Instances[2].LineNumber)
	assert.Equal(t, 57, whole.Instances[11].LineNumber)
}

func TestSpeakerEngine_Invariants(t *testing.T) {
	r := newRoster()
	text := strings.Repeat("Minister John Tan: a.\n(Sungai Petani): b.\nLIM GUAN ENG (Bagan): c.\n"+
		"Tuan Ahmad bin Ismail [Pasir Mas]: d.\nMinister John Tan: e.\nTuan Yang di-Pertua: f.\n", 7)

	res, err := hansard.NewSpeakerEngine(r.cascade(), 100).Extract(context.Background(), text)
	require.NoError(t, err)

	distinct := make(map[uuid.UUID]int)
	maxNumber := make(map[uuid.UUID]int)
	for _, in := range res.Instances {
		distinct[in.MemberID]++
		if in.InstanceNumber > maxNumber[in.MemberID] {
			maxNumber[in.MemberID] = in.InstanceNumber
		}
	}
	assert.Len(t, res.Speakers, len(distinct))
	for i, s := range res.Speakers {
		assert.Equal(t, i+1, s.SpeakingOrder)
	}
	for id, n := range distinct {
		assert.Equal(t, n, maxNumber[id])
	}
	assert.Equal(t, 14, distinct[r.johnTan.ID])
	assert.Len(t, res.Unmatched, 1)
}

type fixedMatcher struct {
	name  string
	cands []hansard.Candidate
}

func (m fixedMatcher) Name() string                       { return m.name }
func (m fixedMatcher) FindAll(string) []hansard.Candidate { return m.cands }

func TestSpeakerEngine_HigherPriorityMatcherClaimsSpan(t *testing.T) {
	r := newRoster()
	text := "Minister John Tan (Sungai Petani): hello\n"

	specific := fixedMatcher{name: "specific", cands: []hansard.Candidate{
		{Start: 0, End: 34, Name: "Minister John Tan", Constituency: "Sungai Petani"},
	}}
	loose := fixedMatcher{name: "loose", cands: []hansard.Candidate{
		{Start: 18, End: 34, Constituency: "Sungai Petani"},
	}}

	res, err := hansard.NewSpeakerEngine(r.cascade(), 0, specific, loose).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, res.Instances, 1)
	assert.Equal(t, r.johnTan.ID, res.Instances[0].MemberID)

	// Reversing the order lets the loose matcher win the same text.
	res, err = hansard.NewSpeakerEngine(r.cascade(), 0, loose, specific).Extract(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, res.Instances, 1)
	assert.Equal(t, r.siti.ID, res.Instances[0].MemberID)
}

func TestSpeakerEngine_CancelledContextAbortsDocument(t *testing.T) {
	r := newRoster()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := hansard.NewSpeakerEngine(r.cascade(), 0).Extract(ctx, "Minister John Tan: hi.\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestDefaultMatchers_Order(t *testing.T) {
	var names []string
	for _, m := range hansard.DefaultMatchers() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{
		"titled_name_constituency",
		"titled_name",
		"caps_name_constituency",
		"name_bracket_constituency",
		"bare_constituency",
	}, names)
}

func TestUnmatchedKey(t *testing.T) {
	assert.Equal(t, "Tuan Yang di-Pertua", hansard.UnmatchedKey("Tuan Yang di-Pertua", ""))
	assert.Equal(t, "(Gua Musang)", hansard.UnmatchedKey("", "Gua Musang"))
	assert.Equal(t, "Ali (Gua Musang)", hansard.UnmatchedKey("Ali", "Gua Musang"))
}

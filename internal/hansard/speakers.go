package hansard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/resolver"
)

// SpeakerResult is the speaker-related part of a parsed session.
type SpeakerResult struct {
	Speakers  []domain.SpeakerRecord
	Instances []domain.SpeakingInstance
	Unmatched []domain.UnmatchedSpeaker
}

// SpeakerEngine scans a transcript for speaker introductions and attributes
// each one to a member. An engine holds no per-document state, so one engine
// may serve concurrent Extract calls.
type SpeakerEngine struct {
	resolver   resolver.Resolver
	matchers   []SpeakerMatcher
	windowSize int
}

// NewSpeakerEngine creates an engine. A non-positive windowSize selects
// DefaultWindowSize; no matchers selects DefaultMatchers.
func NewSpeakerEngine(r resolver.Resolver, windowSize int, matchers ...SpeakerMatcher) *SpeakerEngine {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &SpeakerEngine{resolver: r, matchers: matchers, windowSize: windowSize}
}

// Extract attributes every speaker introduction in text. Windows are scanned in
// order; if ctx is done before a window starts, the whole document is
// abandoned and no partial result is returned.
func (e *SpeakerEngine) Extract(ctx context.Context, text string) (*SpeakerResult, error) {
	st := newSpeakerState()
	lines := newLineCounter(text)

	for start := 0; start < len(text); {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("hansard.SpeakerEngine.Extract: %w", err)
		}
		w := nextWindow(text, start, e.windowSize)
		for _, c := range collect(e.matchers, w.text) {
			line := lines.lineAt(w.offset + c.Start)
			if m, ok := e.resolver.Resolve(c.Name, c.Constituency); ok {
				st.speak(m, line)
				continue
			}
			st.unmatched(c, line)
		}
		start = w.end()
	}
	return st.result(), nil
}

type speakerState struct {
	order     map[uuid.UUID]int
	counts    map[uuid.UUID]int
	seen      map[string]struct{}
	speakers  []domain.SpeakerRecord
	instances []domain.SpeakingInstance
	missed    []domain.UnmatchedSpeaker
}

func newSpeakerState() *speakerState {
	return &speakerState{
		order:  make(map[uuid.UUID]int),
		counts: make(map[uuid.UUID]int),
		seen:   make(map[string]struct{}),
	}
}

func (s *speakerState) speak(m *domain.Member, line int) {
	if _, ok := s.order[m.ID]; !ok {
		s.order[m.ID] = len(s.speakers) + 1
		s.speakers = append(s.speakers, domain.SpeakerRecord{
			MemberID:      m.ID,
			Name:          m.Name,
			Constituency:  m.Constituency,
			SpeakingOrder: s.order[m.ID],
		})
	}
	s.counts[m.ID]++
	s.instances = append(s.instances, domain.SpeakingInstance{
		MemberID:       m.ID,
		Name:           m.Name,
		Constituency:   m.Constituency,
		InstanceNumber: s.counts[m.ID],
		LineNumber:     line,
	})
}

func (s *speakerState) unmatched(c Candidate, line int) {
	key := UnmatchedKey(c.Name, c.Constituency)
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.missed = append(s.missed, domain.UnmatchedSpeaker{
		Key:             key,
		RawName:         c.Name,
		RawConstituency: c.Constituency,
		LineNumber:      line,
	})
}

func (s *speakerState) result() *SpeakerResult {
	return &SpeakerResult{Speakers: s.speakers, Instances: s.instances, Unmatched: s.missed}
}

// UnmatchedKey formats the review key "name (constituency)". A missing part is
// left out rather than rendered empty.
func UnmatchedKey(name, constituency string) string {
	switch {
	case constituency == "":
		return name
	case name == "":
		return "(" + constituency + ")"
	default:
		return name + " (" + constituency + ")"
	}
}

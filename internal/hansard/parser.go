// Package hansard turns the text of a Hansard transcript into a parsed
// session: metadata, attendance, attributed speakers and topics.
package hansard

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hansard/internal/domain"
	"hansard/internal/resolver"
)

// DefaultExcerptLength is the excerpt size in runes.
const DefaultExcerptLength = 500

// ParserConfig tunes a Parser. Zero values take defaults.
type ParserConfig struct {
	WindowSize    int
	MaxTopics     int
	ExcerptLength int
	Matchers      []SpeakerMatcher
	Now           func() time.Time
}

// Parser runs the extractors over a transcript. It keeps no per-document
// state and is safe for concurrent use.
type Parser struct {
	cfg ParserConfig
}

// NewParser creates a Parser.
func NewParser(cfg ParserConfig) *Parser {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	if cfg.MaxTopics <= 0 || cfg.MaxTopics > MaxTopics {
		cfg.MaxTopics = MaxTopics
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = DefaultExcerptLength
	}
	if len(cfg.Matchers) == 0 {
		cfg.Matchers = DefaultMatchers()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Parser{cfg: cfg}
}

// Parse extracts a session from text. sourceName is the transcript's file
// name and is used for metadata hints. All member ids in the result come from
// the snapshot c is bound to.
func (p *Parser) Parse(ctx context.Context, sourceName, text string, c *resolver.Cascade) (*domain.ParsedSession, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyTranscript
	}
	now := p.cfg.Now()

	speakers, err := NewSpeakerEngine(c, p.cfg.WindowSize, p.cfg.Matchers...).Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("hansard.Parse %s: %w", sourceName, err)
	}

	return &domain.ParsedSession{
		SourceName:      sourceName,
		Metadata:        ExtractMetadata(sourceName, text, now),
		Attendance:      ExtractAttendance(text, c),
		Speakers:        speakers.Speakers,
		Instances:       speakers.Instances,
		Unmatched:       speakers.Unmatched,
		Topics:          ExtractTopics(text, p.cfg.MaxTopics),
		Excerpt:         Excerpt(text, p.cfg.ExcerptLength),
		ParsedAt:        now.UTC(),
		RegistryTakenAt: c.Snapshot().TakenAt(),
	}, nil
}

// Excerpt returns the first n runes of text with whitespace collapsed.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	count := 0
	for _, f := range strings.Fields(text) {
		if count > 0 {
			if count+1 > n {
				break
			}
			b.WriteByte(' ')
			count++
		}
		rc := utf8.RuneCountInString(f)
		if count+rc > n {
			for _, r := range f {
				if count >= n {
					break
				}
				b.WriteRune(r)
				count++
			}
			break
		}
		b.WriteString(f)
		count += rc
	}
	return strings.TrimSpace(b.String())
}

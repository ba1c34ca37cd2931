package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member is one entry of the member registry. The registry owner may regenerate
// IDs between runs (e.g. a reseed), so IDs are only stable within a snapshot.
type Member struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	Constituency         string    `db:"constituency" json:"constituency"`
	Party                string    `db:"party" json:"party"`
	SessionsSpoken       int       `db:"sessions_spoken" json:"sessions_spoken"`
	TotalSpeechInstances int       `db:"total_speech_instances" json:"total_speech_instances"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// SessionMetadata identifies a sitting. Derived once per transcript.
type SessionMetadata struct {
	SessionNumber  string    `json:"session_number"`
	SessionDate    time.Time `json:"session_date"`
	ParliamentTerm string    `json:"parliament_term"`
	Sitting        string    `json:"sitting"`
}

// AttendanceRef pairs a roster constituency with the member it resolved to.
type AttendanceRef struct {
	Constituency string    `db:"constituency" json:"constituency"`
	MemberID     uuid.UUID `db:"member_id" json:"member_id"`
	Present      bool      `db:"present" json:"present"`
}

// AttendanceResult holds the present/absent rosters of a session.
//
// A constituency name appears in at most one of the two name lists and a member
// id in at most one of the two id sets. Names that did not resolve stay in the
// name lists and are repeated in Unresolved. PresentFound/AbsentFound are false
// when the section header is missing, which means "unknown", not "nobody".
// Refs lists every resolved roster entry in roster order.
type AttendanceResult struct {
	AttendedMemberIDs      []uuid.UUID     `json:"attended_member_ids"`
	AbsentMemberIDs        []uuid.UUID     `json:"absent_member_ids"`
	AttendedConstituencies []string        `json:"attended_constituencies"`
	AbsentConstituencies   []string        `json:"absent_constituencies"`
	Unresolved             []string        `json:"unresolved"`
	Refs                   []AttendanceRef `json:"refs"`
	PresentFound           bool            `json:"present_found"`
	AbsentFound            bool            `json:"absent_found"`
}

// SpeakerRecord is one unique member who spoke in a session.
type SpeakerRecord struct {
	MemberID      uuid.UUID `db:"member_id" json:"member_id"`
	Name          string    `db:"name" json:"name"`
	Constituency  string    `db:"constituency" json:"constituency"`
	SpeakingOrder int       `db:"speaking_order" json:"speaking_order"`
}

// SpeakingInstance is one occurrence of a speaker introduction.
type SpeakingInstance struct {
	MemberID       uuid.UUID `db:"member_id" json:"member_id"`
	Name           string    `db:"name" json:"name"`
	Constituency   string    `db:"constituency" json:"constituency"`
	InstanceNumber int       `db:"instance_number" json:"instance_number"`
	LineNumber     int       `db:"line_number" json:"line_number"`
}

// UnmatchedSpeaker is a captured introduction that did not resolve to any member.
type UnmatchedSpeaker struct {
	Key             string `db:"speaker_key" json:"key"`
	RawName         string `db:"raw_name" json:"raw_name"`
	RawConstituency string `db:"raw_constituency" json:"raw_constituency"`
	LineNumber      int    `db:"line_number" json:"line_number"`
}

// ParsedSession is the unit handed to persistence.
type ParsedSession struct {
	SourceName      string             `json:"source_name"`
	Metadata        SessionMetadata    `json:"metadata"`
	Attendance      AttendanceResult   `json:"attendance"`
	Speakers        []SpeakerRecord    `json:"speakers"`
	Instances       []SpeakingInstance `json:"instances"`
	Unmatched       []UnmatchedSpeaker `json:"unmatched"`
	Topics          []string           `json:"topics"`
	Excerpt         string             `json:"excerpt"`
	ParsedAt        time.Time          `json:"parsed_at"`
	RegistryTakenAt time.Time          `json:"registry_taken_at"`
}

// InstanceCount returns how many speaking instances the given member has.
func (p *ParsedSession) InstanceCount(memberID uuid.UUID) int {
	n := 0
	for i := range p.Instances {
		if p.Instances[i].MemberID == memberID {
			n++
		}
	}
	return n
}

// Session is a stored session row.
type Session struct {
	ID              uuid.UUID `db:"id" json:"id"`
	SessionNumber   string    `db:"session_number" json:"session_number"`
	SessionDate     time.Time `db:"session_date" json:"session_date"`
	ParliamentTerm  string    `db:"parliament_term" json:"parliament_term"`
	Sitting         string    `db:"sitting" json:"sitting"`
	SourceName      string    `db:"source_name" json:"source_name"`
	Excerpt         string    `db:"excerpt" json:"excerpt"`
	Topics          []string  `db:"-" json:"topics"`
	PresentFound    bool      `db:"present_found" json:"present_found"`
	AbsentFound     bool      `db:"absent_found" json:"absent_found"`
	SpeakerCount    int       `db:"speaker_count" json:"speaker_count"`
	InstanceCount   int       `db:"instance_count" json:"instance_count"`
	UnmatchedCount  int       `db:"unmatched_count" json:"unmatched_count"`
	ParsedAt        time.Time `db:"parsed_at" json:"parsed_at"`
	RegistryTakenAt time.Time `db:"registry_taken_at" json:"registry_taken_at"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ReconciliationEvent records how a captured member id was resolved at persist time.
type ReconciliationEvent struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	SessionID      uuid.UUID        `db:"session_id" json:"session_id"`
	Kind           ReferenceKind    `db:"kind" json:"kind"`
	CapturedID     uuid.UUID        `db:"captured_id" json:"captured_id"`
	ResolvedID     uuid.UUID        `db:"resolved_id" json:"resolved_id"`
	Name           string           `db:"name" json:"name"`
	Outcome        ReconcileOutcome `db:"outcome" json:"outcome"`
	Flagged        bool             `db:"flagged" json:"flagged"`
	CounterSkipped bool             `db:"counter_skipped" json:"counter_skipped"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
}

// StoredUnmatchedSpeaker is an unmatched speaker row joined with its session.
type StoredUnmatchedSpeaker struct {
	UnmatchedSpeaker
	SessionID     uuid.UUID `db:"session_id" json:"session_id"`
	SessionNumber string    `db:"session_number" json:"session_number"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// DocumentResult is the outcome of one document in a batch.
type DocumentResult struct {
	Source        string         `json:"source"`
	Status        DocumentStatus `json:"status"`
	SessionID     *uuid.UUID     `json:"session_id,omitempty"`
	SessionNumber string         `json:"session_number,omitempty"`
	Speakers      int            `json:"speakers"`
	Instances     int            `json:"instances"`
	Unmatched     int            `json:"unmatched"`
	Reconciled    int            `json:"reconciled"`
	Fallbacks     int            `json:"fallbacks"`
	Error         string         `json:"error,omitempty"`
	Duration      time.Duration  `json:"duration"`
}

// BatchReport summarizes a batch run for the operator.
type BatchReport struct {
	StartedAt         time.Time        `json:"started_at"`
	FinishedAt        time.Time        `json:"finished_at"`
	Total             int              `json:"total"`
	Persisted         int              `json:"persisted"`
	Skipped           int              `json:"skipped"`
	Failed            int              `json:"failed"`
	UnmatchedSpeakers int              `json:"unmatched_speakers"`
	ReconciledIDs     int              `json:"reconciled_ids"`
	FallbackIDs       int              `json:"fallback_ids"`
	Documents         []DocumentResult `json:"documents"`
}

// Add folds one document result into the report totals.
func (r *BatchReport) Add(res DocumentResult) {
	r.Total++
	switch res.Status {
	case DocumentStatusPersisted:
		r.Persisted++
	case DocumentStatusSkipped:
		r.Skipped++
	case DocumentStatusFailed:
		r.Failed++
	}
	r.UnmatchedSpeakers += res.Unmatched
	r.ReconciledIDs += res.Reconciled
	r.FallbackIDs += res.Fallbacks
	r.Documents = append(r.Documents, res)
}

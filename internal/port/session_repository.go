package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hansard/internal/domain"
)

// SessionStore defines the contract for session persistence.
// WithinSessionTx runs fn in one transaction holding an exclusive per-session
// lock for lockKey; either everything fn wrote is committed or nothing is.
type SessionStore interface {
	Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error)
	WithinSessionTx(ctx context.Context, lockKey string, fn func(ctx context.Context, w SessionWriter) error) error
}

// SessionWriter is the transactional write surface handed to WithinSessionTx callbacks.
type SessionWriter interface {
	Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error)
	CreateSession(ctx context.Context, session *domain.ParsedSession) (uuid.UUID, error)
	UpdateMemberCounters(ctx context.Context, memberID uuid.UUID, sessionsDelta, instancesDelta int) error
	RecordUnmatched(ctx context.Context, sessionID uuid.UUID, unmatched []domain.UnmatchedSpeaker) error
	RecordReconciliations(ctx context.Context, sessionID uuid.UUID, events []domain.ReconciliationEvent) error
}

// SessionQueryRepository defines read access for the operator review API.
type SessionQueryRepository interface {
	List(ctx context.Context, offset, limit int) ([]domain.Session, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error)
	ListInstances(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakingInstance, error)
	ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]domain.AttendanceRef, error)
	ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error)
	ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hansard/internal/domain"
	"hansard/internal/port"
)

const sessionColumns = `id, session_number, session_date, parliament_term, sitting, source_name, excerpt,
	present_found, absent_found, speaker_count, instance_count, unmatched_count,
	parsed_at, registry_taken_at, created_at`

type sessionQueryRepo struct {
	db *sqlx.DB
}

// NewSessionQueryRepo creates a new PostgreSQL-backed SessionQueryRepository.
func NewSessionQueryRepo(db *sqlx.DB) port.SessionQueryRepository {
	return &sessionQueryRepo{db: db}
}

func (r *sessionQueryRepo) List(ctx context.Context, offset, limit int) ([]domain.Session, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sessions"); err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.List count: %w", err)
	}

	var sessions []domain.Session
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT `+sessionColumns+` FROM sessions
		 ORDER BY session_date DESC, session_number LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.List: %w", err)
	}
	return sessions, total, nil
}

func (r *sessionQueryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var s domain.Session
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("sessionQueryRepo.GetByID: %w", err)
	}
	err = r.db.SelectContext(ctx, &s.Topics,
		`SELECT topic FROM session_topics WHERE session_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("sessionQueryRepo.GetByID topics: %w", err)
	}
	return &s, nil
}

func (r *sessionQueryRepo) ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error) {
	var speakers []domain.SpeakerRecord
	err := r.db.SelectContext(ctx, &speakers,
		`SELECT member_id, name, constituency, speaking_order
		 FROM session_speakers WHERE session_id = $1 ORDER BY speaking_order`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sessionQueryRepo.ListSpeakers: %w", err)
	}
	return speakers, nil
}

func (r *sessionQueryRepo) ListInstances(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakingInstance, error) {
	var instances []domain.SpeakingInstance
	err := r.db.SelectContext(ctx, &instances,
		`SELECT member_id, name, constituency, instance_number, line_number
		 FROM speaking_instances WHERE session_id = $1 ORDER BY line_number, member_id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sessionQueryRepo.ListInstances: %w", err)
	}
	return instances, nil
}

// ListAttendance returns the roster of a session. Unresolved entries carry uuid.Nil.
func (r *sessionQueryRepo) ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]domain.AttendanceRef, error) {
	var refs []domain.AttendanceRef
	err := r.db.SelectContext(ctx, &refs,
		`SELECT constituency, COALESCE(member_id, '00000000-0000-0000-0000-000000000000'::uuid) AS member_id, present
		 FROM session_attendance WHERE session_id = $1 ORDER BY present DESC, constituency`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sessionQueryRepo.ListAttendance: %w", err)
	}
	return refs, nil
}

func (r *sessionQueryRepo) ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM unmatched_speakers"); err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.ListUnmatched count: %w", err)
	}

	var rows []domain.StoredUnmatchedSpeaker
	err := r.db.SelectContext(ctx, &rows,
		`SELECT u.speaker_key, u.raw_name, u.raw_constituency, u.line_number,
		        u.session_id, s.session_number, u.created_at
		 FROM unmatched_speakers u JOIN sessions s ON s.id = u.session_id
		 ORDER BY u.created_at DESC, u.line_number LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.ListUnmatched: %w", err)
	}
	return rows, total, nil
}

func (r *sessionQueryRepo) ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error) {
	where := ""
	if flaggedOnly {
		where = "WHERE flagged"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reconciliation_events "+where); err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.ListReconciliations count: %w", err)
	}

	var events []domain.ReconciliationEvent
	err := r.db.SelectContext(ctx, &events,
		`SELECT id, session_id, kind, captured_id, resolved_id, name, outcome, flagged, counter_skipped, created_at
		 FROM reconciliation_events `+where+`
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("sessionQueryRepo.ListReconciliations: %w", err)
	}
	return events, total, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hansard/internal/domain"
	"hansard/internal/port"
)

type sessionStore struct {
	db *sqlx.DB
}

// NewSessionStore creates a new PostgreSQL-backed SessionStore.
func NewSessionStore(db *sqlx.DB) port.SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error) {
	return sessionExists(ctx, s.db, sessionNumber, sessionDate)
}

// WithinSessionTx takes a transaction-scoped advisory lock on lockKey before
// running fn, so writers of the same session queue behind each other while
// different sessions proceed in parallel. The lock is released on commit or
// rollback.
func (s *sessionStore) WithinSessionTx(ctx context.Context, lockKey string, fn func(ctx context.Context, w port.SessionWriter) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sessionStore.WithinSessionTx begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return fmt.Errorf("sessionStore.WithinSessionTx lock: %w", err)
	}
	if err := fn(ctx, &sessionWriter{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sessionStore.WithinSessionTx commit: %w", err)
	}
	return nil
}

func sessionExists(ctx context.Context, q sqlx.QueryerContext, number string, date time.Time) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE session_number = $1 AND session_date = $2)`,
		number, date)
	if err != nil {
		return false, fmt.Errorf("sessionStore.Exists: %w", err)
	}
	return exists, nil
}

type sessionWriter struct {
	tx *sqlx.Tx
}

func (w *sessionWriter) Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error) {
	return sessionExists(ctx, w.tx, sessionNumber, sessionDate)
}

// CreateSession inserts the session with its speakers, instances, roster and
// topics. An existing row for the same number and date yields
// domain.ErrDuplicateSession without aborting the transaction.
func (w *sessionWriter) CreateSession(ctx context.Context, ps *domain.ParsedSession) (uuid.UUID, error) {
	md := ps.Metadata
	var id uuid.UUID
	err := w.tx.QueryRowxContext(ctx,
		`INSERT INTO sessions (
			id, session_number, session_date, parliament_term, sitting,
			source_name, excerpt, present_found, absent_found,
			speaker_count, instance_count, unmatched_count,
			parsed_at, registry_taken_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14
		)
		ON CONFLICT (session_number, session_date) DO NOTHING
		RETURNING id`,
		uuid.New(), md.SessionNumber, md.SessionDate, md.ParliamentTerm, md.Sitting,
		ps.SourceName, ps.Excerpt, ps.Attendance.PresentFound, ps.Attendance.AbsentFound,
		len(ps.Speakers), len(ps.Instances), len(ps.Unmatched),
		ps.ParsedAt, ps.RegistryTakenAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, domain.ErrDuplicateSession
		}
		return uuid.Nil, fmt.Errorf("sessionWriter.CreateSession: %w", err)
	}

	for _, s := range ps.Speakers {
		if _, err := w.tx.ExecContext(ctx,
			`INSERT INTO session_speakers (session_id, member_id, name, constituency, speaking_order)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, s.MemberID, s.Name, s.Constituency, s.SpeakingOrder); err != nil {
			return uuid.Nil, fmt.Errorf("sessionWriter.CreateSession speakers: %w", err)
		}
	}
	for _, in := range ps.Instances {
		if _, err := w.tx.ExecContext(ctx,
			`INSERT INTO speaking_instances (session_id, member_id, name, constituency, instance_number, line_number)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, in.MemberID, in.Name, in.Constituency, in.InstanceNumber, in.LineNumber); err != nil {
			return uuid.Nil, fmt.Errorf("sessionWriter.CreateSession instances: %w", err)
		}
	}
	if err := w.insertAttendance(ctx, id, ps.Attendance); err != nil {
		return uuid.Nil, err
	}
	for i, topic := range ps.Topics {
		if _, err := w.tx.ExecContext(ctx,
			`INSERT INTO session_topics (session_id, position, topic) VALUES ($1, $2, $3)`,
			id, i+1, topic); err != nil {
			return uuid.Nil, fmt.Errorf("sessionWriter.CreateSession topics: %w", err)
		}
	}
	return id, nil
}

// insertAttendance stores one row per roster constituency. Unresolved names
// are kept with a NULL member id.
func (w *sessionWriter) insertAttendance(ctx context.Context, sessionID uuid.UUID, a domain.AttendanceResult) error {
	byConstituency := make(map[string]uuid.UUID, len(a.Refs))
	for _, ref := range a.Refs {
		byConstituency[ref.Constituency] = ref.MemberID
	}
	insert := func(constituency string, present bool) error {
		var memberID *uuid.UUID
		if id, ok := byConstituency[constituency]; ok {
			memberID = &id
		}
		_, err := w.tx.ExecContext(ctx,
			`INSERT INTO session_attendance (session_id, constituency, member_id, present)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (session_id, constituency) DO NOTHING`,
			sessionID, constituency, memberID, present)
		if err != nil {
			return fmt.Errorf("sessionWriter.CreateSession attendance: %w", err)
		}
		return nil
	}
	for _, c := range a.AttendedConstituencies {
		if err := insert(c, true); err != nil {
			return err
		}
	}
	for _, c := range a.AbsentConstituencies {
		if err := insert(c, false); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMemberCounters returns domain.ErrMemberNotFound when no member row has
// the given id.
func (w *sessionWriter) UpdateMemberCounters(ctx context.Context, memberID uuid.UUID, sessionsDelta, instancesDelta int) error {
	result, err := w.tx.ExecContext(ctx,
		`UPDATE members
		 SET sessions_spoken = sessions_spoken + $2,
		     total_speech_instances = total_speech_instances + $3,
		     updated_at = NOW()
		 WHERE id = $1`,
		memberID, sessionsDelta, instancesDelta)
	if err != nil {
		return fmt.Errorf("sessionWriter.UpdateMemberCounters: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sessionWriter.UpdateMemberCounters rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (w *sessionWriter) RecordUnmatched(ctx context.Context, sessionID uuid.UUID, unmatched []domain.UnmatchedSpeaker) error {
	for _, u := range unmatched {
		if _, err := w.tx.ExecContext(ctx,
			`INSERT INTO unmatched_speakers (id, session_id, speaker_key, raw_name, raw_constituency, line_number)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), sessionID, u.Key, u.RawName, u.RawConstituency, u.LineNumber); err != nil {
			return fmt.Errorf("sessionWriter.RecordUnmatched: %w", err)
		}
	}
	return nil
}

func (w *sessionWriter) RecordReconciliations(ctx context.Context, sessionID uuid.UUID, events []domain.ReconciliationEvent) error {
	for i := range events {
		ev := &events[i]
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if _, err := w.tx.ExecContext(ctx,
			`INSERT INTO reconciliation_events (
				id, session_id, kind, captured_id, resolved_id, name, outcome, flagged, counter_skipped
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			ev.ID, sessionID, ev.Kind, ev.CapturedID, ev.ResolvedID, ev.Name,
			ev.Outcome, ev.Flagged, ev.CounterSkipped); err != nil {
			return fmt.Errorf("sessionWriter.RecordReconciliations: %w", err)
		}
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/port"
	"hansard/internal/registry"
	"hansard/internal/resolver"
)

// PersistResult describes what Persist did with one parsed session.
type PersistResult struct {
	SessionID  uuid.UUID
	Skipped    bool
	Reconciled int
	Fallbacks  int
	Events     []domain.ReconciliationEvent
}

// Persister stores parsed sessions.
type Persister interface {
	Persist(ctx context.Context, ps *domain.ParsedSession) (*PersistResult, error)
}

// ReconcilingPersister stores a parsed session after rewriting every member
// id it references onto the registry as it is at write time.
type ReconcilingPersister struct {
	store  port.SessionStore
	loader *registry.Loader
	opts   []resolver.Option
}

var _ Persister = (*ReconcilingPersister)(nil)

// NewReconcilingPersister creates a ReconcilingPersister. opts configure the
// resolver used for re-resolution and should match the parse-time resolver.
func NewReconcilingPersister(store port.SessionStore, loader *registry.Loader, opts ...resolver.Option) *ReconcilingPersister {
	return &ReconcilingPersister{store: store, loader: loader, opts: opts}
}

// SessionLockKey identifies a session for write serialization.
func SessionLockKey(md domain.SessionMetadata) string {
	return md.SessionNumber + "|" + md.SessionDate.Format("2006-01-02")
}

// Persist stores ps unless a session with the same number and date exists,
// in which case it returns a skipped result and changes nothing.
//
// The session insert, its speaker and attendance rows and every member
// counter increment commit together or not at all.
func (p *ReconcilingPersister) Persist(ctx context.Context, ps *domain.ParsedSession) (*PersistResult, error) {
	md := ps.Metadata
	exists, err := p.store.Exists(ctx, md.SessionNumber, md.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("reconcilingPersister.Persist: checking %s: %w", md.SessionNumber, err)
	}
	if exists {
		slog.Info("persister: session already stored, skipping", "session", md.SessionNumber, "source", ps.SourceName)
		return &PersistResult{Skipped: true}, nil
	}

	current, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcilingPersister.Persist: loading current registry: %w", err)
	}
	rs := reconcileSession(ps, NewReconciler(current, p.opts...))

	res := &PersistResult{}
	err = p.store.WithinSessionTx(ctx, SessionLockKey(md), func(ctx context.Context, w port.SessionWriter) error {
		exists, err := w.Exists(ctx, md.SessionNumber, md.SessionDate)
		if err != nil {
			return fmt.Errorf("re-checking session: %w", err)
		}
		if exists {
			res.Skipped = true
			return nil
		}

		id, err := w.CreateSession(ctx, rs.session)
		if errors.Is(err, domain.ErrDuplicateSession) {
			res.Skipped = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}

		for _, s := range rs.session.Speakers {
			n := rs.session.InstanceCount(s.MemberID)
			err := w.UpdateMemberCounters(ctx, s.MemberID, 1, n)
			if err == nil {
				continue
			}
			if _, fallback := rs.fallbackIDs[s.MemberID]; fallback && errors.Is(err, domain.ErrMemberNotFound) {
				rs.markCounterSkipped(s.MemberID)
				slog.Warn("persister: counter update skipped for unknown member",
					"member_id", s.MemberID, "name", s.Name, "session", md.SessionNumber)
				continue
			}
			return fmt.Errorf("updating counters for %s: %w", s.MemberID, err)
		}

		if len(rs.session.Unmatched) > 0 {
			if err := w.RecordUnmatched(ctx, id, rs.session.Unmatched); err != nil {
				return fmt.Errorf("recording unmatched speakers: %w", err)
			}
		}
		if len(rs.events) > 0 {
			for i := range rs.events {
				rs.events[i].SessionID = id
			}
			if err := w.RecordReconciliations(ctx, id, rs.events); err != nil {
				return fmt.Errorf("recording reconciliations: %w", err)
			}
		}
		res.SessionID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reconcilingPersister.Persist: %s: %w", md.SessionNumber, err)
	}
	if res.Skipped {
		slog.Info("persister: session stored concurrently, skipping", "session", md.SessionNumber, "source", ps.SourceName)
		return &PersistResult{Skipped: true}, nil
	}

	res.Events = rs.events
	res.Reconciled = rs.count(domain.ReconcileCorrected)
	res.Fallbacks = rs.count(domain.ReconcileFallback)
	for _, ev := range rs.events {
		switch ev.Outcome {
		case domain.ReconcileCorrected:
			slog.Info("persister: member id corrected",
				"kind", ev.Kind, "name", ev.Name, "captured_id", ev.CapturedID, "resolved_id", ev.ResolvedID,
				"session", md.SessionNumber)
		case domain.ReconcileFallback:
			slog.Warn("persister: reference has no current match",
				"kind", ev.Kind, "name", ev.Name, "captured_id", ev.CapturedID,
				"counter_skipped", ev.CounterSkipped, "session", md.SessionNumber)
		}
	}
	return res, nil
}

func (rs *reconciledSession) markCounterSkipped(id uuid.UUID) {
	for i := range rs.events {
		if rs.events[i].Kind == domain.ReferenceSpeaker && rs.events[i].ResolvedID == id {
			rs.events[i].CounterSkipped = true
		}
	}
}

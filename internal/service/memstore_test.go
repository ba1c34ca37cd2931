package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"hansard/internal/domain"
	"hansard/internal/port"
	"hansard/internal/service"
)

// memStore is an in-memory port.SessionStore. Writes made inside
// WithinSessionTx are buffered and applied only when the callback succeeds.
type memStore struct {
	mu        sync.Mutex
	known     map[uuid.UUID]bool
	sessions  map[string]*domain.ParsedSession
	counters  map[uuid.UUID][2]int
	unmatched map[uuid.UUID][]domain.UnmatchedSpeaker
	events    map[uuid.UUID][]domain.ReconciliationEvent
	failFor   uuid.UUID
	txCount   int
}

func newMemStore(members ...domain.Member) *memStore {
	s := &memStore{
		known:     make(map[uuid.UUID]bool),
		sessions:  make(map[string]*domain.ParsedSession),
		counters:  make(map[uuid.UUID][2]int),
		unmatched: make(map[uuid.UUID][]domain.UnmatchedSpeaker),
		events:    make(map[uuid.UUID][]domain.ReconciliationEvent),
	}
	for _, m := range members {
		s.known[m.ID] = true
	}
	return s
}

func sessionKey(number string, date time.Time) string {
	return service.SessionLockKey(domain.SessionMetadata{SessionNumber: number, SessionDate: date})
}

func (s *memStore) Exists(_ context.Context, number string, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionKey(number, date)]
	return ok, nil
}

func (s *memStore) WithinSessionTx(ctx context.Context, _ string, fn func(ctx context.Context, w port.SessionWriter) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memTx{store: s, deltas: make(map[uuid.UUID][2]int)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if tx.session != nil {
		s.sessions[tx.key] = tx.session
	}
	for id, d := range tx.deltas {
		c := s.counters[id]
		s.counters[id] = [2]int{c[0] + d[0], c[1] + d[1]}
	}
	if tx.unmatched != nil {
		s.unmatched[tx.id] = tx.unmatched
	}
	if tx.events != nil {
		s.events[tx.id] = tx.events
	}
	return nil
}

func (s *memStore) counter(id uuid.UUID) [2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[id]
}

func (s *memStore) stored(number string, date time.Time) *domain.ParsedSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionKey(number, date)]
}

type memTx struct {
	store     *memStore
	key       string
	id        uuid.UUID
	session   *domain.ParsedSession
	deltas    map[uuid.UUID][2]int
	unmatched []domain.UnmatchedSpeaker
	events    []domain.ReconciliationEvent
}

func (t *memTx) Exists(_ context.Context, number string, date time.Time) (bool, error) {
	_, ok := t.store.sessions[sessionKey(number, date)]
	return ok, nil
}

func (t *memTx) CreateSession(_ context.Context, ps *domain.ParsedSession) (uuid.UUID, error) {
	t.key = sessionKey(ps.Metadata.SessionNumber, ps.Metadata.SessionDate)
	if _, ok := t.store.sessions[t.key]; ok {
		return uuid.Nil, domain.ErrDuplicateSession
	}
	t.id = uuid.New()
	t.session = ps
	return t.id, nil
}

func (t *memTx) UpdateMemberCounters(_ context.Context, id uuid.UUID, sessions, instances int) error {
	if id == t.store.failFor {
		return errors.New("connection reset")
	}
	if !t.store.known[id] {
		return domain.ErrMemberNotFound
	}
	d := t.deltas[id]
	t.deltas[id] = [2]int{d[0] + sessions, d[1] + instances}
	return nil
}

func (t *memTx) RecordUnmatched(_ context.Context, _ uuid.UUID, u []domain.UnmatchedSpeaker) error {
	t.unmatched = u
	return nil
}

func (t *memTx) RecordReconciliations(_ context.Context, _ uuid.UUID, ev []domain.ReconciliationEvent) error {
	t.events = ev
	return nil
}

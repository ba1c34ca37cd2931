package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
	"hansard/internal/port"
)

// MockSessionStore is a mock implementation of port.SessionStore.
// WithinSessionTx invokes the callback with the port.SessionWriter given as
// the first return value, when there is one.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error) {
	args := m.Called(ctx, sessionNumber, sessionDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) WithinSessionTx(ctx context.Context, lockKey string, fn func(ctx context.Context, w port.SessionWriter) error) error {
	args := m.Called(ctx, lockKey, fn)
	if w, ok := args.Get(0).(port.SessionWriter); ok {
		if err := fn(ctx, w); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// MockSessionWriter is a mock implementation of port.SessionWriter.
type MockSessionWriter struct {
	mock.Mock
}

func (m *MockSessionWriter) Exists(ctx context.Context, sessionNumber string, sessionDate time.Time) (bool, error) {
	args := m.Called(ctx, sessionNumber, sessionDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionWriter) CreateSession(ctx context.Context, session *domain.ParsedSession) (uuid.UUID, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionWriter) UpdateMemberCounters(ctx context.Context, memberID uuid.UUID, sessionsDelta, instancesDelta int) error {
	args := m.Called(ctx, memberID, sessionsDelta, instancesDelta)
	return args.Error(0)
}

func (m *MockSessionWriter) RecordUnmatched(ctx context.Context, sessionID uuid.UUID, unmatched []domain.UnmatchedSpeaker) error {
	args := m.Called(ctx, sessionID, unmatched)
	return args.Error(0)
}

func (m *MockSessionWriter) RecordReconciliations(ctx context.Context, sessionID uuid.UUID, events []domain.ReconciliationEvent) error {
	args := m.Called(ctx, sessionID, events)
	return args.Error(0)
}

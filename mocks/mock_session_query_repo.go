package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
)

// MockSessionQueryRepo is a mock implementation of port.SessionQueryRepository.
type MockSessionQueryRepo struct {
	mock.Mock
}

func (m *MockSessionQueryRepo) List(ctx context.Context, offset, limit int) ([]domain.Session, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Session), args.Int(1), args.Error(2)
}

func (m *MockSessionQueryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionQueryRepo) ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpeakerRecord), args.Error(1)
}

func (m *MockSessionQueryRepo) ListInstances(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakingInstance, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpeakingInstance), args.Error(1)
}

func (m *MockSessionQueryRepo) ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredUnmatchedSpeaker), args.Int(1), args.Error(2)
}

func (m *MockSessionQueryRepo) ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error) {
	args := m.Called(ctx, flaggedOnly, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReconciliationEvent), args.Int(1), args.Error(2)
}

func (m *MockSessionQueryRepo) ListAttendance(ctx context.Context, sessionID uuid.UUID) ([]domain.AttendanceRef, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceRef), args.Error(1)
}

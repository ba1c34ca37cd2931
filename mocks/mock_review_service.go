package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
	"hansard/internal/service"
)

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListSessions(ctx context.Context, offset, limit int) ([]domain.Session, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Session), args.Int(1), args.Error(2)
}

func (m *MockReviewService) GetSession(ctx context.Context, id uuid.UUID) (*service.SessionDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionDetail), args.Error(1)
}

func (m *MockReviewService) ListSpeakers(ctx context.Context, sessionID uuid.UUID) ([]domain.SpeakerRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpeakerRecord), args.Error(1)
}

func (m *MockReviewService) ListMembers(ctx context.Context, offset, limit int) ([]domain.Member, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Member), args.Int(1), args.Error(2)
}

func (m *MockReviewService) GetMember(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockReviewService) ListUnmatched(ctx context.Context, offset, limit int) ([]domain.StoredUnmatchedSpeaker, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.StoredUnmatchedSpeaker), args.Int(1), args.Error(2)
}

func (m *MockReviewService) ListReconciliations(ctx context.Context, flaggedOnly bool, offset, limit int) ([]domain.ReconciliationEvent, int, error) {
	args := m.Called(ctx, flaggedOnly, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReconciliationEvent), args.Int(1), args.Error(2)
}

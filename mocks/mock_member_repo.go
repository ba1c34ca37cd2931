package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
)

// MockMemberRepo is a mock implementation of port.MemberRepository.
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) LoadAll(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepo) List(ctx context.Context, offset, limit int) ([]domain.Member, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Member), args.Int(1), args.Error(2)
}

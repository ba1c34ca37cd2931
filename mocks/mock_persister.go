package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
	"hansard/internal/service"
)

// MockPersister is a mock implementation of service.Persister.
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Persist(ctx context.Context, ps *domain.ParsedSession) (*service.PersistResult, error) {
	args := m.Called(ctx, ps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PersistResult), args.Error(1)
}

// MockBatchIngester is a mock implementation of service.BatchIngester.
type MockBatchIngester struct {
	mock.Mock
}

func (m *MockBatchIngester) Run(ctx context.Context) (domain.BatchReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BatchReport), args.Error(1)
}

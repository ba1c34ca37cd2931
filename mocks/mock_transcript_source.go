package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hansard/internal/port"
)

// MockTranscriptSource is a mock implementation of port.TranscriptSource.
type MockTranscriptSource struct {
	mock.Mock
}

func (m *MockTranscriptSource) List(ctx context.Context) ([]port.TranscriptRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.TranscriptRef), args.Error(1)
}

func (m *MockTranscriptSource) Fetch(ctx context.Context, ref port.TranscriptRef) ([]byte, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

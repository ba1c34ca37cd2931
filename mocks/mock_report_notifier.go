package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hansard/internal/domain"
)

// MockReportNotifier is a mock implementation of port.ReportNotifier.
type MockReportNotifier struct {
	mock.Mock
}

func (m *MockReportNotifier) SendBatchReport(ctx context.Context, report *domain.BatchReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

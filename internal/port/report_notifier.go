package port

import (
	"context"

	"hansard/internal/domain"
)

// ReportNotifier delivers a finished batch report to the operator.
type ReportNotifier interface {
	SendBatchReport(ctx context.Context, report *domain.BatchReport) error
}

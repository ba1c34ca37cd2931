package noop

import (
	"context"
	"log/slog"

	"hansard/internal/domain"
	"hansard/internal/port"
)

type noopNotifier struct {
	logger *slog.Logger
}

// NewNoopNotifier creates a ReportNotifier that logs the batch summary instead of sending it.
func NewNoopNotifier(logger *slog.Logger) port.ReportNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &noopNotifier{logger: logger}
}

func (n *noopNotifier) SendBatchReport(ctx context.Context, report *domain.BatchReport) error {
	n.logger.InfoContext(ctx, "batch report",
		"total", report.Total,
		"persisted", report.Persisted,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"unmatched_speakers", report.UnmatchedSpeakers,
		"reconciled_ids", report.ReconciledIDs,
		"fallback_ids", report.FallbackIDs,
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)
	for i := range report.Documents {
		d := &report.Documents[i]
		if d.Status != domain.DocumentStatusFailed {
			continue
		}
		n.logger.WarnContext(ctx, "batch report: failed document", "source", d.Source, "error", d.Error)
	}
	return nil
}

package noop_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/notify/noop"
)

func TestNoopNotifier_LogsSummaryAndFailures(t *testing.T) {
	var buf bytes.Buffer
	n := noop.NewNoopNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	start := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	report := &domain.BatchReport{StartedAt: start, FinishedAt: start.Add(time.Minute)}
	report.Add(domain.DocumentResult{Source: "a.pdf", Status: domain.DocumentStatusPersisted, Unmatched: 2})
	report.Add(domain.DocumentResult{Source: "b.pdf", Status: domain.DocumentStatusFailed, Error: "no text layer"})

	require.NoError(t, n.SendBatchReport(context.Background(), report))

	out := buf.String()
	assert.Contains(t, out, `"total":2`)
	assert.Contains(t, out, `"unmatched_speakers":2`)
	assert.Contains(t, out, `"source":"b.pdf"`)
	assert.NotContains(t, out, `"source":"a.pdf"`)
}

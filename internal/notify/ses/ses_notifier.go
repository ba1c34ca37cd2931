package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"hansard/internal/domain"
	"hansard/internal/port"
)

// API is the subset of the SES v2 client the notifier uses.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client      API
	fromAddress string
	fromName    string
	recipients  []string
}

// NewSESNotifier creates an SES-backed ReportNotifier using the default AWS credential chain.
func NewSESNotifier(ctx context.Context, region, fromAddress, fromName string, recipients []string) (port.ReportNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewNotifier(sesv2.NewFromConfig(cfg), fromAddress, fromName, recipients), nil
}

// NewNotifier wraps an existing SES client.
func NewNotifier(client API, fromAddress, fromName string, recipients []string) port.ReportNotifier {
	return &sesNotifier{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		recipients:  recipients,
	}
}

func (s *sesNotifier) SendBatchReport(ctx context.Context, report *domain.BatchReport) error {
	if len(s.recipients) == 0 {
		return nil
	}

	subject := buildSubject(report)
	htmlBody := buildReportHTML(report)
	textBody := buildReportText(report)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: s.recipients,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSubject(r *domain.BatchReport) string {
	if r.Failed > 0 {
		return fmt.Sprintf("Hansard ingest: %d persisted, %d failed", r.Persisted, r.Failed)
	}
	return fmt.Sprintf("Hansard ingest: %d persisted", r.Persisted)
}

func buildReportText(r *domain.BatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Batch started %s, finished %s.\n\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"), r.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Documents: %d (persisted %d, skipped %d, failed %d)\n", r.Total, r.Persisted, r.Skipped, r.Failed)
	fmt.Fprintf(&b, "Unmatched speakers: %d\n", r.UnmatchedSpeakers)
	fmt.Fprintf(&b, "Member ids corrected: %d, kept after failed lookup: %d\n", r.ReconciledIDs, r.FallbackIDs)
	for i := range r.Documents {
		d := &r.Documents[i]
		if d.Status != domain.DocumentStatusFailed {
			continue
		}
		fmt.Fprintf(&b, "\nFAILED %s: %s", d.Source, d.Error)
	}
	return b.String()
}

func buildReportHTML(r *domain.BatchReport) string {
	var rows strings.Builder
	for i := range r.Documents {
		d := &r.Documents[i]
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>`,
			html.EscapeString(d.Source), d.Status, html.EscapeString(d.SessionNumber), d.Speakers, d.Unmatched, html.EscapeString(d.Error))
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Hansard ingest report</h2>
  <p>%d documents: %d persisted, %d skipped, %d failed.</p>
  <p>Unmatched speakers: %d. Member ids corrected: %d. Kept after failed lookup: %d.</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr><th>Source</th><th>Status</th><th>Session</th><th>Speakers</th><th>Unmatched</th><th>Error</th></tr>
    %s
  </table>
</body>
</html>`, r.Total, r.Persisted, r.Skipped, r.Failed, r.UnmatchedSpeakers, r.ReconciledIDs, r.FallbackIDs, rows.String())
}

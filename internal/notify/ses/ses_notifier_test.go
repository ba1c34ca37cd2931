package ses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/notify/ses"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	return &sesv2.SendEmailOutput{}, f.err
}

func report() *domain.BatchReport {
	r := &domain.BatchReport{}
	r.Add(domain.DocumentResult{Source: "DR-12032024.pdf", Status: domain.DocumentStatusPersisted, SessionNumber: "DR-12032024"})
	r.Add(domain.DocumentResult{Source: "<bad>.pdf", Status: domain.DocumentStatusFailed, Error: "no text layer"})
	return r
}

func TestSESNotifier_SendBatchReport(t *testing.T) {
	client := &fakeSES{}
	n := ses.NewNotifier(client, "ingest@example.org", "Hansard", []string{"ops@example.org", "clerk@example.org"})

	require.NoError(t, n.SendBatchReport(context.Background(), report()))

	require.NotNil(t, client.input)
	assert.Equal(t, "Hansard <ingest@example.org>", *client.input.FromEmailAddress)
	assert.Equal(t, []string{"ops@example.org", "clerk@example.org"}, client.input.Destination.ToAddresses)
	msg := client.input.Content.Simple
	assert.Equal(t, "Hansard ingest: 1 persisted, 1 failed", *msg.Subject.Data)
	assert.Contains(t, *msg.Body.Text.Data, "FAILED <bad>.pdf: no text layer")
	assert.Contains(t, *msg.Body.Html.Data, "&lt;bad&gt;.pdf")
}

func TestSESNotifier_NoRecipientsIsNoOp(t *testing.T) {
	client := &fakeSES{}
	n := ses.NewNotifier(client, "ingest@example.org", "Hansard", nil)

	require.NoError(t, n.SendBatchReport(context.Background(), report()))
	assert.Nil(t, client.input)
}

func TestSESNotifier_ErrorIsWrapped(t *testing.T) {
	sendErr := errors.New("throttled")
	n := ses.NewNotifier(&fakeSES{err: sendErr}, "a@example.org", "A", []string{"b@example.org"})

	err := n.SendBatchReport(context.Background(), report())
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
}

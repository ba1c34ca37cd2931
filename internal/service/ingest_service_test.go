package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hansard/internal/domain"
	"hansard/internal/hansard"
	"hansard/internal/port"
	"hansard/internal/registry"
	"hansard/internal/service"
	"hansard/mocks"
)

const transcript = `DEWAN RAKYAT
Bil. 12
Selasa, 12 Mac 2024

Minister John Tan: Good morning.
(Sungai Petani): Soalan tambahan.
`

type ingestFixture struct {
	source    *mocks.MockTranscriptSource
	extractor *mocks.MockTextExtractor
	members   *mocks.MockMemberRepo
	persister *mocks.MockPersister
	notifier  *mocks.MockReportNotifier
	svc       *service.IngestService
}

func newIngestFixture(concurrency int) *ingestFixture {
	f := &ingestFixture{
		source:    new(mocks.MockTranscriptSource),
		extractor: new(mocks.MockTextExtractor),
		members:   new(mocks.MockMemberRepo),
		persister: new(mocks.MockPersister),
		notifier:  new(mocks.MockReportNotifier),
	}
	fixed := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	f.svc = service.NewIngestService(service.IngestDeps{
		Source:    f.source,
		Extractor: f.extractor,
		Loader:    registry.NewLoader(f.members, func() time.Time { return fixed }),
		Parser:    hansard.NewParser(hansard.ParserConfig{}),
		Persister: f.persister,
		Notifier:  f.notifier,
		Now:       func() time.Time { return fixed },
	}, service.IngestConfig{Concurrency: concurrency})
	return f
}

func ref(name string) port.TranscriptRef {
	return port.TranscriptRef{Name: name, Location: "s3://hansard/" + name}
}

var registryMembers = []domain.Member{
	{ID: uuid.New(), Name: "John Tan", Constituency: "Kota Bharu"},
	{ID: uuid.New(), Name: "Siti Aminah", Constituency: "Sungai Petani"},
}

func TestIngestBatch_ReportsEachDocument(t *testing.T) {
	f := newIngestFixture(2)
	refs := []port.TranscriptRef{ref("a.pdf"), ref("b.pdf"), ref("c.pdf")}
	sid := uuid.New()

	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil).Once()
	for _, r := range refs {
		f.source.On("Fetch", mock.Anything, r).Return([]byte(r.Name), nil)
	}
	f.extractor.On("Extract", mock.Anything, "a.pdf", mock.Anything).Return(transcript, nil)
	f.extractor.On("Extract", mock.Anything, "b.pdf", mock.Anything).Return(transcript, nil)
	f.extractor.On("Extract", mock.Anything, "c.pdf", mock.Anything).
		Return("", errors.New("no text layer"))
	f.persister.On("Persist", mock.Anything, mock.MatchedBy(func(ps *domain.ParsedSession) bool {
		return ps.SourceName == "a.pdf"
	})).Return(&service.PersistResult{SessionID: sid, Reconciled: 1}, nil)
	f.persister.On("Persist", mock.Anything, mock.MatchedBy(func(ps *domain.ParsedSession) bool {
		return ps.SourceName == "b.pdf"
	})).Return(&service.PersistResult{Skipped: true}, nil)
	f.notifier.On("SendBatchReport", mock.Anything, mock.AnythingOfType("*domain.BatchReport")).Return(nil)

	report := f.svc.IngestBatch(context.Background(), refs)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Persisted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.ReconciledIDs)
	require.Len(t, report.Documents, 3)

	// Results keep input order regardless of completion order.
	a, b, c := report.Documents[0], report.Documents[1], report.Documents[2]
	assert.Equal(t, "a.pdf", a.Source)
	assert.Equal(t, domain.DocumentStatusPersisted, a.Status)
	require.NotNil(t, a.SessionID)
	assert.Equal(t, sid, *a.SessionID)
	assert.Equal(t, "BIL-12", a.SessionNumber)
	assert.Equal(t, 2, a.Speakers)
	assert.Equal(t, domain.DocumentStatusSkipped, b.Status)
	assert.Nil(t, b.SessionID)
	assert.Equal(t, domain.DocumentStatusFailed, c.Status)
	assert.Contains(t, c.Error, "no text layer")

	f.members.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestIngestBatch_ParsesWithSnapshotIDs(t *testing.T) {
	f := newIngestFixture(1)
	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil)
	f.source.On("Fetch", mock.Anything, mock.Anything).Return([]byte("x"), nil)
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return(transcript, nil)
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(nil)

	var got *domain.ParsedSession
	f.persister.On("Persist", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*domain.ParsedSession) }).
		Return(&service.PersistResult{SessionID: uuid.New()}, nil)

	f.svc.IngestBatch(context.Background(), []port.TranscriptRef{ref("DR-12032024.pdf")})

	require.NotNil(t, got)
	require.Len(t, got.Speakers, 2)
	assert.Equal(t, registryMembers[0].ID, got.Speakers[0].MemberID)
	assert.Equal(t, registryMembers[1].ID, got.Speakers[1].MemberID)
	assert.Equal(t, "DR-12032024", got.Metadata.SessionNumber)
}

func TestIngestBatch_ExtractionErrorIsTyped(t *testing.T) {
	f := newIngestFixture(1)
	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil)
	f.source.On("Fetch", mock.Anything, mock.Anything).Return([]byte("x"), nil)
	f.extractor.On("Extract", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bad xref"))
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(nil)

	report := f.svc.IngestBatch(context.Background(), []port.TranscriptRef{ref("broken.pdf")})

	require.Len(t, report.Documents, 1)
	assert.Contains(t, report.Documents[0].Error, domain.ErrExtractionFailed.Error())
	f.persister.AssertNotCalled(t, "Persist", mock.Anything, mock.Anything)
}

func TestIngestBatch_PanicIsContained(t *testing.T) {
	f := newIngestFixture(2)
	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil)
	f.source.On("Fetch", mock.Anything, ref("boom.pdf")).
		Run(func(mock.Arguments) { panic("nil map write") }).
		Return(nil, nil)
	f.source.On("Fetch", mock.Anything, ref("ok.pdf")).Return([]byte("x"), nil)
	f.extractor.On("Extract", mock.Anything, "ok.pdf", mock.Anything).Return(transcript, nil)
	f.persister.On("Persist", mock.Anything, mock.Anything).Return(&service.PersistResult{SessionID: uuid.New()}, nil)
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(nil)

	report := f.svc.IngestBatch(context.Background(), []port.TranscriptRef{ref("boom.pdf"), ref("ok.pdf")})

	require.Len(t, report.Documents, 2)
	assert.Equal(t, domain.DocumentStatusFailed, report.Documents[0].Status)
	assert.Contains(t, report.Documents[0].Error, "nil map write")
	assert.Equal(t, domain.DocumentStatusPersisted, report.Documents[1].Status)
}

func TestIngestBatch_RegistryUnavailableFailsAll(t *testing.T) {
	f := newIngestFixture(1)
	f.members.On("LoadAll", mock.Anything).Return(nil, errors.New("db down"))
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(nil)

	report := f.svc.IngestBatch(context.Background(), []port.TranscriptRef{ref("a.pdf"), ref("b.pdf")})

	assert.Equal(t, 2, report.Failed)
	for _, d := range report.Documents {
		assert.Contains(t, d.Error, "db down")
	}
	f.source.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestIngestBatch_NotifierErrorIsNotFatal(t *testing.T) {
	f := newIngestFixture(1)
	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil)
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(errors.New("smtp"))

	report := f.svc.IngestBatch(context.Background(), nil)

	assert.Zero(t, report.Total)
	f.notifier.AssertExpectations(t)
}

func TestIngestRun_ListError(t *testing.T) {
	f := newIngestFixture(1)
	f.source.On("List", mock.Anything).Return(nil, domain.ErrSourceUnavailable)

	_, err := f.svc.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	f.members.AssertNotCalled(t, "LoadAll", mock.Anything)
}

func TestIngestRun_CancelledContextFailsDocuments(t *testing.T) {
	f := newIngestFixture(1)
	f.members.On("LoadAll", mock.Anything).Return(registryMembers, nil)
	f.source.On("List", mock.Anything).Return([]port.TranscriptRef{ref("a.pdf")}, nil)
	f.notifier.On("SendBatchReport", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := f.svc.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	f.source.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

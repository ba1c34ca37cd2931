package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hansard/internal/domain"
	"hansard/internal/hansard"
	"hansard/internal/observe"
	"hansard/internal/port"
	"hansard/internal/registry"
	"hansard/internal/resolver"
)

// IngestConfig holds batch settings.
type IngestConfig struct {
	Concurrency     int
	DocumentTimeout time.Duration
}

// IngestService takes transcripts from a source through extraction, parsing
// and persistence.
type IngestService struct {
	source    port.TranscriptSource
	extractor port.TextExtractor
	loader    *registry.Loader
	parser    *hansard.Parser
	persister Persister
	notifier  port.ReportNotifier
	metrics   *observe.Metrics
	cfg       IngestConfig
	opts      []resolver.Option
	now       func() time.Time
}

// IngestDeps groups the collaborators of an IngestService.
type IngestDeps struct {
	Source    port.TranscriptSource
	Extractor port.TextExtractor
	Loader    *registry.Loader
	Parser    *hansard.Parser
	Persister Persister
	Notifier  port.ReportNotifier
	Metrics   *observe.Metrics
	// ResolverOptions configure the parse-time resolver.
	ResolverOptions []resolver.Option
	Now             func() time.Time
}

// NewIngestService creates an IngestService. Notifier and Metrics are optional.
func NewIngestService(deps IngestDeps, cfg IngestConfig) *IngestService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &IngestService{
		source:    deps.Source,
		extractor: deps.Extractor,
		loader:    deps.Loader,
		parser:    deps.Parser,
		persister: deps.Persister,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		cfg:       cfg,
		opts:      deps.ResolverOptions,
		now:       deps.Now,
	}
}

// Run lists the source and ingests everything in it.
func (s *IngestService) Run(ctx context.Context) (domain.BatchReport, error) {
	refs, err := s.source.List(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("ingestService.Run: listing source: %w", err)
	}
	return s.IngestBatch(ctx, refs), nil
}

// IngestBatch processes refs and reports the outcome of each. The parse-time
// registry snapshot is read once and shared by all documents. No single
// document can abort the batch.
func (s *IngestService) IngestBatch(ctx context.Context, refs []port.TranscriptRef) domain.BatchReport {
	report := domain.BatchReport{StartedAt: s.now().UTC()}
	results := make([]domain.DocumentResult, len(refs))

	snap, err := s.loader.Load(ctx)
	if err != nil {
		slog.Error("ingest: cannot load member registry", "error", err)
		for i, ref := range refs {
			results[i] = failed(ref, fmt.Errorf("loading registry: %w", err), 0)
		}
	} else {
		cascade := resolver.New(snap, s.opts...)
		slog.Info("ingest: batch started", "documents", len(refs), "members", snap.Len(),
			"registry_taken_at", snap.TakenAt(), "concurrency", s.cfg.Concurrency)

		NewBatchRunner(s.cfg.Concurrency).Run(ctx, len(refs),
			func(ctx context.Context, i int) {
				results[i] = s.processDocument(ctx, refs[i], cascade)
			},
			func(i int, err error) {
				results[i] = failed(refs[i], err, 0)
			},
		)
	}

	for _, res := range results {
		report.Add(res)
		if s.metrics != nil {
			s.metrics.RecordDocument(ctx, res)
		}
	}
	report.FinishedAt = s.now().UTC()

	slog.Info("ingest: batch finished",
		"total", report.Total, "persisted", report.Persisted, "skipped", report.Skipped, "failed", report.Failed,
		"unmatched_speakers", report.UnmatchedSpeakers, "reconciled_ids", report.ReconciledIDs,
		"fallback_ids", report.FallbackIDs)

	if s.notifier != nil {
		if err := s.notifier.SendBatchReport(ctx, &report); err != nil {
			slog.Error("ingest: sending batch report failed", "error", err)
		}
	}
	return report
}

func (s *IngestService) processDocument(ctx context.Context, ref port.TranscriptRef, cascade *resolver.Cascade) domain.DocumentResult {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "ingest.document",
		trace.WithAttributes(attribute.String("source", ref.Name)))
	defer span.End()

	if s.cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DocumentTimeout)
		defer cancel()
	}
	log := observe.Logger(ctx).With("source", ref.Name)

	fail := func(err error) domain.DocumentResult {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("ingest: document failed", "error", err)
		return failed(ref, err, time.Since(start))
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	data, err := s.source.Fetch(ctx, ref)
	if err != nil {
		return fail(fmt.Errorf("fetching: %w", err))
	}
	text, err := s.extractor.Extract(ctx, ref.Name, data)
	if err != nil {
		if !errors.Is(err, domain.ErrExtractionFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
		}
		return fail(err)
	}
	ps, err := s.parser.Parse(ctx, ref.Name, text, cascade)
	if err != nil {
		return fail(fmt.Errorf("parsing: %w", err))
	}
	for _, u := range ps.Unmatched {
		log.Warn("ingest: unmatched speaker", "key", u.Key, "line", u.LineNumber,
			"session", ps.Metadata.SessionNumber)
	}

	pr, err := s.persister.Persist(ctx, ps)
	if err != nil {
		return fail(fmt.Errorf("persisting: %w", err))
	}

	res := domain.DocumentResult{
		Source:        ref.Name,
		SessionNumber: ps.Metadata.SessionNumber,
		Speakers:      len(ps.Speakers),
		Instances:     len(ps.Instances),
		Unmatched:     len(ps.Unmatched),
		Duration:      time.Since(start),
	}
	if pr.Skipped {
		res.Status = domain.DocumentStatusSkipped
		log.Info("ingest: document skipped, session exists", "session", res.SessionNumber)
		return res
	}
	id := pr.SessionID
	res.Status = domain.DocumentStatusPersisted
	res.SessionID = &id
	res.Reconciled = pr.Reconciled
	res.Fallbacks = pr.Fallbacks
	span.SetAttributes(attribute.String("session", res.SessionNumber))
	log.Info("ingest: document persisted", "session", res.SessionNumber, "session_id", id,
		"speakers", res.Speakers, "instances", res.Instances, "unmatched", res.Unmatched,
		"reconciled", res.Reconciled, "fallbacks", res.Fallbacks)
	return res
}

func failed(ref port.TranscriptRef, err error, d time.Duration) domain.DocumentResult {
	return domain.DocumentResult{
		Source:   ref.Name,
		Status:   domain.DocumentStatusFailed,
		Error:    err.Error(),
		Duration: d,
	}
}

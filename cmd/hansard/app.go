package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"

	"hansard/internal/config"
	"hansard/internal/domain"
	"hansard/internal/hansard"
	"hansard/internal/notify/noop"
	"hansard/internal/notify/ses"
	"hansard/internal/observe"
	"hansard/internal/port"
	"hansard/internal/registry"
	"hansard/internal/repository/postgres"
	"hansard/internal/resolver"
	"hansard/internal/service"
	"hansard/internal/storage/local"
	s3storage "hansard/internal/storage/s3"
	"hansard/internal/textract"
)

// app holds the process-wide collaborators shared by every subcommand.
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	metrics  *observe.Metrics
	shutdown func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	// A .env file in the working directory is optional; variables already set take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(observe.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format))

	pc := observe.ProviderConfig{ServiceName: cfg.Telemetry.ServiceName, ServiceVersion: version}
	if cfg.Telemetry.TraceStdout {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		pc.TraceExporter = exp
	}
	shutdown, err := observe.InitProvider(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{cfg: cfg, db: db, metrics: metrics, shutdown: shutdown}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.db.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
	if err := a.shutdown(ctx); err != nil {
		slog.Warn("telemetry shutdown", "error", err)
	}
}

func (a *app) resolverOptions() []resolver.Option {
	p := a.cfg.Pipeline
	fs := resolver.NewFuzzyStrategy(domain.FuzzyStrategyName(p.FuzzyStrategy), p.FuzzyMinLength, p.JaroWinklerThreshold)
	return []resolver.Option{resolver.WithFuzzyStrategy(fs)}
}

func (a *app) source(ctx context.Context) (port.TranscriptSource, error) {
	switch a.cfg.Source.Kind {
	case "s3":
		client, err := s3storage.NewS3Client(ctx, &a.cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return s3storage.NewSource(client, a.cfg.Source.Bucket, a.cfg.Source.Prefix), nil
	default:
		return local.NewSource(a.cfg.Source.Dir), nil
	}
}

func (a *app) notifier(ctx context.Context) (port.ReportNotifier, error) {
	r := a.cfg.Report
	if r.Provider != "ses" {
		return noop.NewNoopNotifier(slog.Default()), nil
	}
	n, err := ses.NewSESNotifier(ctx, r.Region, r.FromAddress, r.FromName, r.Recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES notifier: %w", err)
	}
	return n, nil
}

// ingestService wires the full pipeline: source, extraction, parsing and
// reconciling persistence against the live registry.
func (a *app) ingestService(ctx context.Context) (*service.IngestService, error) {
	src, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := a.notifier(ctx)
	if err != nil {
		return nil, err
	}

	opts := a.resolverOptions()
	loader := registry.NewLoader(postgres.NewMemberRepo(a.db), nil)
	store := postgres.NewSessionStore(a.db)
	p := a.cfg.Pipeline

	return service.NewIngestService(service.IngestDeps{
		Source:    src,
		Extractor: textract.NewByExtension(),
		Loader:    loader,
		Parser: hansard.NewParser(hansard.ParserConfig{
			WindowSize:    p.WindowSize,
			MaxTopics:     p.MaxTopics,
			ExcerptLength: p.ExcerptLength,
		}),
		Persister:       service.NewReconcilingPersister(store, loader, opts...),
		Notifier:        notifier,
		Metrics:         a.metrics,
		ResolverOptions: opts,
	}, service.IngestConfig{
		Concurrency:     a.cfg.Batch.Concurrency,
		DocumentTimeout: a.cfg.Batch.DocumentTimeout,
	}), nil
}

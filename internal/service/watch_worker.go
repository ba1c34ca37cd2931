package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hansard/internal/domain"
)

// BatchIngester is the part of IngestService the watch worker drives.
type BatchIngester interface {
	Run(ctx context.Context) (domain.BatchReport, error)
}

// WatchConfig holds settings for the watch worker.
type WatchConfig struct {
	PollInterval time.Duration
	BatchTimeout time.Duration
}

// WatchWorker re-ingests the transcript source on a fixed interval. Sessions
// already stored are skipped by the persister, so each pass only adds what
// is new.
type WatchWorker struct {
	ingest BatchIngester
	cfg    WatchConfig
	wg     sync.WaitGroup
	busy   chan struct{}
}

// NewWatchWorker creates a WatchWorker.
func NewWatchWorker(ingest BatchIngester, cfg WatchConfig) *WatchWorker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Minute
	}
	return &WatchWorker{ingest: ingest, cfg: cfg, busy: make(chan struct{}, 1)}
}

// Start runs the polling loop until ctx is canceled. It blocks until the
// in-flight pass, if any, has finished. Ticks that arrive while a pass is
// running are dropped.
func (w *WatchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("watchWorker: started", "poll", w.cfg.PollInterval)

	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case <-ticker.C:
			// select picks randomly among ready cases; a tick may win over Done.
			if ctx.Err() != nil {
				w.drain()
				return
			}
			select {
			case w.busy <- struct{}{}:
			default:
				continue
			}
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-w.busy }()

				// A fresh context lets the running batch finish during shutdown.
				runCtx := context.Background()
				if w.cfg.BatchTimeout > 0 {
					var cancel context.CancelFunc
					runCtx, cancel = context.WithTimeout(runCtx, w.cfg.BatchTimeout)
					defer cancel()
				}
				report, err := w.ingest.Run(runCtx)
				if err != nil {
					slog.Error("watchWorker: batch failed", "error", err)
					return
				}
				slog.Info("watchWorker: batch done", "total", report.Total,
					"persisted", report.Persisted, "failed", report.Failed)
			}()
		}
	}
}

func (w *WatchWorker) drain() {
	slog.Info("watchWorker: shutting down, waiting for in-flight batch")
	w.wg.Wait()
	slog.Info("watchWorker: shutdown complete")
}

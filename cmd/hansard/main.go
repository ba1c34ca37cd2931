// Command hansard ingests parliamentary transcripts and serves the review API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hansard/internal/handler"
	"hansard/internal/repository/postgres"
	"hansard/internal/router"
	"hansard/internal/service"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "hansard",
		Short: "Hansard transcript attribution pipeline",
		Long: `Hansard extracts session metadata, attendance, speakers and topics from
parliamentary transcripts and attributes every speaker to the member registry.

Configuration is read from HANSARD_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest every transcript in the configured source once",
		Long: `Ingest lists the transcript source, processes every document and prints
the batch report. Sessions already stored are skipped.

Example:
  hansard ingest
  hansard ingest --dir ./transcripts --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			asJSON, _ := cmd.Flags().GetBool("json")
			failOnError, _ := cmd.Flags().GetBool("fail-on-error")

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			if dir != "" {
				a.cfg.Source.Kind = "local"
				a.cfg.Source.Dir = dir
			}
			if a.cfg.Batch.BatchTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, a.cfg.Batch.BatchTimeout)
				defer cancel()
			}

			svc, err := a.ingestService(ctx)
			if err != nil {
				return err
			}
			report, err := svc.Run(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return fmt.Errorf("encoding report: %w", err)
				}
			} else {
				out := cmd.OutOrStdout()
				for _, d := range report.Documents {
					fmt.Fprintf(out, "%-9s %s", d.Status, d.Source)
					if d.Error != "" {
						fmt.Fprintf(out, ": %s", d.Error)
					}
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "\n%d documents: %d persisted, %d skipped, %d failed\n",
					report.Total, report.Persisted, report.Skipped, report.Failed)
				fmt.Fprintf(out, "unmatched speakers: %d, corrected ids: %d, fallback ids: %d\n",
					report.UnmatchedSpeakers, report.ReconciledIDs, report.FallbackIDs)
			}

			if failOnError && report.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", report.Failed, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Read transcripts from this local directory instead of the configured source")
	cmd.Flags().Bool("json", false, "Print the batch report as JSON")
	cmd.Flags().Bool("fail-on-error", false, "Exit non-zero when any document fails")
	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-ingest the transcript source on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			svc, err := a.ingestService(ctx)
			if err != nil {
				return err
			}
			service.NewWatchWorker(svc, service.WatchConfig{
				PollInterval: a.cfg.Batch.WatchInterval,
				BatchTimeout: a.cfg.Batch.BatchTimeout,
			}).Start(ctx)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only review API",
		RunE: func(cmd *cobra.Command, args []string) error {
			withWatch, _ := cmd.Flags().GetBool("watch")

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			var watcher *service.WatchWorker
			if withWatch {
				svc, err := a.ingestService(ctx)
				if err != nil {
					return err
				}
				watcher = service.NewWatchWorker(svc, service.WatchConfig{
					PollInterval: a.cfg.Batch.WatchInterval,
					BatchTimeout: a.cfg.Batch.BatchTimeout,
				})
			}

			reviewSvc := service.NewReviewService(postgres.NewSessionQueryRepo(a.db), postgres.NewMemberRepo(a.db))
			engine := router.Setup(router.Handlers{
				Health:  handler.NewHealthHandler(a.db),
				Session: handler.NewSessionHandler(reviewSvc),
				Member:  handler.NewMemberHandler(reviewSvc),
				Review:  handler.NewReviewHandler(reviewSvc),
				Metrics: promhttp.Handler(),
			}, a.metrics, a.cfg.Server.AllowedOrigins)

			srv := &http.Server{
				Addr:         a.cfg.Server.Port,
				Handler:      engine,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				slog.Info("server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			if watcher != nil {
				g.Go(func() error {
					watcher.Start(gctx)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().Bool("watch", false, "Also run the watch worker in this process")
	return cmd
}

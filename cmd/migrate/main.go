// Command migrate applies and reverts the schema under db/migrations.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hansard/internal/config"
	"hansard/internal/observe"
)

// migrator is the part of *migrate.Migrate the subcommands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
}

func main() {
	if err := rootCmd(open).Execute(); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

// open loads configuration, installs the logger and connects to the schema
// source and database.
func open(source string) (migrator, func(), error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to read .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(observe.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format))

	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	closeFn := func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			slog.Warn("closing migrate", "error", err)
		}
	}
	return m, closeFn, nil
}

type opener func(source string) (migrator, func(), error)

func rootCmd(openFn opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the hansard database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("source", "file://db/migrations", "Migration source URL")

	// with opens the migrator for one subcommand run.
	with := func(fn func(cmd *cobra.Command, args []string, m migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			m, closeFn, err := openFn(source)
			if err != nil {
				return err
			}
			defer closeFn()
			return fn(cmd, args, m)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: with(func(_ *cobra.Command, _ []string, m migrator) error {
			return apply("up", m.Up)
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert every migration",
		Args:  cobra.NoArgs,
		RunE: with(func(_ *cobra.Command, _ []string, m migrator) error {
			return apply("down", m.Down)
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations, or revert them when N is negative (migrate steps -- -1)",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(_ *cobra.Command, args []string, m migrator) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid steps argument %q: %w", args[0], err)
			}
			return apply("steps "+args[0], func() error { return m.Steps(n) })
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, _ []string, m migrator) error {
			return printVersion(cmd.OutOrStdout(), m)
		}),
	})
	return root
}

// apply runs one migration direction. An already current schema is not an error.
func apply(name string, fn func() error) error {
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("migrate: schema already current", "command", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", name, err)
	}
	slog.Info("migrate: done", "command", name)
	return nil
}

func printVersion(w io.Writer, m migrator) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		_, err = fmt.Fprintln(w, "version: none")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	if dirty {
		slog.Warn("migrate: schema is dirty, fix the failed migration and force a version", "version", v)
	}
	_, err = fmt.Fprintf(w, "version: %d, dirty: %v\n", v, dirty)
	return err
}

package postgres

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"hansard/internal/config"
)

// NewDB opens a pgx-backed pool sized from cfg and pings it once, bounded by
// cfg.ConnectTimeout when set. The pool is closed again if the ping fails.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to postgres at %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	slog.Debug("postgres: pool ready", "host", cfg.Host, "db", cfg.Name, "max_open", cfg.MaxOpen, "max_idle", cfg.MaxIdle)
	return db, nil
}

package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"teamtasks/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to PostgreSQL with the pool limits from cfg and verifies the
// connection.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := cfg.Database
	db.SetMaxOpenConns(d.MaxOpenConns)
	db.SetMaxIdleConns(d.MaxIdleConns)
	db.SetConnMaxIdleTime(d.ConnMaxIdleTime)
	db.SetConnMaxLifetime(d.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, d.AcquireTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("connected to PostgreSQL", "host", d.Host, "db", d.Name, "max_open_conns", d.MaxOpenConns)
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB, log *slog.Logger) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	log.Info("migrations applied", "version", version)
	return nil
}

// Close closes the pool and logs the outcome.
func Close(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("close database", "error", err)
		return
	}
	log.Info("database connection closed")
}

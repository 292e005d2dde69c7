package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"teamtasks/config"
	"teamtasks/internal/auth"
	"teamtasks/internal/handler"
	"teamtasks/internal/repository"
	"teamtasks/internal/service"
	"teamtasks/pkg/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run wires the server and blocks until a signal or a listener failure.
func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)
	if envErr != nil {
		logger.Info(".env file not found, using process environment")
	}
	if cfg.JWT.Secret == config.DefaultJWTSecret && !cfg.IsDevelopment() {
		logger.Warn("JWT_SECRET is the built-in default", "env", cfg.Server.Env)
	}

	var (
		users  service.UserStore
		tasks  service.TaskStore
		pinger handler.Pinger
	)
	switch cfg.Database.Store {
	case config.StoreMemory:
		mem := repository.NewMemoryStore()
		users, tasks = mem.Users(), mem.Tasks()
		logger.Warn("using in-memory store, data is lost on restart")
	default:
		db, err := database.Open(context.Background(), cfg, logger)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db, logger)

		if cfg.Database.Migrate {
			if err := database.Migrate(db, logger); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}
		users = repository.NewUserRepository(db, cfg.Database.AcquireTimeout)
		tasks = repository.NewTaskRepository(db, cfg.Database.AcquireTimeout)
		pinger = db
	}

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration)
	creds := service.NewCredentials(users, tokens, logger)
	taskSvc := service.NewTasks(tasks, users, logger)
	h := handler.NewHandler(creds, taskSvc, logger, pinger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h.Router(cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", server.Addr, "env", cfg.Server.Env, "store", cfg.Database.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case runErr = <-serverErr:
		runErr = fmt.Errorf("listen: %w", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown", "error", err)
	}
	return runErr
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"teamtasks/config"
)

func TestRunReturnsStartupErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad config",
			env:  map[string]string{"STORE": "redis"},
			want: "load config",
		},
		{
			name: "unreachable database",
			env: map[string]string{
				"STORE":              "postgres",
				"DB_HOST":            "127.0.0.1",
				"DB_PORT":            "1",
				"DB_CONNECT_TIMEOUT": "1s",
				"DB_ACQUIRE_TIMEOUT": "2s",
				"LOG_LEVEL":          "error",
			},
			want: "connect database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := run()
			if err == nil {
				t.Fatal("run returned nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		logger := newLogger(config.LogConfig{Level: tt.level, Format: "json"})
		if !logger.Enabled(context.Background(), tt.want) {
			t.Errorf("level %q: %v disabled", tt.level, tt.want)
		}
		if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-1) {
			t.Errorf("level %q: below %v enabled", tt.level, tt.want)
		}
	}
}

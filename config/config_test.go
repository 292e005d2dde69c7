package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "3001" {
		t.Errorf("port = %q, want 3001", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 5 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("pool = %d/%d, want 5/5", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxIdleTime != 10*time.Second {
		t.Errorf("idle time = %v, want 10s", cfg.Database.ConnMaxIdleTime)
	}
	if cfg.Database.AcquireTimeout != 30*time.Second {
		t.Errorf("acquire timeout = %v, want 30s", cfg.Database.AcquireTimeout)
	}
	if cfg.JWT.Expiration != 24*time.Hour {
		t.Errorf("jwt expiration = %v, want 24h", cfg.JWT.Expiration)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORE", "memory")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("DB_CONNECT_TIMEOUT", "7s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Database.Store != StoreMemory {
		t.Errorf("cfg = %+v", cfg.Server)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.JWT.Expiration != 2*time.Hour {
		t.Errorf("jwt expiration = %v", cfg.JWT.Expiration)
	}
	if !strings.Contains(cfg.DSN(), "connect_timeout=7") {
		t.Errorf("dsn = %q", cfg.DSN())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"STORE":      "redis",
		"LOG_FORMAT": "xml",
		"JWT_SECRET": " ",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load with %s=%q succeeded", key, value)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable",
		ConnectTimeout: 5 * time.Second,
	}}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable connect_timeout=5"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Database.Host != "db" || cfg.Database.Port != "5432" {
		t.Errorf("unexpected database address %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Database.MaxOpenConns != 5 {
		t.Errorf("MaxOpenConns = %d, want 5", cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxConnIdleTime != "83h20m" {
		t.Errorf("MaxConnIdleTime = %q", cfg.Database.MaxConnIdleTime)
	}
	if !cfg.Database.MigrateOnStart {
		t.Error("MigrateOnStart should default to true")
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "4000"
database:
  host: localhost
  max_open_conns: 10
jwt:
  secret: from-file
auth:
  admins: ["011111111"]
`)
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "4000" {
		t.Errorf("Port = %q, want 4000", cfg.Server.Port)
	}
	if cfg.Database.Host != "pg.internal" {
		t.Errorf("Host = %q, env should win over file", cfg.Database.Host)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns = %d, want 10", cfg.Database.MaxOpenConns)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("Secret = %q", cfg.JWT.Secret)
	}
	if got := strings.Join(cfg.Server.CORSOrigins, "|"); got != "http://a.test|http://b.test" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if len(cfg.Auth.Admins) != 1 || cfg.Auth.Admins[0] != "011111111" {
		t.Errorf("Admins = %v", cfg.Auth.Admins)
	}
	if cfg.Database.MigrateOnStart {
		t.Error("MigrateOnStart should be overridden to false")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing secret", "database:\n  host: db\n", "JWT secret is required"},
		{"bad duration", "jwt:\n  secret: s\ndatabase:\n  connect_retry: soon\n", "database.connect_retry"},
		{"min above max", "jwt:\n  secret: s\ndatabase:\n  max_open_conns: 2\n  min_conns: 3\n", "min_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("LoadConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.Password = "p@ss word"

	got := cfg.GetPostgresConnectionString()
	want := "postgres://postgres:p%40ss%20word@db:5432/postgres?sslmode=disable"
	if got != want {
		t.Errorf("GetPostgresConnectionString() = %q, want %q", got, want)
	}
}

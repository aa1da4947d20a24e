package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vango-dev/navshell/internal/errors"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("NAVSHELL_ADDR", ":9999")
	t.Setenv("NAVSHELL_ALLOWED_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("NAVSHELL_STORAGE_BACKEND", "sql")
	t.Setenv("NAVSHELL_SQL_DRIVER", "postgres")
	t.Setenv("NAVSHELL_SQL_DSN", "postgres://localhost/shell")
	t.Setenv("NAVSHELL_SQL_AUTO_MIGRATE", "true")
	t.Setenv("NAVSHELL_REDIS_DB", "2")
	t.Setenv("NAVSHELL_LOG_FORMAT", "json")
	t.Setenv("NAVSHELL_METRICS_ENABLED", "false")
	t.Setenv("NAVSHELL_TRACING_ENABLED", "1")

	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Server.Address != ":9999" {
		t.Errorf("Server.Address = %q", cfg.Server.Address)
	}
	if want := []string{"https://a.test", "https://b.test"}; !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.Server.AllowedOrigins, want)
	}
	if cfg.Storage.Backend != "sql" || cfg.Storage.SQL.DSN != "postgres://localhost/shell" || !cfg.Storage.SQL.AutoMigrate {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d", cfg.Storage.Redis.DB)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
	if cfg.Metrics.Enabled || !cfg.Tracing.Enabled {
		t.Errorf("Metrics.Enabled = %v, Tracing.Enabled = %v", cfg.Metrics.Enabled, cfg.Tracing.Enabled)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestApplyEnvEmptyFallsBackToDefaults(t *testing.T) {
	t.Setenv("NAVSHELL_METRICS_NAMESPACE", "")
	t.Setenv("NAVSHELL_ADDR", "")

	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Server.Address = %q, want %q", cfg.Server.Address, DefaultAddress)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("NAVSHELL_METRICS_ENABLED", "maybe")
	if err := New().ApplyEnv(); !errors.HasCode(err, errors.CodeConfigInvalid) {
		t.Errorf("ApplyEnv error = %v, want N010", err)
	}
}

func TestApplyEnvInvalidRedisDB(t *testing.T) {
	t.Setenv("NAVSHELL_REDIS_DB", "one")
	if err := New().ApplyEnv(); err == nil {
		t.Error("ApplyEnv should reject a non-numeric NAVSHELL_REDIS_DB")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("NAVSHELL_TEST_DOTENV=from-file\n"), 0644)
	t.Setenv("NAVSHELL_TEST_DOTENV", "")
	os.Unsetenv("NAVSHELL_TEST_DOTENV")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("NAVSHELL_TEST_DOTENV"); got != "from-file" {
		t.Errorf("NAVSHELL_TEST_DOTENV = %q", got)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("NAVSHELL_TEST_KEEP=from-file\n"), 0644)
	t.Setenv("NAVSHELL_TEST_KEEP", "from-env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("NAVSHELL_TEST_KEEP"); got != "from-env" {
		t.Errorf("NAVSHELL_TEST_KEEP = %q, want from-env", got)
	}
}

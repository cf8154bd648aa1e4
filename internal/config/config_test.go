package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	yaml := `
server:
  addr: ":9090"
  read_timeout: 10s
route_cache:
  enabled: false
provider_overrides:
  - name: openrouter
    host: mirror.internal.example
    prefix: proxy
`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read_timeout = %v, want 10s", cfg.Server.ReadTimeout)
	}
	if cfg.RouteCache.Enabled {
		t.Error("route_cache.enabled should be overridden to false")
	}
	if len(cfg.Overrides) != 1 || cfg.Overrides[0].Name != "openrouter" {
		t.Fatalf("overrides = %+v", cfg.Overrides)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Parallel()

	result := expandEnv([]byte("key: ${TEST_API_KEY}"))
	if string(result) != "key: ${TEST_API_KEY}" {
		t.Errorf("expandEnv with unset var should leave pattern untouched, got %q", string(result))
	}
}

func TestExpandEnvSubstitutesSetVariable(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-secret-123")

	result := expandEnv([]byte("key: ${TEST_API_KEY}"))
	if string(result) != "key: sk-secret-123" {
		t.Errorf("expandEnv = %q, want %q", string(result), "key: sk-secret-123")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	yaml := `{}`
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if !cfg.RouteCache.Enabled {
		t.Error("route cache should default to enabled")
	}
	if cfg.RouteCache.MaxSize != 4096 {
		t.Errorf("default route cache max size = %d, want 4096", cfg.RouteCache.MaxSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging level = %q, want %q", cfg.Logging.Level, "info")
	}
}

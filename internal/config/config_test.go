package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadWithDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yml"))
	cfg := LoadWith(v)

	if cfg.Server.Addr() != "0.0.0.0:3000" {
		t.Fatalf("addr want 0.0.0.0:3000 got %s", cfg.Server.Addr())
	}
	if cfg.Storage.Driver != "json" || cfg.Storage.DataDir != "./data" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Admin.Username != "admin" || cfg.JWT.CookieName != "trackswift_admin" {
		t.Fatalf("unexpected auth defaults: admin=%+v jwt=%+v", cfg.Admin, cfg.JWT)
	}
	if cfg.Security.LoginRateLimit.MaxRequests != 10 || cfg.Security.ChatRateLimit.WindowSeconds != 60 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.Security)
	}
}

func TestLoadWithFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte("server:\n  port: \"8080\"\nstorage:\n  driver: \" SQLite \"\n  dsn: /tmp/ts.db\nupload:\n  max_size: 2048\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env-0123456789abcdef0123456789")
	t.Setenv("PORT", "9090")

	v := viper.New()
	v.SetConfigFile(path)
	cfg := LoadWith(v)

	if cfg.Storage.Driver != "sqlite" {
		t.Fatalf("driver should be normalized, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.DSN != "/tmp/ts.db" || cfg.Upload.MaxSize != 2048 {
		t.Fatalf("file values not applied: storage=%+v upload=%+v", cfg.Storage, cfg.Upload)
	}
	if cfg.JWT.SecretKey != "from-env-0123456789abcdef0123456789" {
		t.Fatalf("env override not applied, got %q", cfg.JWT.SecretKey)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("PORT env should win, got %q", cfg.Server.Port)
	}
}

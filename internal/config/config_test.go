package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.RateLimit != 10 || cfg.GetSessionTTL() != 24*time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batalhao.yaml")
	yamlDoc := "addr: \":9090\"\ndata_dir: /srv/dados\nrate_limit: 3\nsession_ttl: 12h\nslow_request: 500ms\n"
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BATALHAO_ADDR", ":7070")
	t.Setenv("BATALHAO_RATE_LIMIT", "0")
	t.Setenv("BATALHAO_TRUSTED_ORIGINS", "portal.batalhao.gg, admin.batalhao.gg,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, env should win", cfg.Addr)
	}
	if cfg.DataDir != "/srv/dados" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %d", cfg.RateLimit)
	}
	if cfg.GetSessionTTL() != 12*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.GetSessionTTL())
	}
	if cfg.GetSlowRequest() != 500*time.Millisecond {
		t.Errorf("SlowRequest = %v", cfg.GetSlowRequest())
	}
	if len(cfg.TrustedOrigins) != 2 || cfg.TrustedOrigins[1] != "admin.batalhao.gg" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	if cfg.StaticDir != "static" {
		t.Errorf("unset key lost its default: %q", cfg.StaticDir)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("addr: [unterminated"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	os.WriteFile(path, []byte("env: staging\n"), 0o644)
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Env != "staging" {
		t.Errorf("Env = %q", cfg.Env)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.yaml")
	cfg := DefaultConfig()
	cfg.Addr = ":1234"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Addr != ":1234" {
		t.Errorf("Addr = %q", got.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = " " }, "data_dir"},
		{"bad csrf key", func(c *Config) { c.CSRFKey = "abc" }, "csrf_key"},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, "rate_limit"},
		{"bad ttl", func(c *Config) { c.SessionTTL = "forever" }, "session_ttl"},
		{"bad slow threshold", func(c *Config) { c.SlowRequest = "-1s" }, "slow_request"},
		{"production without key", func(c *Config) { c.Env = EnvProduction; c.AdminPassword = "outra-senha" }, "csrf_key is required"},
		{"production default password", func(c *Config) { c.Env = EnvProduction; c.CSRFKey = validKey }, "admin_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCSRFKeyBytes(t *testing.T) {
	cfg := DefaultConfig()
	key, err := cfg.CSRFKeyBytes()
	if err != nil || len(key) != 32 {
		t.Errorf("dev random key: %v, len %d", err, len(key))
	}

	cfg.CSRFKey = validKey
	key, err = cfg.CSRFKeyBytes()
	if err != nil || key[1] != 0x11 {
		t.Errorf("decoded key: %v %x", err, key)
	}

	cfg.CSRFKey = ""
	cfg.Env = EnvProduction
	if _, err := cfg.CSRFKeyBytes(); err == nil {
		t.Error("production without key should fail")
	}
}

func TestLogSettings(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.JSONLogs() {
		t.Error("development should default to text logs")
	}
	cfg.Env = EnvProduction
	if !cfg.JSONLogs() {
		t.Error("production should default to JSON logs")
	}
	cfg.LogFormat = "text"
	if cfg.JSONLogs() {
		t.Error("explicit text format ignored")
	}
	cfg.LogLevel = "DEBUG"
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

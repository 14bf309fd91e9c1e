// Package config loads portal settings from defaults, an optional YAML file
// and BATALHAO_* environment variables, in that order of precedence.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the variable holding the YAML file path.
const EnvConfigPath = "BATALHAO_CONFIG"

// DefaultConfigPath is read when BATALHAO_CONFIG is unset. It may be absent.
const DefaultConfigPath = "batalhao.yaml"

// EnvProduction is the value of Env that enables production checks.
const EnvProduction = "production"

// Config holds every runtime setting of the server and CLI.
type Config struct {
	Addr       string `yaml:"addr"`
	Env        string `yaml:"env"`
	DataDir    string `yaml:"data_dir"`
	UploadsDir string `yaml:"uploads_dir"`
	StaticDir  string `yaml:"static_dir"`
	DBPath     string `yaml:"db_path"`
	PanelURL   string `yaml:"panel_url"` // public URL linked from e-mails

	TrustedOrigins []string `yaml:"trusted_origins"` // hosts allowed by the CSRF origin check

	CSRFKey string `yaml:"csrf_key"` // 64 hex chars

	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	ResendKey string `yaml:"resend_key"`
	EmailFrom string `yaml:"email_from"`

	RateLimit  int    `yaml:"rate_limit"`  // requests per second per IP; 0 disables
	SessionTTL string `yaml:"session_ttl"` // Go duration, e.g. "24h"

	SlowRequest string `yaml:"slow_request"` // requests at or above this log at WARN

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // json, text; empty picks by Env
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Addr:          ":8080",
		Env:           "development",
		DataDir:       "data",
		UploadsDir:    "public/uploads",
		StaticDir:     "static",
		DBPath:        "data/batalhao.db",
		PanelURL:      "http://localhost:8080/painel/",
		AdminEmail:    "admin@batalhao.local",
		AdminPassword: "trocar-esta-senha",
		EmailFrom:     "Batalhão <noreply@batalhao.local>",
		RateLimit:     10,
		SessionTTL:    "24h",
		SlowRequest:   "200ms",
		LogLevel:      "info",
	}
}

// Load reads path (missing file means defaults) and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadFromEnv loads the file named by BATALHAO_CONFIG, or DefaultConfigPath.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(path)
}

// Save writes c as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyEnvOverrides() {
	str := map[string]*string{
		"BATALHAO_ADDR":           &c.Addr,
		"BATALHAO_ENV":            &c.Env,
		"BATALHAO_DATA_DIR":       &c.DataDir,
		"BATALHAO_UPLOADS_DIR":    &c.UploadsDir,
		"BATALHAO_STATIC_DIR":     &c.StaticDir,
		"BATALHAO_DB_PATH":        &c.DBPath,
		"BATALHAO_PANEL_URL":      &c.PanelURL,
		"BATALHAO_CSRF_KEY":       &c.CSRFKey,
		"BATALHAO_ADMIN_EMAIL":    &c.AdminEmail,
		"BATALHAO_ADMIN_PASSWORD": &c.AdminPassword,
		"BATALHAO_RESEND_KEY":     &c.ResendKey,
		"BATALHAO_EMAIL_FROM":     &c.EmailFrom,
		"BATALHAO_SESSION_TTL":    &c.SessionTTL,
		"BATALHAO_SLOW_REQUEST":   &c.SlowRequest,
		"BATALHAO_LOG_LEVEL":      &c.LogLevel,
		"BATALHAO_LOG_FORMAT":     &c.LogFormat,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("BATALHAO_TRUSTED_ORIGINS"); v != "" {
		c.TrustedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.TrustedOrigins = append(c.TrustedOrigins, o)
			}
		}
	}
	if v := os.Getenv("BATALHAO_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.RateLimit = n
		}
	}
}

// IsProduction reports whether production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// GetSessionTTL parses SessionTTL, falling back to 24h.
func (c *Config) GetSessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// GetSlowRequest parses SlowRequest, falling back to 200ms.
func (c *Config) GetSlowRequest() time.Duration {
	d, err := time.ParseDuration(c.SlowRequest)
	if err != nil || d <= 0 {
		return 200 * time.Millisecond
	}
	return d
}

// CSRFKeyBytes decodes CSRFKey. An empty key outside production yields a
// random per-process key, so form tokens do not survive a restart.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		if c.IsProduction() {
			return nil, errors.New("csrf_key is required in production")
		}
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate csrf key: %w", err)
		}
		slog.Warn("config_event", "event", "random_csrf_key", "hint", "set BATALHAO_CSRF_KEY")
		return key, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil, errors.New("csrf_key must be 64 hex characters (32 bytes)")
	}
	return key, nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// JSONLogs reports whether logs should be JSON. Production defaults to JSON.
func (c *Config) JSONLogs() bool {
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return true
	case "text":
		return false
	}
	return c.IsProduction()
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	for name, v := range map[string]string{
		"addr":        c.Addr,
		"data_dir":    c.DataDir,
		"uploads_dir": c.UploadsDir,
		"static_dir":  c.StaticDir,
		"db_path":     c.DBPath,
	} {
		if strings.TrimSpace(v) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	if c.SessionTTL != "" {
		if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("session_ttl %q is not a positive duration", c.SessionTTL))
		}
	}
	if c.SlowRequest != "" {
		if d, err := time.ParseDuration(c.SlowRequest); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("slow_request %q is not a positive duration", c.SlowRequest))
		}
	}
	if c.CSRFKey != "" {
		if key, err := hex.DecodeString(c.CSRFKey); err != nil || len(key) != 32 {
			errs = append(errs, errors.New("csrf_key must be 64 hex characters (32 bytes)"))
		}
	} else if c.IsProduction() {
		errs = append(errs, errors.New("csrf_key is required in production"))
	}
	if c.IsProduction() && c.AdminPassword == DefaultConfig().AdminPassword {
		errs = append(errs, errors.New("admin_password must be changed in production"))
	}
	return errors.Join(errs...)
}

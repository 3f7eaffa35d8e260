package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 || cfg.Motion.Tablet != 768 || cfg.Motion.Desktop != 1024 {
		t.Errorf("defaults %+v %+v", cfg.Server, cfg.Motion)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("addr %q", cfg.Addr())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yml")
	data := `
server:
  port: 9000
relay:
  kind: form
  timeout: 3s
motion:
  debounce: 200ms
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORTFOLIO_MOTION__FRAME_RATE", "30")
	t.Setenv("PORTFOLIO_SERVER__CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_USER", "me@example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9000 || cfg.Relay.Kind != RelayForm || cfg.Relay.Timeout != 3*time.Second {
		t.Errorf("file values not applied: %+v %+v", cfg.Server, cfg.Relay)
	}
	if cfg.Motion.Debounce != 200*time.Millisecond || cfg.Motion.FrameRate != 30 {
		t.Errorf("motion %+v", cfg.Motion)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins %q", cfg.Server.CORSOrigins)
	}
	if cfg.SMTP.User != "me@example.com" || cfg.SMTP.Host != "smtp.gmail.com" {
		t.Errorf("smtp %+v", cfg.SMTP)
	}
}

func TestPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("PORT", "3000")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("legacy PORT ignored: %d", cfg.Server.Port)
	}

	t.Setenv("PORTFOLIO_SERVER__PORT", "4000")
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("port %d, want 4000", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"form without endpoint", func(c *Config) { c.Relay.Kind = RelayForm; c.Relay.Endpoint = "" }, "relay.endpoint"},
		{"unknown relay", func(c *Config) { c.Relay.Kind = "pigeon" }, "relay.kind"},
		{"inverted breakpoints", func(c *Config) { c.Motion.Tablet = 1200 }, "breakpoints"},
		{"retention", func(c *Config) { c.Retention.Months = 0 }, "retention.months"},
		{"release without password", func(c *Config) { c.Server.Mode = "release" }, "admin.password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")
	cfg := DefaultConfig()
	cfg.Server.Port = 9100
	cfg.Motion.Debounce = 250 * time.Millisecond
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Server.Port != 9100 || got.Motion.Debounce != 250*time.Millisecond {
		t.Errorf("reloaded %+v %+v", got.Server, got.Motion)
	}
}

func TestAdminCredentials(t *testing.T) {
	cfg := DefaultConfig()
	if u, p := cfg.AdminCredentials(); u != "admin" || p != devAdminPassword {
		t.Errorf("dev credentials %q %q", u, p)
	}
	cfg.Server.Mode = "release"
	if _, p := cfg.AdminCredentials(); p != "" {
		t.Errorf("release mode fell back to the dev password")
	}
}

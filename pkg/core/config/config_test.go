package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{90 * time.Second}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "1m30s" {
		t.Errorf("MarshalText() = %v, want 1m30s", string(result))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.General.Locale != "en" {
		t.Errorf("General.Locale = %v, want en", cfg.General.Locale)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if cfg.Report.Format != "text" || !cfg.Report.Color {
		t.Errorf("Report = %+v", cfg.Report)
	}
	if !cfg.History.Enabled || cfg.History.Path == "" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Server.Address() != "127.0.0.1:8765" {
		t.Errorf("Server.Address() = %v", cfg.Server.Address())
	}
	if cfg.Server.ReadTimeout.Duration != 60*time.Second {
		t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxSourceBytes != 1<<20 {
		t.Errorf("Server.MaxSourceBytes = %v", cfg.Server.MaxSourceBytes)
	}
	if cfg.Server.CacheSize != 256 || cfg.Server.CacheTTL.Duration != 10*time.Minute {
		t.Errorf("Server cache = %d / %v", cfg.Server.CacheSize, cfg.Server.CacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "minipas.toml", `
[general]
locale = "pt"
log_level = "debug"

[report]
format = "json"
color = false
show_tokens = true

[history]
enabled = false
path = "/tmp/minipas-history.db"

[server]
port = 9000
read_timeout = "5s"
max_source_bytes = 4096
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Locale != "pt" || cfg.General.LogLevel != "debug" {
		t.Errorf("General = %+v", cfg.General)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("LogFormat default not applied: %v", cfg.General.LogFormat)
	}
	if cfg.Report.Format != "json" || cfg.Report.Color || !cfg.Report.ShowTokens {
		t.Errorf("Report = %+v", cfg.Report)
	}
	if cfg.History.Enabled || cfg.History.Path != "/tmp/minipas-history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxSourceBytes != 4096 {
		t.Errorf("MaxSourceBytes = %v", cfg.Server.MaxSourceBytes)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "minipas.yaml", `
general:
  locale: pt
report:
  format: yaml
server:
  host: 0.0.0.0
  read_timeout: 2m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.General.Locale != "pt" || cfg.Report.Format != "yaml" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Report.Color {
		t.Error("unset color should keep the default")
	}
	if cfg.Server.Address() != "0.0.0.0:8765" {
		t.Errorf("Address = %v", cfg.Server.Address())
	}
	if cfg.Server.ReadTimeout.Duration != 2*time.Minute {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
}

func TestLoad_ServerLimits(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantBytes int64
		wantCache int
	}{
		{"defaults kept when unset", "[server]\nport = 9000\n", 1 << 20, 256},
		{"zero disables limit and cache", "[server]\nmax_source_bytes = 0\ncache_size = 0\n", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "server.toml", tt.content))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Server.MaxSourceBytes != tt.wantBytes || cfg.Server.CacheSize != tt.wantCache {
				t.Errorf("Server = %+v", cfg.Server)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantCode mdwerror.Code
	}{
		{"bad toml", "c.toml", "[general", mdwerror.CodeConfigError},
		{"bad duration", "c.toml", "[server]\nread_timeout = \"soon\"", mdwerror.CodeConfigError},
		{"unknown extension", "c.ini", "x=1", mdwerror.CodeInvalidConfig},
		{"bad report format", "c.toml", "[report]\nformat = \"xml\"", mdwerror.CodeInvalidConfig},
		{"bad log level", "c.yaml", "general:\n  log_level: loud", mdwerror.CodeInvalidConfig},
		{"port out of range", "c.toml", "[server]\nport = 70000", mdwerror.CodeValueOutOfRange},
		{"negative cache size", "c.toml", "[server]\ncache_size = -1", mdwerror.CodeInvalidConfig},
		{"negative source limit", "c.toml", "[server]\nmax_source_bytes = -1", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !mdwerror.HasCode(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	path := writeFile(t, "env.toml", "[general]\nlocale = \"pt\"\n")

	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/does/not/exist.toml")
		cfg, used, err := Resolve(path)
		if err != nil || used != path || cfg.General.Locale != "pt" {
			t.Errorf("Resolve = %+v, %q, %v", cfg, used, err)
		}
	})

	t.Run("environment variable", func(t *testing.T) {
		t.Setenv(EnvConfigPath, path)
		cfg, used, err := Resolve("")
		if err != nil || used != path || cfg.General.Locale != "pt" {
			t.Errorf("Resolve = %+v, %q, %v", cfg, used, err)
		}
	})

	t.Run("expanded variables", func(t *testing.T) {
		t.Setenv("MINIPAS_TEST_DIR", filepath.Dir(path))
		cfg, err := Load("$MINIPAS_TEST_DIR/env.toml")
		if err != nil || cfg.General.Locale != "pt" {
			t.Errorf("Load = %+v, %v", cfg, err)
		}
	})
}

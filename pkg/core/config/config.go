// ============================================================================
// minipas - Pascal subset source analyzer
// ============================================================================
//
// Package:     config
// Description: Typed application configuration loaded from TOML or YAML
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/minipas/foundation/core/error"
	mdwlog "github.com/msto63/minipas/foundation/core/log"
	"github.com/msto63/minipas/foundation/minipas/messages"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "MINIPAS_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Report  ReportConfig  `toml:"report" yaml:"report"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Locale    string `toml:"locale" yaml:"locale"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// ReportConfig controls how analysis results are printed
type ReportConfig struct {
	Format     string `toml:"format" yaml:"format"` // text, json or yaml
	Color      bool   `toml:"color" yaml:"color"`
	ShowTokens bool   `toml:"show_tokens" yaml:"show_tokens"`
}

// HistoryConfig holds the run history store settings
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// ServerConfig holds the websocket analysis server settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	MaxSourceBytes int64    `toml:"max_source_bytes" yaml:"max_source_bytes"` // 0 disables the size limit
	CacheSize      int      `toml:"cache_size" yaml:"cache_size"` // 0 disables the result cache
	CacheTTL       Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string scalar
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{
		Report:  ReportConfig{Color: true},
		History: HistoryConfig{Enabled: true},
		Server:  ServerConfig{MaxSourceBytes: 1 << 20, CacheSize: 256},
	}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML (.toml) or YAML (.yaml, .yml) file
func Load(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.New("config file not found").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, mdwerror.New("unsupported config format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.History.Path = expandPath(cfg.History.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve loads the file named by path, else by MINIPAS_CONFIG, else the
// first existing default location. Without any file the defaults are used.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		for _, candidate := range defaultPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := Load(path)
	return cfg, path, err
}

func defaultPaths() []string {
	paths := []string{
		"./minipas.toml",
		"./configs/minipas.toml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, "minipas", "config.toml"),
			filepath.Join(dir, "minipas", "config.yaml"),
		)
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.General.Locale == "" {
		c.General.Locale = messages.DefaultLocale
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	if c.Report.Format == "" {
		c.Report.Format = "text"
	}

	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}

	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8765
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 60 * time.Second
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}
}

func defaultHistoryPath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "minipas", "history.db")
	}
	return filepath.Join(".", "data", "history.db")
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return mdwerror.New("invalid configuration value").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat)
	}

	switch c.Report.Format {
	case "text", "json", "yaml":
	default:
		return invalid("report.format", c.Report.Format)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return mdwerror.New("server port out of range").
			WithCode(mdwerror.CodeValueOutOfRange).
			WithOperation("config.Validate").
			WithDetail("port", c.Server.Port)
	}
	if c.Server.MaxSourceBytes < 0 {
		return invalid("server.max_source_bytes", c.Server.MaxSourceBytes)
	}
	if c.Server.CacheSize < 0 {
		return invalid("server.cache_size", c.Server.CacheSize)
	}

	return nil
}

// expandPath expands environment variables and a leading ~
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

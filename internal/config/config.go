// Package config handles the XDG configuration directory, the optional
// config.yaml and .env files, and WATCHLATER_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	werrors "watchlater/internal/errors"
	"watchlater/internal/service"
	"watchlater/internal/title"
)

const (
	// AppName is the application directory name.
	AppName = "watchlater"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// DBFile is the SQLite database filename.
	DBFile = "state.db"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WATCHLATER_"
)

// Backend names a persistence slot implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Settings are the values that may come from config.yaml or the environment.
type Settings struct {
	Backend         Backend   `yaml:"backend"`
	StateKey        string    `yaml:"state_key"`
	MaxTitleLen     int       `yaml:"max_title_len"`
	LogFormat       LogFormat `yaml:"log_format"`
	MetricsTextfile string    `yaml:"metrics_textfile"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Backend:     BackendFile,
		StateKey:    service.StateKey,
		MaxTitleLen: title.DefaultMaxLen,
		LogFormat:   LogFormatText,
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings
}

// New creates a Config with default settings and the default or specified
// config directory. It reads no files.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// Load is New followed by the config.yaml, .env and environment layers,
// in increasing precedence. Missing files are not errors.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.loadSettingsFile(); err != nil {
		return nil, err
	}
	dotenv, err := cfg.readEnvFile()
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, werrors.ConfigInvalid(cfg.SettingsPath(), err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadSettingsFile() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return werrors.ConfigInvalid(c.SettingsPath(), err)
	}

	var fromFile Settings
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return werrors.ConfigInvalid(c.SettingsPath(), err)
	}
	c.merge(fromFile)
	return nil
}

func (c *Config) readEnvFile() (map[string]string, error) {
	path := filepath.Join(c.Dir, EnvFile)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, werrors.ConfigInvalid(path, err)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var fromEnv Settings
	if v, ok := lookup(EnvPrefix + "BACKEND"); ok {
		fromEnv.Backend = Backend(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvPrefix + "STATE_KEY"); ok {
		fromEnv.StateKey = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "MAX_TITLE_LEN"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return werrors.ConfigInvalid(EnvPrefix+"MAX_TITLE_LEN", err)
		}
		fromEnv.MaxTitleLen = n
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		fromEnv.LogFormat = LogFormat(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(EnvPrefix + "METRICS_TEXTFILE"); ok {
		fromEnv.MetricsTextfile = strings.TrimSpace(v)
	}
	c.merge(fromEnv)
	return nil
}

// merge overlays the non-zero fields of s.
func (c *Config) merge(s Settings) {
	if s.Backend != "" {
		c.Backend = s.Backend
	}
	if s.StateKey != "" {
		c.StateKey = s.StateKey
	}
	if s.MaxTitleLen != 0 {
		c.MaxTitleLen = s.MaxTitleLen
	}
	if s.LogFormat != "" {
		c.LogFormat = s.LogFormat
	}
	if s.MetricsTextfile != "" {
		c.MetricsTextfile = s.MetricsTextfile
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendFile, BackendSQLite)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.MaxTitleLen < 1 {
		return fmt.Errorf("max_title_len must be positive, got %d", c.MaxTitleLen)
	}
	return nil
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DBPath returns the path to the SQLite database.
func (c *Config) DBPath() string {
	return filepath.Join(c.Dir, DBFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the client settings read from config.toml.
type Config struct {
	APIURL       string
	Token        string
	JWTSecret    string
	JWTIssuer    string
	User         string
	PollInterval time.Duration
	LogFile      string
	ExportDir    string
	MetricsAddr  string
}

const (
	defaultConfigPath   = "~/.config/fitdeck/config.toml"
	defaultAPIURL       = "127.0.0.1:8460"
	defaultJWTIssuer    = "fitdeck.local"
	defaultPollInterval = 30 * time.Second
	defaultLogFile      = "~/.local/state/fitdeck/fitdeck.log"
	defaultExportDir    = "~"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the fitdeck config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL       string `toml:"api_url"`
		Token        string `toml:"token"`
		JWTSecret    string `toml:"jwt_secret"`
		JWTIssuer    string `toml:"jwt_issuer"`
		User         string `toml:"user"`
		PollInterval string `toml:"poll_interval"`
		LogFile      string `toml:"log_file"`
		ExportDir    string `toml:"export_dir"`
		MetricsAddr  string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = orDefault(raw.APIURL, defaultAPIURL)
	cfg.Token = strings.TrimSpace(raw.Token)
	cfg.JWTSecret = strings.TrimSpace(raw.JWTSecret)
	cfg.JWTIssuer = orDefault(raw.JWTIssuer, defaultJWTIssuer)
	cfg.User = strings.TrimSpace(raw.User)
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.ExportDir = mustExpand(orDefault(raw.ExportDir, defaultExportDir))

	if interval := strings.TrimSpace(raw.PollInterval); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: poll_interval: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("parse config: poll_interval must be positive, got %s", parsed)
		}
		cfg.PollInterval = parsed
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIURL:       defaultAPIURL,
		JWTIssuer:    defaultJWTIssuer,
		PollInterval: defaultPollInterval,
		LogFile:      mustExpand(defaultLogFile),
		ExportDir:    mustExpand(defaultExportDir),
	}
}

// SignedIn reports whether the config carries credentials for the remote
// service: either a token or the secret and user needed to mint one.
func (c Config) SignedIn() bool {
	return c.Token != "" || (c.JWTSecret != "" && c.User != "")
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

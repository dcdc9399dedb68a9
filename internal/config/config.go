package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings evlog reads from its config file and environment.
type Config struct {
	StoreDir      string
	RetentionDays int
	HTTPBind      string
	LogLevel      string
	Theme         string
}

const (
	defaultConfigPath    = "~/.config/evlog/config.toml"
	defaultStoreDir      = "event-store"
	defaultRetentionDays = 7
	defaultHTTPBind      = "127.0.0.1:7488"
	defaultLogLevel      = "warn"
)

// Environment variables that override the config file.
const (
	EnvStoreDir      = "EVLOG_STORE_DIR"
	EnvRetentionDays = "EVLOG_RETENTION_DAYS"
	EnvHTTPBind      = "EVLOG_HTTP_BIND"
	EnvLogLevel      = "EVLOG_LOG_LEVEL"
)

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		StoreDir:      defaultStoreDir,
		RetentionDays: defaultRetentionDays,
		HTTPBind:      defaultHTTPBind,
		LogLevel:      defaultLogLevel,
	}
}

// Load parses the config file at path (or the default location), then applies
// a .env file from the working directory and EVLOG_* environment overrides.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := loadFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	_ = godotenv.Load()
	applyEnv(&cfg)

	cfg.StoreDir = mustExpand(cfg.StoreDir)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		StoreDir      string `toml:"store_dir"`
		RetentionDays int    `toml:"retention_days"`
		HTTPBind      string `toml:"http_bind"`
		LogLevel      string `toml:"log_level"`
		Theme         string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.StoreDir); v != "" {
		cfg.StoreDir = v
	}
	if raw.RetentionDays > 0 {
		cfg.RetentionDays = raw.RetentionDays
	}
	if v := strings.TrimSpace(raw.HTTPBind); v != "" {
		cfg.HTTPBind = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.StoreDir = getEnv(EnvStoreDir, cfg.StoreDir)
	cfg.RetentionDays = getEnvInt(EnvRetentionDays, cfg.RetentionDays)
	cfg.HTTPBind = getEnv(EnvHTTPBind, cfg.HTTPBind)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath resolves a leading ~ and returns an absolute path. Paths that
// cannot be expanded are returned unchanged.
func ExpandPath(path string) string {
	return mustExpand(path)
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

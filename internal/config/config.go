package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Browsing modes.
const (
	ModePagination = "pagination"
	ModeInfinite   = "infinite"
)

// Config captures the settings the browser reads at startup.
type Config struct {
	BaseURL         string
	PageSize        int
	Mode            string
	LogFile         string
	LogLevel        string
	RequestTimeout  time.Duration
	MaxCacheEntries int
	SweepInterval   time.Duration
}

const (
	defaultConfigPath      = "~/.config/pokedex/config.toml"
	defaultBaseURL         = "https://pokeapi.co/api/v2"
	defaultPageSize        = 20
	defaultMode            = ModeInfinite
	defaultLogFile         = "~/.local/state/pokedex/pokedex.log"
	defaultLogLevel        = "info"
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxCacheEntries = 2048
	defaultSweepInterval   = time.Minute
)

// Environment variables that override file values.
const (
	EnvBaseURL  = "POKEDEX_BASE_URL"
	EnvPageSize = "POKEDEX_PAGE_SIZE"
	EnvLogLevel = "POKEDEX_LOG_LEVEL"
	EnvLogFile  = "POKEDEX_LOG_FILE"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:         defaultBaseURL,
		PageSize:        defaultPageSize,
		Mode:            defaultMode,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
		RequestTimeout:  defaultRequestTimeout,
		MaxCacheEntries: defaultMaxCacheEntries,
		SweepInterval:   defaultSweepInterval,
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
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
		BaseURL         string `toml:"base_url"`
		PageSize        int    `toml:"page_size"`
		Mode            string `toml:"mode"`
		LogFile         string `toml:"log_file"`
		LogLevel        string `toml:"log_level"`
		RequestTimeout  string `toml:"request_timeout"`
		MaxCacheEntries int    `toml:"max_cache_entries"`
		SweepInterval   string `toml:"sweep_interval"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if mode, ok := ParseMode(raw.Mode); ok {
		cfg.Mode = mode
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if d, ok := parseDuration(raw.RequestTimeout); ok {
		cfg.RequestTimeout = d
	}
	if raw.MaxCacheEntries > 0 {
		cfg.MaxCacheEntries = raw.MaxCacheEntries
	}
	if d, ok := parseDuration(raw.SweepInterval); ok {
		cfg.SweepInterval = d
	}

	applyEnv(&cfg)
	return cfg, nil
}

// ParseMode normalizes a mode name. The boolean is false for unknown modes.
func ParseMode(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ModePagination, "paginated", "pages":
		return ModePagination, true
	case ModeInfinite, "scroll":
		return ModeInfinite, true
	default:
		return "", false
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPageSize)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.LogFile = mustExpand(v)
	}
}

func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
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

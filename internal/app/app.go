package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/five82/pokedex/internal/browse"
	"github.com/five82/pokedex/internal/config"
	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/prefs"
	"github.com/five82/pokedex/internal/query"
	"github.com/five82/pokedex/internal/ui"
)

// Options configure the Pokédex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pokedex/prefs.toml
	Mode       string // overrides prefs and config when set
	PageSize   int    // zero uses config
}

// Runtime holds the wired components shared by the TUI and one-shot commands.
type Runtime struct {
	Config  config.Config
	Prefs   prefs.Prefs
	Mode    string
	Logger  *log.Logger
	Cache   *query.Cache
	Catalog *browse.Catalog

	logFile io.Closer
}

// Build loads configuration and preferences and wires the client, cache and
// catalog. Callers must Close the runtime.
func Build(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PageSize > 0 {
		cfg.PageSize = opts.PageSize
	}
	userPrefs := prefs.Load(opts.PrefsPath)

	logger, closer, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	client, err := pokeapi.NewClient(cfg.BaseURL,
		pokeapi.WithTimeout(cfg.RequestTimeout),
		pokeapi.WithLogger(logger.WithPrefix("api")),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init pokeapi client: %w", err)
	}

	cache := query.NewCache(
		query.WithMaxEntries(cfg.MaxCacheEntries),
		query.WithLogger(logger.WithPrefix("query")),
	)

	rt := &Runtime{
		Config:  cfg,
		Prefs:   userPrefs,
		Mode:    resolveMode(opts.Mode, userPrefs.Mode, cfg.Mode),
		Logger:  logger,
		Cache:   cache,
		Catalog: browse.NewCatalog(cache, client, logger.WithPrefix("browse")),
		logFile: closer,
	}
	logger.Info("pokedex starting", "base_url", cfg.BaseURL, "mode", rt.Mode, "page_size", cfg.PageSize)
	return rt, nil
}

// Close releases the log file.
func (r *Runtime) Close() error {
	if r == nil || r.logFile == nil {
		return nil
	}
	return r.logFile.Close()
}

// Run boots the Pokédex TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	rt, err := Build(opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	// Background eviction of idle queries
	go rt.Cache.Run(ctx, rt.Config.SweepInterval)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   rt.Catalog,
		Mode:      rt.Mode,
		PageSize:  rt.Config.PageSize,
		ThemeName: rt.Prefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    rt.Logger.WithPrefix("ui"),
	})
	if err != nil {
		rt.Logger.Error("ui exited", "err", err)
	}
	return err
}

// resolveMode picks the first valid mode from the flag, saved prefs, then config.
func resolveMode(candidates ...string) string {
	for _, c := range candidates {
		if mode, ok := config.ParseMode(c); ok {
			return mode
		}
	}
	return config.ModeInfinite
}

// newLogger opens an append-only log file. An empty path discards output.
func newLogger(path, level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if path == "" {
		logger := log.New(io.Discard)
		logger.SetLevel(lvl)
		return logger, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
	})
	return logger, file, nil
}

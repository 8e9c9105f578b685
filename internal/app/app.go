package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atlas/internal/cache"
	"github.com/five82/atlas/internal/config"
	"github.com/five82/atlas/internal/explorer"
	"github.com/five82/atlas/internal/logging"
	"github.com/five82/atlas/internal/prefs"
	"github.com/five82/atlas/internal/restcountries"
	"github.com/five82/atlas/internal/state"
	"github.com/five82/atlas/internal/ui"
)

// Options configure the atlas application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/atlas/prefs.toml
	// Location is the address to open first, e.g. "/?region=Europe".
	Location string
}

// Run boots the atlas TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Init(cfg.LogPath, cfg.LogLevel); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Close()
	logging.Info("atlas started", "api", cfg.APIBase, "location", opts.Location)
	defer logging.Info("atlas shutting down")

	userPrefs := prefs.Load(opts.PrefsPath)
	theme := userPrefs.ThemeOr(lipgloss.HasDarkBackground())

	client, err := restcountries.NewClient(restcountries.Options{
		BaseURL:           cfg.APIBase,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	// The cache is optional; atlas runs without it.
	var records RecordCache
	if cfg.CacheEnabled() {
		c, err := cache.Open(cfg.CachePath)
		if err != nil {
			logging.Warn("offline cache unavailable", "path", cfg.CachePath, "error", err)
		} else {
			defer c.Close()
			records = c
		}
	}

	store := &state.Store{}
	loader := NewLoader(client, records, store)

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Explorer:  explorer.New(opts.Location),
		Loader:    loader,
		Theme:     theme,
		PrefsPath: opts.PrefsPath,
	})
}

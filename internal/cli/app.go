// Package cli assembles the application for command-line use.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/chromekit/internal/cache"
	"github.com/bnema/chromekit/internal/config"
	"github.com/bnema/chromekit/internal/db"
	"github.com/bnema/chromekit/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/chromekit/internal/logging"
	"github.com/bnema/chromekit/internal/services"
	"github.com/bnema/chromekit/internal/ui/animation"
	"github.com/bnema/chromekit/internal/ui/component"
	"github.com/bnema/chromekit/internal/ui/controller"
	"github.com/bnema/chromekit/internal/ui/coordinator"
	"github.com/bnema/chromekit/internal/ui/layout"
	"github.com/bnema/chromekit/internal/ui/mainloop"
)

// simViewportHeight is the nominal viewport height of the simulator;
// the snackbar stack anchors to the toolbar top derived from it.
const simViewportHeight = 600.0

// App holds the assembled chromekit components for CLI commands.
type App struct {
	Config *config.Manager
	Logger zerolog.Logger
	DB     *sql.DB
	Repo   *sqlite.ReaderCacheRepo
	Cache  *cache.ExtractionCache
	Pages  *SimContainer
	Chrome *coordinator.Chrome
	Loop   *mainloop.Loop
}

// NewApp loads configuration, opens the database and wires the chrome
// core together.
func NewApp(ctx context.Context) (*App, error) {
	cfgMgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := cfgMgr.Get()

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logger := logging.New(logCfg)
	ctx = logging.WithContext(ctx, logger)

	database, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := sqlite.NewReaderCacheRepo(database)
	extractionCache := cache.NewExtractionCache(repo, time.Duration(cfg.Cache.MaxAgeHours)*time.Hour)
	if err := extractionCache.Load(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("load extraction cache: %w", err)
	}

	metrics := layout.Metrics{
		HeaderHeight:    cfg.Chrome.HeaderHeight,
		FooterHeight:    cfg.Chrome.FooterHeight,
		StatusBarHeight: cfg.Chrome.StatusBarHeight,
		ReaderBarHeight: cfg.Chrome.ReaderBarHeight,
	}

	loop := mainloop.New()
	animator := animation.NewStepper(loop.Post)
	ctl := controller.NewChromeController(ctx, metrics, animator)
	stack := component.NewSnackbarStack(ctx, simViewportHeight-metrics.FooterHeight, animator)
	bar := component.NewReaderBar(metrics.ReaderBarHeight)
	extractor := services.NewReadabilityExtractor()
	pages := NewSimContainer()

	reader := coordinator.NewReaderCoordinator(ctx, loop, pages, extractor, extractionCache, ctl, bar, cfgMgr)
	chrome := coordinator.NewChrome(ctx, loop, pages, ctl, stack, bar, reader)
	chrome.SetReadingList(NewMemReadingList())

	// Style edits from another process land through the watcher.
	// Editors often fire several fsnotify events per save; coalesce
	// them so only the last style wins.
	coalescer := mainloop.NewCoalescer(loop.Post)
	cfgMgr.OnConfigChange(func(c *config.Config) {
		style := c.Reader
		coalescer.Post("config.reader_style", func() {
			_ = reader.OnStyleChanged(ctx, style)
		})
	})
	cfgMgr.Watch()

	return &App{
		Config: cfgMgr,
		Logger: logger,
		DB:     database,
		Repo:   repo,
		Cache:  extractionCache,
		Pages:  pages,
		Chrome: chrome,
		Loop:   loop,
	}, nil
}

// Close flushes pending cache writes and releases resources.
func (a *App) Close() error {
	a.Cache.Flush()
	a.Chrome.Close()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

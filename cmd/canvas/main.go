// Command canvas opens the graph view over a vault of markdown notes. Node
// positions and edges live in each note's attribute block; external edits
// show up live, and gestures write straight back to the notes.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"notecanvas/application/services"
	"notecanvas/domain/core/valueobjects"
	"notecanvas/infrastructure/config"
	"notecanvas/infrastructure/vault"
	"notecanvas/interfaces/canvas"
	"notecanvas/interfaces/canvas/render"
	"notecanvas/interfaces/http/rest"
	"notecanvas/pkg/observability"
)

func main() {
	configPath := flag.String("config", os.Getenv("NOTECANVAS_CONFIG"), "path to the YAML config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("canvas failed: %v", err)
	}
}

func run(configPath string) error {
	// With a config file the configuration hot-reloads; without one the
	// environment alone drives it.
	var (
		live    *config.Live
		current func() config.Config
	)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging.ZapLevel())
	if err != nil {
		return err
	}
	defer logger.Sync()

	if configPath != "" {
		live, err = config.NewLive(configPath, logger)
		if err != nil {
			return err
		}
		defer live.Close()
		current = live.Snapshot
	} else {
		current = func() config.Config { return cfg }
	}

	metrics := observability.NewMetrics()

	repo, err := vault.NewRepository(cfg.Vault.Root, logger)
	if err != nil {
		return err
	}
	watcher, err := vault.NewWatcher(repo, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctrl := canvas.NewController(
		services.NewGraphBuilder(repo, logger, metrics),
		services.NewPositionService(repo, logger, metrics),
		services.NewEdgeService(repo, logger, metrics),
		vault.NewSystemOpener(repo, logger),
		func() string { return current().Vault.DirectoryFilter },
		valueobjects.NewViewTransform(valueobjects.Vec2{}, cfg.Canvas.InitialZoom),
		logger,
	)
	if err := ctrl.Reload(context.Background()); err != nil {
		return err
	}
	defer ctrl.Wait()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	// Funnel vault changes and config reloads into one channel the update
	// loop drains.
	reloads := make(chan struct{}, 1)
	go func() {
		for range watcher.Changes() {
			requestReload(reloads)
		}
	}()
	if live != nil {
		live.OnChange(func(config.Config) { requestReload(reloads) })
	}

	g := &game{
		ctrl:     ctrl,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
		reloads:  reloads,
		width:    cfg.Canvas.WindowWidth,
		height:   cfg.Canvas.WindowHeight,
	}
	g.strip = canvas.NewControlStrip(ctrl, g.ViewportSize)

	if cfg.Debug.Enabled {
		srv := &http.Server{
			Addr:         cfg.Debug.ListenAddr,
			Handler:      rest.NewRouter(ctrl, metrics, logger).Setup(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			logger.Info("debug server listening", zap.String("address", cfg.Debug.ListenAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("debug server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("debug server shutdown error", zap.Error(err))
			}
		}()
	}

	ebiten.SetWindowSize(cfg.Canvas.WindowWidth, cfg.Canvas.WindowHeight)
	ebiten.SetWindowTitle("notecanvas")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("canvas started",
		zap.String("vault", cfg.Vault.Root),
		zap.String("directory_filter", cfg.Vault.DirectoryFilter))
	return ebiten.RunGame(g)
}

// requestReload coalesces reload signals; one pending request is enough.
func requestReload(reloads chan<- struct{}) {
	select {
	case reloads <- struct{}{}:
	default:
	}
}

package app

import (
	"context"

	"github.com/dshills/gradebook/internal/config/watcher"
)

// watchLoop reloads the configuration whenever the watcher reports a change.
func (app *Application) watchLoop(ctx context.Context) {
	log := app.logger.WithComponent("watcher")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-app.watcher.Events():
			if !ok {
				return
			}
			if ev.Op == watcher.OpRemove {
				log.Info("config file %s removed; keeping current settings", ev.Path)
				continue
			}
			if err := app.reload(); err != nil {
				log.Warn("config reload failed: %v", err)
			}
		case err, ok := <-app.watcher.Errors():
			if !ok {
				return
			}
			log.Warn("watch error: %v", err)
		}
	}
}

// reload re-reads the configuration and applies the settings that can
// change at runtime: log level and display. Script limits are fixed for
// the lifetime of the runner.
func (app *Application) reload() error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	app.session.SetDisplay(cfg.Display)
	app.logger.Info("config reloaded from %s", cfg.Path)
	return nil
}

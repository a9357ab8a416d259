// Command modhost runs the module host: it discovers packaged modules,
// loads and enables them in dependency order, and keeps them running until
// the process is told to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/modhost/modhost"
)

const banner = `
                      _ _               _
  _ __ ___   ___   __| | |__   ___  ___| |_
 | '_ ' _ \ / _ \ / _' | '_ \ / _ \/ __| __|
 | | | | | | (_) | (_| | | | | (_) \__ \ |_
 |_| |_| |_|\___/ \__,_|_| |_|\___/|___/\__|
`

func main() {
	configPath := flag.String("config", "", "path to modhost.yaml or modhost.toml")
	flag.Parse()

	logger := modhost.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := modhost.LoadHostConfig(*configPath)
	if err != nil {
		logger.Error("Could not load host config", "error", err)
		os.Exit(1)
	}

	fmt.Print(banner)
	logger.Info("modhost is starting up", "hostVersion", cfg.HostVersion)

	registry := modhost.NewRegistry(cfg, logger)
	loader := registry.Loader()

	logger.Info("Starting module loader", "packagesDir", cfg.PackagesDir)
	if err := loader.Discover(); err != nil {
		// A cycle aborts the whole schedule but the host keeps running so
		// the operator can inspect it through the admin surface.
		logger.Error("Module discovery failed, continuing without modules", "error", err)
	}
	loader.LoadAll()
	loader.EnableAll()
	logger.Info("Modules have been activated", "loaded", len(registry.List()))

	shutdown := loader.Shutdown()
	// Registered after the per-module hooks so the batch disable runs
	// first, in reverse load order; the individual hooks then no-op.
	shutdown.Register(registry.DisableAll)

	if cfg.AdminEnabled {
		admin := modhost.NewAdminServer(registry, logger)
		if err := admin.Start(cfg.AdminAddr); err != nil {
			logger.Error("Could not start admin server", "error", err)
		} else {
			shutdown.Register(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := admin.Shutdown(ctx); err != nil {
					logger.Error("Admin server shutdown failed", "error", err)
				}
			})
		}
	}

	if cfg.WatchPackages {
		watcher, err := modhost.NewPackageWatcher(cfg.PackagesDir, logger)
		if err != nil {
			logger.Error("Could not watch packages directory", "error", err)
		} else {
			shutdown.Register(func() {
				if err := watcher.Close(); err != nil {
					logger.Error("Package watcher close failed", "error", err)
				}
			})
		}
	}

	<-shutdown.ListenForSignals()
	logger.Info("modhost stopped")
}

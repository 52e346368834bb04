package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"movement_mesh/pkg/api"
	"movement_mesh/pkg/level"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port")
	levelsDir := flag.String("levels-dir", "", "Directory of *.yaml level descriptions overlaid on the built-in levels")
	watch := flag.Bool("watch", true, "Reload --levels-dir when its files change")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	maxSnap := flag.Float64("max-snap-dist", 0, "Nearest-vertex radius in world units (0 = default)")
	jsonLogs := flag.Bool("json-logs", false, "Log in JSON instead of text")
	flag.Parse()

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))

	start := time.Now()

	// Load levels.
	catalog, err := level.LoadCatalog(*levelsDir)
	if err != nil {
		slog.Error("failed to load levels", "error", err)
		os.Exit(1)
	}
	slog.Info("levels loaded", "levels", catalog.IDs(), "elapsed", time.Since(start).Round(time.Microsecond))

	cfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	cfg.CORSOrigin = *corsOrigin
	if *maxSnap > 0 {
		cfg.MaxSnapDist = *maxSnap
	}

	srv := api.NewServer(cfg, api.NewHandlers(catalog, cfg.MaxSnapDist))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return api.Serve(ctx, srv)
	})
	if *levelsDir != "" && *watch {
		g.Go(func() error {
			return level.Watch(ctx, *levelsDir, catalog, level.DefaultDebounce)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

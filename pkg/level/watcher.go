package level

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultDebounce is how long Watch waits after the last file event before reloading.
const DefaultDebounce = 200 * time.Millisecond

var levelReloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "movement_mesh_level_reloads_total",
	Help: "Level directory reloads by result",
}, []string{"result"})

// Watch reloads c from dir whenever a .yaml file in dir changes, until ctx is
// done. A reload that fails leaves the previous contents in place.
func Watch(ctx context.Context, dir string, c *Catalog, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Info("watching level directory", "dir", dir)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".yaml" {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("level watcher error", "dir", dir, "error", err)

		case <-timer.C:
			if err := reload(c, dir); err != nil {
				levelReloads.WithLabelValues("error").Inc()
				slog.Error("reload levels", "dir", dir, "error", err)
				continue
			}
			levelReloads.WithLabelValues("ok").Inc()
			slog.Info("reloaded levels", "dir", dir, "levels", c.Len())
		}
	}
}

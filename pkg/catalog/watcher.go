package catalog

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/scoutdeck/scoutdeck/pkg/log"
)

// Watch reloads the catalog whenever the snapshot file changes, until ctx
// is cancelled. The import tooling drops new snapshots in place, usually
// via atomic rename, so rename and remove events are followed by a re-add
// of the path to the watcher.
func Watch(ctx context.Context, c *Catalog, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	logger := log.ForComponent("catalog")
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("closing snapshot watcher: %v", err)
		}
	}()

	if err := watcher.Add(path); err != nil {
		return err
	}
	logger.Infof("watching catalog snapshot for changes: %s", path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// Editors and importers replace files atomically; give the
				// new file a moment to appear, then re-watch it.
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					logger.Warnf("catalog snapshot removed and not replaced, skipping reload")
					continue
				}
				if err := watcher.Add(path); err != nil {
					logger.Warnf("re-adding snapshot to watcher: %v", err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}

			if err := LoadSnapshot(c, path); err != nil {
				logger.Errorf("reloading catalog snapshot: %v", err)
				continue
			}
			logger.Infof("catalog snapshot reloaded: %d players", c.Size())
		case err, ok := <-watcher.Errors:
			if !ok {
				continue
			}
			logger.Warnf("snapshot watcher error: %v", err)
		}
	}
}

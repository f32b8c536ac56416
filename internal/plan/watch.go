package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
)

const watchDebounce = 100 * time.Millisecond

// WatchFiles calls fn with the absolute path of each file in paths once its
// changes have settled, until ctx is done. The containing directories are
// watched so that editors replacing a file by rename are seen. fn runs on
// the calling goroutine.
func WatchFiles(ctx context.Context, paths []string, fn func(path string)) error {
	log := logging.FromContext(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating plan watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
		log.Info(ctx, "watching files", logging.String("dir", dir))
	}

	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(event.Name)
			if !targets[name] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[name] = time.Now()
			}

		case <-ticker.C:
			for name, at := range pending {
				if time.Since(at) < watchDebounce {
					continue
				}
				delete(pending, name)
				log.Debug(ctx, "watched file changed", logging.String("path", name))
				fn(name)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn(ctx, "file watcher error", logging.Err(err))
		}
	}
}

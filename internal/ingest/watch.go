package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a result file must stay quiet before it is handled.
const settleDelay = 200 * time.Millisecond

// Watch calls handle once for every JSON file created or rewritten in dir
// until ctx is done. Hidden files are skipped so temp files of atomic writers
// are ignored. Handler errors go to logf and do not stop the watch.
func Watch(ctx context.Context, dir string, handle func(path string) error, logf func(format string, args ...any)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logf("close watcher: %v", err)
		}
	}()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()
	pending := map[string]time.Time{}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isResultFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("watch %s: %v", dir, err)
		case now := <-ticker.C:
			for path, at := range pending {
				if now.Sub(at) < settleDelay {
					continue
				}
				delete(pending, path)
				if err := handle(path); err != nil {
					logf("import %s: %v", path, err)
				}
			}
		}
	}
}

func isResultFile(path string) bool {
	base := filepath.Base(path)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), ".json")
}

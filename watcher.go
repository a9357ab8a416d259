package modhost

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// PackageWatcher watches the packages directory after discovery and reports
// module archives that arrive while the host is running. Late arrivals are
// only logged; modules are never hot-reloaded into a running host, so the
// operator has to restart to pick them up.
type PackageWatcher struct {
	watcher *fsnotify.Watcher
	logger  Logger
	done    chan struct{}
}

// NewPackageWatcher starts watching dir.
func NewPackageWatcher(dir string, logger Logger) (*PackageWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create package watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &PackageWatcher{watcher: watcher, logger: logger, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *PackageWatcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) && IsModulePackage(event.Name) {
				w.logger.Warn("Module package arrived after discovery; restart the host to load it",
					"package", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Package watcher error", "error", err)
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *PackageWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

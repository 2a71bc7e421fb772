package notionblog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher re-imports record map files as they change on disk.
type Watcher struct {
	dir      string
	importer *Importer
	changed  func()
	log      *logrus.Entry
}

// NewWatcher watches dir. changed runs after every successful import or
// removal, typically to invalidate a PageCache.
func NewWatcher(dir string, im *Importer, changed func(), log *logrus.Entry) *Watcher {
	if changed == nil {
		changed = func() {}
	}
	return &Watcher{dir: dir, importer: im, changed: changed, log: log}
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("notionblog: watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("notionblog: watch %s: %w", w.dir, err)
	}
	w.log.WithField("dir", w.dir).Info("Watching content")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".json") {
		return
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if err := w.importer.Remove(ev.Name); err != nil {
			w.log.WithError(err).Warn("Remove failed")
			return
		}
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		if _, err := w.importer.ImportFile(ctx, ev.Name); err != nil {
			w.log.WithError(err).Warn("Import failed")
			return
		}
	default:
		return
	}
	w.changed()
}

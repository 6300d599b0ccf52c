package demo

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/nucleus3d/internal/logger"
)

// Watcher reapplies a schedule file to a timeline whenever it is written.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	timeline *Timeline
	log      *zap.Logger
	reloaded chan error
	done     chan struct{}
}

// Watch starts watching path. The parent directory is watched so that
// editors which replace the file on save are picked up.
func Watch(path string, tl *Timeline) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving schedule path: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fs:       fs,
		path:     abs,
		timeline: tl,
		log:      logger.Named("demo"),
		reloaded: make(chan error, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Reloaded delivers the result of the latest reload. An unread result is
// replaced by a newer one.
func (w *Watcher) Reloaded() <-chan error {
	return w.reloaded
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.notify(w.reload())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("schedule watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() error {
	s, err := LoadSchedule(w.path)
	if err == nil {
		err = s.Apply(w.timeline)
	}
	if err != nil {
		w.log.Warn("schedule reload failed", zap.String("path", w.path), zap.Error(err))
		return err
	}
	w.log.Info("schedule reloaded", zap.String("path", w.path), zap.Int("parts", len(s.Parts)))
	return nil
}

func (w *Watcher) notify(err error) {
	select {
	case w.reloaded <- err:
		return
	default:
	}
	select {
	case <-w.reloaded:
	default:
	}
	w.reloaded <- err
}

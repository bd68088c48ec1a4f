package fernet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher follows a key directory and reloads a Repository when the key files
// change, so a rotation performed by another process (a cron job, an operator
// on another node) becomes visible without a restart.
type Watcher struct {
	repo    *Repository
	dir     string
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewWatcher wires a watcher for dir to repo. Reloads are coalesced to at
// most one per second; a rotation touches several files and one reload
// covers them all.
func NewWatcher(repo *Repository, dir string, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		repo:    repo,
		dir:     dir,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log,
	}
}

// Run watches until ctx is cancelled. It returns ctx.Err() on cancellation
// and a wrapped error if the underlying watch cannot be established.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fernet: creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("fernet: watching %s: %w", w.dir, err)
	}
	w.log.Info("watching key directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			drainEvents(fw.Events)

			if err := w.repo.Reload(ctx); err != nil {
				w.log.Error("key reload failed", "dir", w.dir, "error", err)
				continue
			}
			w.log.Info("key repository reloaded",
				"keys", len(w.repo.All()),
				"primary", w.repo.Primary().Index,
			)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("key directory watch error", "dir", w.dir, "error", err)
		}
	}
}

// drainEvents flushes whatever is queued so a burst of file operations
// collapses into the single reload that follows.
func drainEvents(ch <-chan fsnotify.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

package fragments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when fsnotify closes its channels.
var ErrWatcherClosed = errors.New("fragment watcher closed")

// Watch drops cached fragments whose files are written, replaced or removed.
// It blocks until ctx is cancelled and then returns nil. Watcher errors are
// logged and do not stop the loop.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fragment watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}

	s.logger.InfoContext(ctx, "watching fragments", slog.String("dir", s.dir))

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "fragment watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}

			s.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}

			s.logger.WarnContext(ctx, "fragment watcher error", slog.String("error", err.Error()))
		}
	}
}

func (s *FileStore) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	slug, ok := slugFromPath(event.Name)
	if !ok {
		return
	}

	s.Invalidate(slug)
	s.logger.DebugContext(ctx, "fragment invalidated",
		slog.String("slug", slug),
		slog.String("op", event.Op.String()),
	)
}

package project

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/ketra/internal/env"
	"github.com/raphi011/ketra/internal/log"
)

// DefaultWatchDebounce is the quiet period after the last event before a re-scan.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watch calls onChange with a fast listing of native projects once at start
// and again whenever folders are created, removed or renamed under the
// native root. Bursts of events are coalesced. Blocks until ctx is done.
func (s *Service) Watch(ctx context.Context, onChange func([]Project)) error {
	root, err := s.res.Resolve(ctx, env.Native)
	if err != nil {
		return err
	}
	if err := s.res.For(env.Native).MkdirAll(ctx, root); err != nil {
		return fmt.Errorf("failed to create projects root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	debounce := s.opts.WatchDebounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	l := log.FromContext(ctx)
	onChange(s.DiscoverFast(ctx))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				l.Debug("projects root changed", "path", event.Name, "op", event.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Warn("watch error", "error", err)
		case <-timer.C:
			onChange(s.DiscoverFast(ctx))
		}
	}
}

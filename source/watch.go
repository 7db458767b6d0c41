package source

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/tangerg/pagestream/asyncstream"
	"github.com/tangerg/pagestream/pipeline"
)

// Watch returns a pipeline.MonitorFunc backed by fsnotify: it recursively
// watches root and emits one event per filesystem change observed beneath
// it (spec.md §6, §4.7 Monitor). The returned Monitor ends when ctx is
// cancelled.
func Watch(root string) pipeline.MonitorFunc {
	return func(ctx context.Context) (pipeline.Monitor, error) {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, err
		}
		if err := addWatches(watcher, root); err != nil {
			_ = watcher.Close()
			return nil, err
		}

		events := asyncstream.New[struct{}](16)
		go pump(ctx, watcher, events)
		return events, nil
	}
}

func addWatches(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// pump forwards fsnotify events onto events until the watcher errors out,
// ctx is cancelled, or events is closed by the consumer.
func pump(ctx context.Context, watcher *fsnotify.Watcher, events asyncstream.Stream[struct{}]) {
	defer watcher.Close()
	defer events.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
			if err := events.Write(ctx, struct{}{}); err != nil {
				return
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
			return
		}
	}
}

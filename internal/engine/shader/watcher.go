package shader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/logger"
)

// Watcher reloads templates from a directory whenever one of the template
// files changes. Reloaded templates are delivered on Reloads; the receiver
// applies them with Cache.SetTemplates on the render thread.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
	reloads chan Templates
}

// NewWatcher starts watching dir.
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &Watcher{
		dir:     dir,
		watcher: fw,
		reloads: make(chan Templates, 1),
	}, nil
}

// Reloads returns the channel of reloaded templates. Only the latest
// unconsumed reload is kept.
func (w *Watcher) Reloads() <-chan Templates {
	return w.reloads
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			t, err := LoadTemplates(w.dir)
			if err != nil {
				// Editors often write in several steps; the next event retries.
				logger.Warn("shader reload failed", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			logger.Info("shader templates reloaded", zap.String("file", event.Name))
			w.publish(t)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("shader watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == VertexFile || name == FragmentFile
}

func (w *Watcher) publish(t Templates) {
	select {
	case w.reloads <- t:
	default:
		// Drop the stale pending reload in favour of t.
		select {
		case <-w.reloads:
		default:
		}
		w.reloads <- t
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

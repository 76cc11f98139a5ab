package wildcards

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates the cache whenever a file under the root changes. It
// blocks until ctx is cancelled. Directories created while watching are added
// to the watch set.
func (m *Manager) Watch(ctx context.Context) error {
	if m.root == "" {
		return ErrNoRoot
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("wildcards: create watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	if err := m.watchTree(w, m.root); err != nil {
		return fmt.Errorf("wildcards: watch %s: %w", m.root, err)
	}
	m.logger.Debug("watching wildcards", slog.String("root", m.root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := m.watchTree(w, ev.Name); err != nil {
						m.logger.Warn("watch new directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
				}
			}
			m.Invalidate()
			m.logger.Debug("wildcards changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if m.onChange != nil {
				m.onChange(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("wildcard watcher error", slog.Any("error", err))
		}
	}
}

func (m *Manager) watchTree(w *fsnotify.Watcher, dir string) error {
	visited := map[string]bool{}
	var add func(string) error
	add = func(dir string) error {
		key := dir
		if real, err := filepath.EvalSymlinks(dir); err == nil {
			key = real
		}
		if visited[key] {
			return nil
		}
		visited[key] = true
		if err := w.Add(dir); err != nil {
			return err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			p := filepath.Join(dir, entry.Name())
			if fi, err := os.Stat(p); err == nil && fi.IsDir() {
				if err := add(p); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return add(dir)
}

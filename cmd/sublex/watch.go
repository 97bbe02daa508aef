package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ava12/sublex/printer"
)

// watch recognizes files again after each write until ctx is cancelled.
// Directories are watched instead of files since editors often replace files on save.
func (e *env) watch(ctx context.Context, w io.Writer, format printer.Func, names []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	files := make(map[string]string, len(names))
	dirs := make(map[string]bool)
	for _, name := range names {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		files[abs] = name
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err = watcher.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}

	e.logger.Info("watching", "files", len(files))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, found := files[filepath.Clean(event.Name)]
			if !found || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			e.logger.Debug("changed", "file", name, "op", event.Op.String())
			if _, err := e.recognizeFile(w, format, name); err != nil {
				e.logger.Error(err.Error())
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher failure", "error", err)
		}
	}
}

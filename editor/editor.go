// Package editor adapts a plain file into the editing surface the core
// consumes: current text plus a change notification. The user edits the
// file with whatever editor they like.
package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Editor watches one shader source file.
type Editor struct {
	path    string
	watcher *fsnotify.Watcher
	dirty   atomic.Bool
}

// Open starts watching path. The containing directory is watched rather
// than the file itself, since most editors replace files on save.
func Open(path string) (*Editor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("failed to open shader file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	e := &Editor{path: abs, watcher: watcher}
	go e.watch()
	return e, nil
}

// Path returns the watched file's absolute path.
func (e *Editor) Path() string { return e.path }

// Text reads the current contents of the file.
func (e *Editor) Text() (string, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", fmt.Errorf("failed to read shader file: %w", err)
	}
	return string(data), nil
}

// Changed reports whether the file changed since the last call, consuming
// the notification. It only flips a flag; the caller decides when to
// actually re-read and recompile, keeping all mutation on one thread.
func (e *Editor) Changed() bool {
	return e.dirty.Swap(false)
}

// watch runs on its own goroutine for the editor's lifetime.
func (e *Editor) watch() {
	base := filepath.Base(e.path)
	for {
		select {
		case ev, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				e.dirty.Store(true)
			}
		case _, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching.
func (e *Editor) Close() error {
	return e.watcher.Close()
}

package relation

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a YAML relation schema file whenever it changes on
// disk. It is a development-time convenience; production deployments
// normally declare relations in code or load the schema once at start.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	onLoad  func(Schema, error)

	mu     sync.Mutex
	schema Schema
	done   chan struct{}
}

// Watch parses the schema file at path and starts watching it for
// changes. onLoad, if non-nil, is invoked after every reload attempt
// with the parsed schema or the parse error.
func Watch(path string, onLoad func(Schema, error)) (*Watcher, error) {
	schema, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("relation: watch schema: %w", err)
	}
	// Watch the directory rather than the file: editors that replace
	// the file on save would otherwise drop the watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("relation: watch schema: %w", err)
	}
	w := &Watcher{
		path:    path,
		watcher: fw,
		onLoad:  onLoad,
		schema:  schema,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Schema returns the most recently loaded schema.
func (w *Watcher) Schema() Schema {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.schema
}

// Close stops watching the schema file.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) reload() {
	schema, err := ParseFile(w.path)
	if err == nil {
		w.mu.Lock()
		w.schema = schema
		w.mu.Unlock()
	}
	if w.onLoad != nil {
		w.onLoad(schema, err)
	}
}

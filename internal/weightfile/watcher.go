package weightfile

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// debounce is how long a file must be quiet before it is re-read.
const debounce = 100 * time.Millisecond

// Update is emitted each time the watched file settles after a change.
// Exactly one of Weights and Err is set.
type Update struct {
	Weights catalog.Weights
	Err     error
}

// Watcher monitors a single weight file using fsnotify. The parent
// directory is watched so editors that replace the file on save are seen.
type Watcher struct {
	Path    string
	Updates <-chan Update // Read-only external channel

	updates chan Update
	quit    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the weight file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan Update, 4)
	return &Watcher{
		Path:    abs,
		Updates: ch,
		updates: ch,
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher, waits for its goroutine and closes Updates.
func (w *Watcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done
	close(w.updates)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			weights, err := Load(w.Path)
			w.emit(Update{Weights: weights, Err: err})

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) emit(u Update) {
	select {
	case w.updates <- u:
	case <-w.quit:
	}
}

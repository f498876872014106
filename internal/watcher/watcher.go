package watcher

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by watcher operations.
var (
	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("watcher is closed")

	// ErrPathNotExist indicates the watched path does not exist.
	ErrPathNotExist = errors.New("path does not exist")
)

// Op describes what happened to a file.
type Op uint32

// Operations. Merged events carry several bits.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op includes other.
func (op Op) Has(other Op) bool {
	return op&other != 0
}

// String returns the operation names joined by "|".
func (op Op) String() string {
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	} {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Event is a (possibly merged) change to one file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the window in which events for a path are merged.
// Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithBufferSize sets the capacity of the event channel.
func WithBufferSize(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.bufSize = n
		}
	}
}

// Watcher watches files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	debounce time.Duration
	bufSize  int
	logger   *slog.Logger

	events chan Event
	errors chan error

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		bufSize:  64,
		logger:   slog.Default(),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "watcher")

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsw = fsw
	w.events = make(chan Event, w.bufSize)
	w.errors = make(chan error, w.bufSize)

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch starts watching the file at path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// IsWatching reports whether path is watched.
func (w *Watcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[abs]
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Events returns the channel of debounced events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

// processLoop merges fsnotify events per path and flushes them when the
// debounce timer fires.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	pending := make(map[string]Event)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		for _, p := range paths {
			w.send(pending[p])
			delete(pending, p)
		}
	}

	for {
		select {
		case <-w.closeCh:
			timer.Stop()
			return

		case fe, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			ev, keep := w.convert(fe)
			if !keep {
				continue
			}
			if w.debounce == 0 {
				w.send(ev)
				continue
			}
			if prev, ok := pending[ev.Path]; ok {
				ev.Op |= prev.Op
			}
			pending[ev.Path] = ev
			timer.Reset(w.debounce)

		case <-timer.C:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// convert maps an fsnotify event onto a watched file.
func (w *Watcher) convert(fe fsnotify.Event) (Event, bool) {
	abs, err := filepath.Abs(fe.Name)
	if err != nil {
		return Event{}, false
	}
	w.mu.RLock()
	watched := w.files[abs]
	w.mu.RUnlock()
	if !watched {
		return Event{}, false
	}

	var op Op
	if fe.Op.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fe.Op.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fe.Op.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fe.Op.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fe.Op.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	// Attribute-only changes do not alter content.
	if op == 0 || op == OpChmod {
		return Event{}, false
	}
	return Event{Path: abs, Op: op, Time: time.Now()}, true
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
	default:
		w.logger.Warn("event channel full, dropping event", "path", ev.Path)
	}
}

// Package watch reports changes to the local clinic database file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/clock"

	"github.com/clinicdesk/clinicdesk/internal/logger"
)

// DefaultCoalesce is how long a burst of writes is gathered into one Change.
const DefaultCoalesce = 250 * time.Millisecond

// Change is one coalesced burst of modifications.
type Change struct {
	// Path is the watched database file.
	Path string

	// Op is the last filesystem operation seen in the burst.
	Op string

	// Events is how many filesystem events were coalesced.
	Events int

	// At is when the burst was reported.
	At time.Time
}

// Watcher watches a SQLite file together with its -wal and -journal
// companions. The parent directory is watched so that files created
// after Watch starts are seen.
type Watcher struct {
	path     string
	dir      string
	names    map[string]bool
	coalesce time.Duration
	clock    clock.Clock
}

// New creates a watcher for the database at path.
func New(path string) *Watcher {
	base := filepath.Base(path)
	return &Watcher{
		path: path,
		dir:  filepath.Dir(path),
		names: map[string]bool{
			base:              true,
			base + "-wal":     true,
			base + "-journal": true,
		},
		coalesce: DefaultCoalesce,
		clock:    clock.WallClock,
	}
}

// WithCoalesce sets the coalescing window.
func (w *Watcher) WithCoalesce(d time.Duration) *Watcher {
	w.coalesce = d
	return w
}

// WithClock replaces the clock used for the coalescing window.
func (w *Watcher) WithClock(clk clock.Clock) *Watcher {
	w.clock = clk
	return w
}

// Path returns the watched database file.
func (w *Watcher) Path() string {
	return w.path
}

// Watch starts watching until ctx is done. The returned channel is
// closed when watching stops. While a Change is waiting to be received,
// later bursts are merged into it.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	logger.Debug("Watching %s", w.path)
	out := make(chan Change)
	go w.run(ctx, fw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)
	defer fw.Close()

	var (
		window  <-chan time.Time
		last    fsnotify.Event
		count   int
		pending *Change
		send    chan<- Change
	)

	for {
		var next Change
		if pending != nil {
			next = *pending
		}

		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			last = ev
			count++
			if window == nil {
				window = w.clock.After(w.coalesce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watch %s: %v", w.path, err)

		case <-window:
			window = nil
			pending = w.flush(pending, last, count)
			count = 0
			send = out

		case send <- next:
			logger.Debug("Database changed: %s (%d events)", next.Op, next.Events)
			pending = nil
			send = nil
		}
	}
}

// flush turns a finished burst into a Change, merging it into pending
// when the previous Change has not been received yet.
func (w *Watcher) flush(pending *Change, last fsnotify.Event, count int) *Change {
	if pending == nil {
		return &Change{Path: w.path, Op: last.Op.String(), Events: count, At: w.clock.Now()}
	}
	merged := *pending
	merged.Op = last.Op.String()
	merged.Events += count
	merged.At = w.clock.Now()
	return &merged
}

// relevant reports whether ev touches the database or its journals.
// Chmod alone never changes content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !w.names[filepath.Base(ev.Name)] {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

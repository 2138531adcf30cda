package license

import (
	"sync"
	"time"
)

// DefaultTickInterval matches the one-second countdown shown to guests.
const DefaultTickInterval = time.Second

// Source reports the inputs of Evaluate at the moment of the call.
type Source func() (licenseKey string, createdAt *time.Time)

// Watcher re-evaluates a tenant's trial on a ticker and publishes phase
// transitions on Changes. It must be stopped.
type Watcher struct {
	source   Source
	now      func() time.Time
	interval time.Duration

	mu      sync.RWMutex
	current State

	chMu     sync.Mutex
	closed   bool
	changes  chan State
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type WatcherOption func(*Watcher)

func WithClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// Watch evaluates once synchronously and starts ticking.
func Watch(source Source, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:   source,
		now:      time.Now,
		interval: DefaultTickInterval,
		changes:  make(chan State, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current = w.evaluate()
	go w.run()
	return w
}

func (w *Watcher) run() {
	defer close(w.done)
	defer w.closeChanges()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			w.Refresh()
		}
	}
}

// Refresh re-evaluates immediately and returns the fresh state.
func (w *Watcher) Refresh() State {
	next := w.evaluate()

	w.mu.Lock()
	changed := next.Phase != w.current.Phase
	w.current = next
	w.mu.Unlock()

	if changed {
		w.publish(next)
	}
	return next
}

// State returns the state as of the last tick or Refresh.
func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Changes delivers phase transitions; only the latest undelivered one is kept.
// Closed after Stop.
func (w *Watcher) Changes() <-chan State {
	return w.changes
}

// Stop ends the ticker goroutine and waits for it. Safe to call repeatedly.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Watcher) evaluate() State {
	key, createdAt := w.source()
	return Evaluate(key, createdAt, w.now())
}

func (w *Watcher) closeChanges() {
	w.chMu.Lock()
	defer w.chMu.Unlock()
	w.closed = true
	close(w.changes)
}

func (w *Watcher) publish(s State) {
	w.chMu.Lock()
	defer w.chMu.Unlock()
	if w.closed {
		return
	}
	// Replace a pending value rather than block the ticker.
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- s:
	default:
	}
}

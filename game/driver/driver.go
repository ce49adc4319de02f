package driver

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrAlreadyRunning = errors.New("driver already running")

// TickFunc advances one session by one tick. Returning true stops the loop.
type TickFunc func(ctx context.Context) (stop bool)

// Driver runs one ticker goroutine per session ID
type Driver struct {
	mu    sync.Mutex
	loops map[string]*loop
}

type loop struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a driver with no running loops
func New() *Driver {
	return &Driver{
		loops: make(map[string]*loop),
	}
}

// Start begins calling fn every period for id until fn asks to stop or the
// loop is stopped
func (d *Driver) Start(id string, period time.Duration, fn TickFunc) error {
	if period <= 0 {
		return errors.New("driver period must be positive")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.loops[id]; exists {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	d.loops[id] = l

	go d.run(ctx, id, l, period, fn)
	return nil
}

func (d *Driver) run(ctx context.Context, id string, l *loop, period time.Duration, fn TickFunc) {
	defer close(l.done)
	defer d.remove(id, l)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if fn(ctx) {
				return
			}
		}
	}
}

// remove drops the entry for id if it still belongs to l
func (d *Driver) remove(id string, l *loop) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loops[id] == l {
		delete(d.loops, id)
	}
	l.cancel()
}

// Stop ends the loop for id and waits for its goroutine to exit. It reports
// whether a loop was running. Stop must not be called from inside a TickFunc.
func (d *Driver) Stop(id string) bool {
	d.mu.Lock()
	l, exists := d.loops[id]
	d.mu.Unlock()

	if !exists {
		return false
	}

	l.cancel()
	<-l.done
	return true
}

// Running reports whether a loop is active for id
func (d *Driver) Running(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, exists := d.loops[id]
	return exists
}

// Count returns the number of active loops
func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.loops)
}

// StopAll stops every loop and waits for them to exit
func (d *Driver) StopAll() {
	d.mu.Lock()
	ids := make([]string, 0, len(d.loops))
	for id := range d.loops {
		ids = append(ids, id)
	}
	d.mu.Unlock()

	for _, id := range ids {
		d.Stop(id)
	}
}

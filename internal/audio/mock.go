package audio

import (
	"errors"
	"sync"
	"time"
)

// MockDevice implements Device without producing sound. Tests use it to
// observe what the playback worker wrote, to inject write failures, and to
// slow writes down so pause/stop signals land mid-session.
type MockDevice struct {
	mu      sync.Mutex
	started bool
	closed  bool
	writes  int
	samples int

	failOn  int // 1-based write index that fails; 0 means never
	delay   time.Duration
	onWrite func(write int)
}

// NewMockDevice returns a mock device that accepts writes instantly.
func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// SetWriteDelay makes every Write take at least d.
func (d *MockDevice) SetWriteDelay(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = dur
}

// SetFailOn makes the n-th Write (1-based) return an error.
func (d *MockDevice) SetFailOn(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failOn = n
}

// SetOnWrite registers a hook invoked after each successful write with the
// 1-based write count.
func (d *MockDevice) SetOnWrite(fn func(write int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onWrite = fn
}

func (d *MockDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("mock device is closed")
	}
	d.started = true
	return nil
}

func (d *MockDevice) Write(block []float32) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return errors.New("mock device is closed")
	}
	d.writes++
	n := d.writes
	fail := d.failOn != 0 && n == d.failOn
	if !fail {
		d.samples += len(block)
	}
	delay := d.delay
	hook := d.onWrite
	d.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return errors.New("simulated device write failure")
	}
	if hook != nil {
		hook(n)
	}
	return nil
}

func (d *MockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Started reports whether Start has been called.
func (d *MockDevice) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

// Closed reports whether Close has been called.
func (d *MockDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Writes returns the number of Write calls so far.
func (d *MockDevice) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Samples returns the total sample count accepted so far.
func (d *MockDevice) Samples() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.samples
}

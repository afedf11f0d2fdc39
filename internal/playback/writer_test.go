package playback

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/sentinel"
)

type writerFixture struct {
	w       *streamWriter
	dev     *audio.MockDevice
	markers *sentinel.Bridge
	stop    *atomic.Bool
	state   *atomic.Int32
}

func newWriterFixture(t *testing.T) *writerFixture {
	t.Helper()
	f := &writerFixture{
		dev:     audio.NewMockDevice(),
		markers: sentinel.NewBridge(t.TempDir()),
		stop:    &atomic.Bool{},
		state:   &atomic.Int32{},
	}
	f.w = &streamWriter{
		dev:      f.dev,
		markers:  f.markers,
		stop:     f.stop,
		poll:     2 * time.Millisecond,
		setState: func(s State) { f.state.Store(int32(s)) },
	}
	return f
}

func (f *writerFixture) currentState() State {
	return State(f.state.Load())
}

func TestDrainWritesBlocksWithPartialTail(t *testing.T) {
	f := newWriterFixture(t)

	f.w.drain(make([]float32, audio.BlockSize+100))

	if got := f.dev.Writes(); got != 2 {
		t.Errorf("device saw %d writes, want 2", got)
	}
	if got := f.dev.Samples(); got != audio.BlockSize+100 {
		t.Errorf("device received %d samples, want %d", got, audio.BlockSize+100)
	}
}

func TestDrainStopsBeforeFirstBlockOnStopFlag(t *testing.T) {
	f := newWriterFixture(t)
	f.stop.Store(true)

	f.w.drain(make([]float32, 4*audio.BlockSize))

	if got := f.dev.Writes(); got != 0 {
		t.Errorf("device saw %d writes, want 0", got)
	}
}

func TestDrainHonorsStopMarkerAtBlockBoundary(t *testing.T) {
	f := newWriterFixture(t)
	f.dev.SetOnWrite(func(n int) {
		if n == 2 {
			if err := f.markers.Set(sentinel.Stop); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}
	})

	f.w.drain(make([]float32, 10*audio.BlockSize))

	if got := f.dev.Writes(); got != 2 {
		t.Errorf("device saw %d writes, want 2", got)
	}
	if !f.stop.Load() {
		t.Error("stop flag not set after marker-driven stop")
	}
}

func TestDrainParksOnPauseMarkerAndResumes(t *testing.T) {
	f := newWriterFixture(t)
	f.dev.SetOnWrite(func(n int) {
		if n == 1 {
			if err := f.markers.Set(sentinel.Pause); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}
	})

	done := make(chan struct{})
	go func() {
		f.w.drain(make([]float32, 4*audio.BlockSize))
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for f.currentState() != StatePaused {
		if time.Now().After(deadline) {
			t.Fatal("writer never parked on pause marker")
		}
		time.Sleep(time.Millisecond)
	}
	if got := f.dev.Writes(); got != 1 {
		t.Errorf("device saw %d writes while paused, want 1", got)
	}

	f.markers.Clear(sentinel.Pause)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer did not finish after pause cleared")
	}
	if got := f.dev.Samples(); got != 4*audio.BlockSize {
		t.Errorf("device received %d samples, want %d", got, 4*audio.BlockSize)
	}
}

// A stop that lands while the writer is parked must end the session without
// any further writes, even when the pause marker disappears in the same
// moment.
func TestStopWhileParkedWritesNothingMore(t *testing.T) {
	f := newWriterFixture(t)
	f.dev.SetOnWrite(func(n int) {
		if n == 1 {
			if err := f.markers.Set(sentinel.Pause); err != nil {
				t.Errorf("Set failed: %v", err)
			}
		}
	})

	done := make(chan struct{})
	go func() {
		f.w.drain(make([]float32, 4*audio.BlockSize))
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for f.currentState() != StatePaused {
		if time.Now().After(deadline) {
			t.Fatal("writer never parked on pause marker")
		}
		time.Sleep(time.Millisecond)
	}

	// Simulate a stop-during-pause: raise stop, then lift the pause so the
	// parked loop wakes.
	if err := f.markers.Set(sentinel.Stop); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	f.markers.Clear(sentinel.Pause)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer did not exit after stop while parked")
	}
	if got := f.dev.Writes(); got != 1 {
		t.Errorf("device saw %d writes, want 1 (no audio after stop)", got)
	}
	if !f.stop.Load() {
		t.Error("stop flag not set")
	}
}

func TestDrainGivesUpWhenStartFails(t *testing.T) {
	f := newWriterFixture(t)
	if err := f.dev.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f.w.drain(make([]float32, 2*audio.BlockSize))

	if got := f.currentState(); got != StateIdle {
		t.Errorf("state = %s after failed start, want idle", got)
	}
	if got := f.dev.Writes(); got != 0 {
		t.Errorf("device saw %d writes after failed start, want 0", got)
	}
}

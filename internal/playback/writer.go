package playback

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/sentinel"
)

// streamWriter drains one sample buffer to the output device in fixed-size
// blocks, honoring pause and stop at every block boundary. Block size bounds
// the worst-case control latency to one block's playback duration.
type streamWriter struct {
	dev      audio.Device
	markers  *sentinel.Bridge
	stop     *atomic.Bool
	poll     time.Duration
	setState func(State)
}

// drain writes the buffer until it is exhausted or a stop arrives. Device
// failures end the session without propagating: no caller waits on this
// goroutine, so availability wins over surfacing the error.
func (w *streamWriter) drain(buf []float32) {
	if err := w.dev.Start(); err != nil {
		log.Warn("audio output start failed", "err", err)
		return
	}
	w.setState(StatePlaying)

	for idx := 0; idx < len(buf); {
		if w.stop.Load() || w.markers.Present(sentinel.Stop) {
			w.stop.Store(true)
			return
		}
		if w.markers.Present(sentinel.Pause) {
			if !w.waitWhilePaused() {
				return
			}
		}

		end := idx + audio.BlockSize
		if end > len(buf) {
			end = len(buf)
		}
		if err := w.dev.Write(buf[idx:end]); err != nil {
			log.Warn("audio write failed", "err", err)
			return
		}
		idx = end
	}
}

// waitWhilePaused parks until the pause marker clears, polling at the
// configured interval. It reports false when a stop arrived while parked.
// After waking it re-checks the stop marker once more: a stop that removed
// the pause marker can race with the waking poll, and resuming then would
// play a blip before the stop check at the next block boundary.
func (w *streamWriter) waitWhilePaused() bool {
	w.setState(StatePaused)

	for w.markers.Present(sentinel.Pause) && !w.stop.Load() {
		if w.markers.Present(sentinel.Stop) {
			w.stop.Store(true)
			return false
		}
		time.Sleep(w.poll)
	}
	if w.stop.Load() {
		return false
	}
	if w.markers.Present(sentinel.Stop) {
		w.stop.Store(true)
		return false
	}

	w.setState(StatePlaying)
	return true
}

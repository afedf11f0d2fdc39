// Package playback implements the playback control core: a state machine
// over a single active session, a block-wise writer that drains synthesized
// audio to the output device, and the signaling that lets pause/resume/stop
// interrupt an in-flight session from this process or any other.
package playback

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/sentinel"
	"github.com/knackwurst/kokorod/internal/synth"
	"github.com/knackwurst/kokorod/internal/voices"
)

// Very short buffers can wedge some audio backends, so anything under the
// threshold gets a filler suffix before synthesis.
const (
	ShortTextThreshold = 25
	ShortTextPad       = " ... ..."
)

// Config tunes the controller. Zero values fall back to defaults.
type Config struct {
	// PollInterval is how often a paused worker re-checks the markers.
	PollInterval time.Duration
	// JoinTimeout bounds how long Stop waits for the worker to exit.
	JoinTimeout time.Duration
	// DefaultVoice and DefaultSpeed fill in omitted request fields.
	DefaultVoice string
	DefaultSpeed float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		PollInterval: 100 * time.Millisecond,
		JoinTimeout:  3 * time.Second,
		DefaultVoice: voices.Default,
		DefaultSpeed: 1.0,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.JoinTimeout <= 0 {
		c.JoinTimeout = d.JoinTimeout
	}
	if c.DefaultVoice == "" {
		c.DefaultVoice = d.DefaultVoice
	}
	if c.DefaultSpeed <= 0 {
		c.DefaultSpeed = d.DefaultSpeed
	}
	return c
}

// session is one playback attempt: an immutable sample buffer owned by the
// worker, the in-process stop flag scoped to this session, and a channel
// closed once the worker has released the device.
type session struct {
	buf  []float32
	stop atomic.Bool
	done chan struct{}
}

// Controller owns the playback state machine and serializes session
// transitions. At most one session exists at a time; Speak stops and joins
// any active session before starting the next.
type Controller struct {
	mu      sync.Mutex // guards session transitions and the session handle
	state   atomic.Int32
	session *session

	gateway synth.Gateway
	open    audio.Opener
	markers *sentinel.Bridge
	cfg     Config
}

// NewController wires the controller to its collaborators.
func NewController(gateway synth.Gateway, open audio.Opener, markers *sentinel.Bridge, cfg Config) *Controller {
	return &Controller{
		gateway: gateway,
		open:    open,
		markers: markers,
		cfg:     cfg.withDefaults(),
	}
}

// SpeakResult summarizes a speak request that produced audio.
type SpeakResult struct {
	Words int
	Voice string
	Speed float64
}

// Summary renders the documented response string.
func (r SpeakResult) Summary() string {
	return fmt.Sprintf("Speaking %d words with voice %s at %sx speed.",
		r.Words, r.Voice, FormatSpeed(r.Speed))
}

// FormatSpeed renders a speed multiplier with at least one decimal, so the
// default reads "1.0" rather than "1".
func FormatSpeed(speed float64) string {
	s := strconv.FormatFloat(speed, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// PadText appends the filler suffix to inputs below the short-text
// threshold.
func PadText(text string) string {
	if len(text) < ShortTextThreshold {
		return text + ShortTextPad
	}
	return text
}

// Speak synthesizes text and starts an asynchronous playback session. Any
// active session is stopped and joined first, so the previous device is
// fully released before the new one opens. Synthesis runs on the caller's
// goroutine and is not interruptible; the playback that follows is.
// Returns ErrNoAudio when synthesis yields zero samples.
func (c *Controller) Speak(ctx context.Context, text, voice string, speed float64) (SpeakResult, error) {
	if voice == "" {
		voice = c.cfg.DefaultVoice
	}
	if speed == 0 {
		speed = c.cfg.DefaultSpeed
	}
	if speed < 0 {
		return SpeakResult{}, fmt.Errorf("speed must be positive, got %s", FormatSpeed(speed))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if State(c.state.Load()) != StateIdle {
		c.stopLocked()
	}

	text = PadText(text)
	words := len(strings.Fields(text))

	samples, err := c.gateway.Synthesize(ctx, text, voice, speed)
	if err != nil {
		return SpeakResult{}, fmt.Errorf("synthesis: %w", err)
	}
	if len(samples) == 0 {
		return SpeakResult{}, ErrNoAudio
	}

	s := &session{buf: samples, done: make(chan struct{})}
	c.session = s
	go c.run(s)

	return SpeakResult{Words: words, Voice: voice, Speed: speed}, nil
}

// Pause raises the external pause marker. The worker observes it at the next
// block boundary and moves the state to Paused itself, so callers must not
// assume the transition is immediate.
func (c *Controller) Pause() error {
	switch c.Status() {
	case StateIdle:
		return ErrNotPlaying
	case StatePaused:
		return ErrAlreadyPaused
	}
	return c.markers.Set(sentinel.Pause)
}

// Resume clears the pause marker; the parked worker wakes on its next poll
// and transitions back to Playing.
func (c *Controller) Resume() error {
	if c.Status() != StatePaused {
		return ErrNotPaused
	}
	c.markers.Clear(sentinel.Pause)
	return nil
}

// Stop ends the active session synchronously: it sets the session's stop
// flag, clears both markers so a parked worker wakes, and waits for the
// worker to release the device. Returns ErrNotPlaying when idle.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if State(c.state.Load()) == StateIdle {
		return ErrNotPlaying
	}
	c.stopLocked()
	return nil
}

// Status is a pure read of the current state.
func (c *Controller) Status() State {
	return State(c.state.Load())
}

// stopLocked performs stop-and-join. If the worker does not exit within the
// join timeout the state is forced to Idle anyway; the straggler still
// closes its own device before exiting, so nothing can write to a released
// handle. Callers must hold c.mu.
func (c *Controller) stopLocked() {
	s := c.session
	if s != nil {
		s.stop.Store(true)
	}
	// Clear both markers so a worker parked in the pause loop does not stay
	// stuck waiting for a resume that will never come.
	c.markers.ClearAll()

	if s != nil {
		select {
		case <-s.done:
		case <-time.After(c.cfg.JoinTimeout):
			log.Warn("playback worker did not exit in time", "timeout", c.cfg.JoinTimeout)
		}
	}
	c.session = nil
	c.state.Store(int32(StateIdle))
}

// run is the worker: it owns the session's device from open to close and is
// the only goroutine mutating state while the session lives. Device trouble
// is absorbed here; every exit path releases the device, forces Idle, and
// clears leftover markers.
func (c *Controller) run(s *session) {
	defer close(s.done)

	// A stop marker left behind by a crashed session must not kill this one.
	c.markers.Clear(sentinel.Stop)

	dev, err := c.open()
	if err != nil {
		log.Warn("could not open audio output", "err", err)
		c.state.Store(int32(StateIdle))
		c.markers.ClearAll()
		return
	}

	w := &streamWriter{
		dev:      dev,
		markers:  c.markers,
		stop:     &s.stop,
		poll:     c.cfg.PollInterval,
		setState: func(st State) { c.state.Store(int32(st)) },
	}
	w.drain(s.buf)

	if err := dev.Close(); err != nil {
		log.Debug("audio output close failed", "err", err)
	}
	c.state.Store(int32(StateIdle))
	c.markers.ClearAll()
}

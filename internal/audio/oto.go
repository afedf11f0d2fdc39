package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

var (
	otoCtx  *oto.Context
	otoOnce sync.Once
	otoErr  error
)

// otoContext returns the process-wide oto context. oto permits exactly one
// context per process, so it is created on first use and shared by every
// session thereafter.
func otoContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   50 * time.Millisecond,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("create audio context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
		log.Debug("audio context ready", "sample_rate", SampleRate, "channels", Channels)
	})
	return otoCtx, otoErr
}

// NewOtoDevice opens the default audio output for one playback session.
func NewOtoDevice() (Device, error) {
	ctx, err := otoContext()
	if err != nil {
		return nil, err
	}
	src := newBlockSource(2)
	return &otoDevice{
		player: ctx.NewPlayer(src),
		src:    src,
	}, nil
}

// otoDevice bridges the push-style Device contract onto oto's pull model: a
// small channel of encoded blocks backs the player's reader, and Write blocks
// once the channel is full. The channel capacity plus oto's own buffer bound
// how much audio can still come out after the caller stops writing.
type otoDevice struct {
	player *oto.Player
	src    *blockSource
}

func (d *otoDevice) Start() error {
	d.player.Play()
	return nil
}

func (d *otoDevice) Write(block []float32) error {
	return d.src.push(EncodeFloat32LE(block))
}

func (d *otoDevice) Close() error {
	d.src.close()
	// Let buffered audio finish rather than clipping the tail. The wait is
	// bounded so a wedged backend cannot hold the session open.
	deadline := time.Now().Add(300 * time.Millisecond)
	for d.player.BufferedSize() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if err := d.player.Close(); err != nil {
		return fmt.Errorf("close audio player: %w", err)
	}
	return nil
}

// errSourceClosed is returned by push after close; the session is over.
var errSourceClosed = errors.New("audio device is closed")

// blockSource feeds pushed blocks to oto's reader goroutine. push and close
// are only ever called from the playback worker; Read runs on oto's side and
// synchronizes through the channel.
type blockSource struct {
	ch     chan []byte
	rem    []byte
	closed bool
}

func newBlockSource(capacity int) *blockSource {
	return &blockSource{ch: make(chan []byte, capacity)}
}

func (s *blockSource) push(b []byte) error {
	if s.closed {
		return errSourceClosed
	}
	s.ch <- b
	return nil
}

func (s *blockSource) close() {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *blockSource) Read(p []byte) (int, error) {
	if len(s.rem) == 0 {
		b, ok := <-s.ch
		if !ok {
			return 0, io.EOF
		}
		s.rem = b
	}
	n := copy(p, s.rem)
	s.rem = s.rem[n:]
	return n, nil
}

// Package sentinel implements the cross-process playback signaling contract.
//
// Two marker files act as out-of-band boolean signals: presence means
// "requested", absence means "not requested". Any process with access to the
// marker directory can create or delete them to pause or stop playback
// without going through the MCP tool surface. The active playback worker
// polls them at block boundaries.
package sentinel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Marker file names. These are a public contract relied on by external
// tooling; do not rename them.
const (
	PauseMarkerName = "kokoro-tts-pause"
	StopMarkerName  = "kokoro-tts-stop"
)

// Marker identifies one of the two external signals.
type Marker int

const (
	// Pause requests that the active playback session park without losing
	// its position.
	Pause Marker = iota
	// Stop requests that the active playback session end.
	Stop
)

// String returns the signal name.
func (m Marker) String() string {
	switch m {
	case Pause:
		return "pause"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

func (m Marker) filename() string {
	if m == Stop {
		return StopMarkerName
	}
	return PauseMarkerName
}

// Bridge reads and writes the marker files in one directory. Multiple Bridge
// values pointed at the same directory observe each other's signals, which is
// exactly how a second process controls playback in the first.
type Bridge struct {
	dir string
}

// NewBridge returns a bridge over the given marker directory. An empty dir
// falls back to the system temp directory, matching the well-known
// /tmp/kokoro-tts-* paths external tools expect.
func NewBridge(dir string) *Bridge {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Bridge{dir: dir}
}

// Path returns the marker's filesystem path.
func (b *Bridge) Path(m Marker) string {
	return filepath.Join(b.dir, m.filename())
}

// Set raises the signal. Setting an already-set marker is a no-op.
func (b *Bridge) Set(m Marker) error {
	f, err := os.OpenFile(b.Path(m), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s marker: %w", m, err)
	}
	return f.Close()
}

// Clear lowers the signal. Absence is not an error: a marker may have been
// removed by another process between the check and the removal.
func (b *Bridge) Clear(m Marker) {
	if err := os.Remove(b.Path(m)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug("could not remove marker", "marker", m.String(), "err", err)
	}
}

// Present reports whether the signal is raised.
func (b *Bridge) Present(m Marker) bool {
	_, err := os.Stat(b.Path(m))
	return err == nil
}

// ClearAll lowers both signals. Used when a session ends so the next one
// does not inherit stale state.
func (b *Bridge) ClearAll() {
	b.Clear(Pause)
	b.Clear(Stop)
}

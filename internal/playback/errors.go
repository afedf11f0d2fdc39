package playback

import "errors"

// Sentinel errors for state-dependent no-ops. The tool surface maps these to
// the documented response strings; none of them indicate a fault.
var (
	ErrNotPlaying    = errors.New("no audio is currently playing")
	ErrAlreadyPaused = errors.New("audio is already paused")
	ErrNotPaused     = errors.New("audio is not paused")
	ErrNoAudio       = errors.New("no audio generated")
)

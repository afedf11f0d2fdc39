package playback

// State is the playback state visible through Status. Exactly one value
// holds at any instant; while a session lives, only its worker goroutine
// moves the state, and the controller forces the terminal Idle transition
// after a stop-and-join.
type State int32

const (
	// StateIdle means no session exists and the output device is released.
	StateIdle State = iota
	// StatePlaying means the worker is feeding blocks to an open device.
	StatePlaying
	// StatePaused means the worker is parked; nothing is being written.
	StatePaused
)

// String returns the state name as reported by the status tool.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

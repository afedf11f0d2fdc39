// Package audio owns the output device contract and its oto-backed
// implementation. Samples are mono float32 at SampleRate throughout the
// daemon; the device layer converts to the wire format the backend needs.
package audio

// Fixed output format. BlockSize is the unit of pause/stop granularity: at
// 24 kHz a 2048-sample block is ~85 ms, keeping worst-case control latency
// under 100 ms.
const (
	SampleRate = 24000
	Channels   = 1
	BlockSize  = 2048
)

// Device is one open handle to an audio output, scoped to a single playback
// session. Write blocks until the device has accepted the block, which paces
// the caller's drain loop. Implementations are not safe for concurrent use;
// the playback worker is the only goroutine that touches a device.
type Device interface {
	// Start begins consuming written blocks.
	Start() error

	// Write queues one block of mono float32 samples.
	Write(block []float32) error

	// Close drains what little is still buffered, then releases the output.
	Close() error
}

// Opener creates a Device for a new playback session.
type Opener func() (Device, error)

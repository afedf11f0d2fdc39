package synth

import (
	"context"
	"strings"
	"sync"
)

// Call records one Synthesize invocation on a MockEngine.
type Call struct {
	Text  string
	Voice string
	Speed float64
}

// MockEngine fabricates deterministic audio for tests: a fixed number of
// silent samples per whitespace-delimited word. SamplesPerWord of zero
// simulates a generation that yields nothing.
type MockEngine struct {
	SamplesPerWord int
	Err            error

	mu    sync.Mutex
	calls []Call
}

func (m *MockEngine) Synthesize(_ context.Context, text, voice string, speed float64) ([]float32, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Text: text, Voice: voice, Speed: speed})
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	words := len(strings.Fields(text))
	return make([]float32, words*m.SamplesPerWord), nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockEngine) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent invocation, if any.
func (m *MockEngine) LastCall() (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Call{}, false
	}
	return m.calls[len(m.calls)-1], true
}

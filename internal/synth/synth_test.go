package synth

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLangCode(t *testing.T) {
	tests := []struct {
		voice string
		want  string
	}{
		{"af_heart", "a"},
		{"am_adam", "a"},
		{"bf_emma", "b"},
		{"bm_george", "b"},
		{"jf_alpha", "j"},
		{"zf_xiaobei", "z"},
		{"xx_unknown", "a"},
		{"", "a"},
	}
	for _, tt := range tests {
		if got := LangCode(tt.voice); got != tt.want {
			t.Errorf("LangCode(%q) = %q, want %q", tt.voice, got, tt.want)
		}
	}
}

func TestMockEngineRecordsCallsAndScalesOutput(t *testing.T) {
	m := &MockEngine{SamplesPerWord: 100}

	samples, err := m.Synthesize(context.Background(), "one two three", "bf_lily", 1.5)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(samples) != 300 {
		t.Errorf("got %d samples, want 300", len(samples))
	}

	call, ok := m.LastCall()
	if !ok {
		t.Fatal("no call recorded")
	}
	if call.Text != "one two three" || call.Voice != "bf_lily" || call.Speed != 1.5 {
		t.Errorf("recorded call = %+v", call)
	}
	if got := len(m.Calls()); got != 1 {
		t.Errorf("Calls() has %d entries, want 1", got)
	}
}

func TestExecEngineMissingBinary(t *testing.T) {
	e := NewExecEngine("kokoro-definitely-not-installed", time.Second)

	_, err := e.Synthesize(context.Background(), "hello", "af_heart", 1.0)
	if err == nil {
		t.Fatal("expected error for missing synthesis command")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q does not mention the missing command", err)
	}

	// The lookup failure is latched; later calls fail the same way without
	// re-probing.
	if _, err2 := e.Synthesize(context.Background(), "again", "af_heart", 1.0); err2 == nil {
		t.Fatal("expected error on second call as well")
	}
}

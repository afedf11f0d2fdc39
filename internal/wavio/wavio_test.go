package wavio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestWriteWAVRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	samples := []float32{0, 0.5, -0.5, 1, -1, 2, -2} // last two exceed range and must clamp

	if err := WriteWAV(path, samples, 24000); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if buf.Format.NumChannels != 1 {
		t.Errorf("channels = %d, want 1", buf.Format.NumChannels)
	}
	if buf.Format.SampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", buf.Format.SampleRate)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(buf.Data), len(samples))
	}

	want := []int{0, 16383, -16383, 32767, -32767, 32767, -32767}
	for i, w := range want {
		if int(math.Abs(float64(buf.Data[i]-w))) > 1 {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], w)
		}
	}
}

func TestResolvePathCreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.wav")

	p, err := ResolvePath(path)
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if p != path {
		t.Errorf("resolved path = %q, want %q", p, path)
	}
	info, err := os.Stat(filepath.Dir(p))
	if err != nil || !info.IsDir() {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestSaveWritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.wav")

	out, err := Save(context.Background(), path, make([]float32, 2400), 24000, false)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if out != path {
		t.Errorf("Save returned %q, want %q", out, path)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"/tmp/out.wav", ".mp3", "/tmp/out.mp3"},
		{"/tmp/out", ".wav", "/tmp/out.wav"},
		{"/tmp/a.b/out.mp3", ".wav", "/tmp/a.b/out.wav"},
	}
	for _, tt := range tests {
		if got := replaceExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("replaceExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

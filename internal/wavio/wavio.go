// Package wavio writes synthesized audio to disk for the speak_and_save
// tool: WAV natively, MP3 by re-encoding with ffmpeg.
package wavio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	homedir "github.com/mitchellh/go-homedir"
)

const bitDepth = 16

// ResolvePath expands a leading ~ and creates the parent directory.
func ResolvePath(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return p, nil
}

// WriteWAV encodes samples as 16-bit mono PCM at the given rate.
func WriteWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		buf.Data[i] = int(s * 32767)
	}

	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wav file: %w", err)
	}

	if info, err := os.Stat(path); err == nil {
		log.Debug("wrote wav", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

// ConvertMP3 re-encodes a WAV file as mono 128k MP3 with ffmpeg.
func ConvertMP3(ctx context.Context, wavPath, mp3Path string) error {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("mp3 output requires ffmpeg: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffmpeg,
		"-y", "-i", wavPath,
		"-codec:a", "libmp3lame", "-b:a", "128k", "-ac", "1",
		mp3Path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(&stderr))
	}
	return nil
}

// Save writes samples to path. With mp3 set, the WAV is written next to the
// target first, converted, and then removed. Returns the final path.
func Save(ctx context.Context, path string, samples []float32, sampleRate int, mp3 bool) (string, error) {
	p, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	wavPath := p
	if mp3 {
		wavPath = replaceExt(p, ".wav")
	}
	if err := WriteWAV(wavPath, samples, sampleRate); err != nil {
		return "", err
	}
	if !mp3 {
		return wavPath, nil
	}

	mp3Path := replaceExt(p, ".mp3")
	if err := ConvertMP3(ctx, wavPath, mp3Path); err != nil {
		return "", err
	}
	if err := os.Remove(wavPath); err != nil {
		log.Debug("could not remove intermediate wav", "path", wavPath, "err", err)
	}
	return mp3Path, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func lastLine(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// Package mcpserver exposes playback control as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/playback"
	"github.com/knackwurst/kokorod/internal/synth"
	"github.com/knackwurst/kokorod/internal/voices"
	"github.com/knackwurst/kokorod/internal/wavio"
)

// DefaultSavePath is where speak_and_save writes when no path is given.
const DefaultSavePath = "/tmp/kokoro_output.wav"

// Service implements the tool semantics independent of the MCP transport,
// producing the exact response strings of the tool contract. State-dependent
// no-ops come back as messages, not errors; only genuine faults (synthesis
// or filesystem trouble) surface as errors.
type Service struct {
	ctl      *playback.Controller
	gateway  synth.Gateway
	savePath string
}

// NewService wires the tool surface to the controller and the synthesis
// gateway. The gateway is needed directly for speak_and_save, which never
// touches the playback session. An empty savePath falls back to
// DefaultSavePath.
func NewService(ctl *playback.Controller, gateway synth.Gateway, savePath string) *Service {
	if savePath == "" {
		savePath = DefaultSavePath
	}
	return &Service{ctl: ctl, gateway: gateway, savePath: savePath}
}

// Speak starts asynchronous playback and reports the summary.
func (s *Service) Speak(ctx context.Context, text, voice string, speed float64) (string, error) {
	res, err := s.ctl.Speak(ctx, text, voice, speed)
	if errors.Is(err, playback.ErrNoAudio) {
		return "No audio generated.", nil
	}
	if err != nil {
		return "", err
	}
	return res.Summary(), nil
}

// Pause requests a pause of the active session.
func (s *Service) Pause() (string, error) {
	switch err := s.ctl.Pause(); {
	case errors.Is(err, playback.ErrNotPlaying):
		return "No audio is currently playing.", nil
	case errors.Is(err, playback.ErrAlreadyPaused):
		return "Already paused.", nil
	case err != nil:
		return "", err
	}
	return "Paused.", nil
}

// Resume lifts a pause.
func (s *Service) Resume() (string, error) {
	if err := s.ctl.Resume(); errors.Is(err, playback.ErrNotPaused) {
		return "Audio is not paused.", nil
	} else if err != nil {
		return "", err
	}
	return "Resumed.", nil
}

// Stop ends the active session.
func (s *Service) Stop() (string, error) {
	if err := s.ctl.Stop(); errors.Is(err, playback.ErrNotPlaying) {
		return "No audio is currently playing.", nil
	} else if err != nil {
		return "", err
	}
	return "Stopped audio playback.", nil
}

// Status reports idle, playing, or paused.
func (s *Service) Status() string {
	return s.ctl.Status().String()
}

// SpeakAndSave synthesizes to a file instead of the output device. Blocks
// until the file is written.
func (s *Service) SpeakAndSave(ctx context.Context, text, path, voice string, speed float64, mp3 bool) (string, error) {
	if path == "" {
		path = s.savePath
	}
	if voice == "" {
		voice = voices.Default
	}
	if speed == 0 {
		speed = 1.0
	}

	text = playback.PadText(text)
	samples, err := s.gateway.Synthesize(ctx, text, voice, speed)
	if err != nil {
		return "", fmt.Errorf("synthesis: %w", err)
	}
	if len(samples) == 0 {
		return "No audio generated.", nil
	}

	out, err := wavio.Save(ctx, path, samples, audio.SampleRate, mp3)
	if err != nil {
		return "", err
	}
	return "Saved: " + out, nil
}

// ListVoices returns the fixed catalog grouped by accent and gender.
func (s *Service) ListVoices() map[string][]string {
	return voices.Grouped()
}

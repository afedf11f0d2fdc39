// Package config carries the runtime configuration for kokorod.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the daemon's runtime configuration. Defaults come from the
// struct tags; the config file and KOKORO_* environment variables override
// them.
type Config struct {
	// MarkerDir holds the pause/stop marker files. Empty means the system
	// temp directory, which yields the well-known /tmp/kokoro-tts-* paths.
	MarkerDir string `yaml:"marker_dir" env:"KOKORO_MARKER_DIR"`

	// Command is the synthesis backend invoked per generation.
	Command string `yaml:"command" env:"KOKORO_TTS_COMMAND" envDefault:"kokoro-tts"`

	// PollInterval is how often a paused playback worker re-checks the
	// markers.
	PollInterval time.Duration `yaml:"poll_interval" env:"KOKORO_POLL_INTERVAL" envDefault:"100ms"`

	// StopTimeout bounds how long stop waits for the worker to exit.
	StopTimeout time.Duration `yaml:"stop_timeout" env:"KOKORO_STOP_TIMEOUT" envDefault:"3s"`

	// SynthTimeout bounds a single synthesis run. Zero disables it.
	SynthTimeout time.Duration `yaml:"synth_timeout" env:"KOKORO_SYNTH_TIMEOUT" envDefault:"60s"`

	// Voice and Speed fill in omitted request fields.
	Voice string  `yaml:"voice" env:"KOKORO_VOICE" envDefault:"af_heart"`
	Speed float64 `yaml:"speed" env:"KOKORO_SPEED" envDefault:"1.0"`

	// SavePath is where speak_and_save writes when no path is given.
	SavePath string `yaml:"save_path" env:"KOKORO_SAVE_PATH" envDefault:"/tmp/kokoro_output.wav"`
}

// Load parses the environment over the built-in defaults.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}

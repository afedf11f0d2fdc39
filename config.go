package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/knackwurst/kokorod/internal/config"
)

const defaultConfig = `# directory for the pause/stop marker files (default: system temp dir)
# marker_dir: "/tmp"

# synthesis backend command; must accept text on stdin and write raw
# float32 PCM on stdout
command: "kokoro-tts"

# how often a paused playback worker re-checks the markers
poll_interval: "100ms"
# how long stop waits for the playback worker to exit
stop_timeout: "3s"
# per-request synthesis deadline ("0s" disables it)
synth_timeout: "60s"

# defaults for requests that omit them
voice: "af_heart"
speed: 1.0

# default output for speak_and_save
save_path: "/tmp/kokoro_output.wav"
`

// loadConfig layers the sources: built-in defaults, then the config file,
// then KOKORO_* environment variables (parsed by internal/config).
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}
	if viper.IsSet("marker_dir") {
		cfg.MarkerDir = viper.GetString("marker_dir")
	}
	if viper.IsSet("command") {
		cfg.Command = viper.GetString("command")
	}
	if viper.IsSet("poll_interval") {
		cfg.PollInterval = viper.GetDuration("poll_interval")
	}
	if viper.IsSet("stop_timeout") {
		cfg.StopTimeout = viper.GetDuration("stop_timeout")
	}
	if viper.IsSet("synth_timeout") {
		cfg.SynthTimeout = viper.GetDuration("synth_timeout")
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("speed") {
		cfg.Speed = viper.GetFloat64("speed")
	}
	if viper.IsSet("save_path") {
		cfg.SavePath = viper.GetString("save_path")
	}
	return cfg, nil
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "kokorod")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "kokorod")}, dirs...)
	}

	if c := os.Getenv("KOKORO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("kokorod")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("kokoro")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "kokorod.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable to create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

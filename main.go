// Package main provides the entry point for the kokorod daemon.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/config"
	"github.com/knackwurst/kokorod/internal/mcpserver"
	"github.com/knackwurst/kokorod/internal/playback"
	"github.com/knackwurst/kokorod/internal/sentinel"
	"github.com/knackwurst/kokorod/internal/synth"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "kokorod",
		Short: "Kokoro text-to-speech over MCP, with pausable local playback",
		Long: "\nServe the Kokoro TTS tools (speak, pause, resume, stop, status, " +
			"speak_and_save, list_voices) over MCP on stdio. Playback can also be " +
			"paused or stopped from any other process through the marker files.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runServe,
	}
)

func runServe(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine := synth.NewExecEngine(cfg.Command, cfg.SynthTimeout)
	bridge := sentinel.NewBridge(cfg.MarkerDir)
	ctl := playback.NewController(engine, audio.NewOtoDevice, bridge, playback.Config{
		PollInterval: cfg.PollInterval,
		JoinTimeout:  cfg.StopTimeout,
		DefaultVoice: cfg.Voice,
		DefaultSpeed: cfg.Speed,
	})
	svc := mcpserver.NewService(ctl, engine, cfg.SavePath)

	log.Info("serving MCP on stdio",
		"pause_marker", bridge.Path(sentinel.Pause),
		"stop_marker", bridge.Path(sentinel.Stop))
	if err := mcpserver.Serve(svc, Version); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// newController builds the playback stack the subcommands share with the
// MCP server path.
func newController(cfg config.Config) (*playback.Controller, *synth.ExecEngine, *sentinel.Bridge) {
	engine := synth.NewExecEngine(cfg.Command, cfg.SynthTimeout)
	bridge := sentinel.NewBridge(cfg.MarkerDir)
	ctl := playback.NewController(engine, audio.NewOtoDevice, bridge, playback.Config{
		PollInterval: cfg.PollInterval,
		JoinTimeout:  cfg.StopTimeout,
		DefaultVoice: cfg.Voice,
		DefaultSpeed: cfg.Speed,
	})
	return ctl, engine, bridge
}

// setupLog routes logs to stderr, or to KOKORO_LOGFILE when set. Stdout is
// off limits: it carries the MCP JSON-RPC transport.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	if debug || viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	if path := os.Getenv("KOKORO_LOGFILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error setting up log file: %w", err)
		}
		log.SetOutput(f)
		return f.Close, nil
	}
	return func() error { return nil }, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(speakCmd, saveCmd, voicesCmd, pauseCmd, resumeCmd, stopCmd, manCmd)
}

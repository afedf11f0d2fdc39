package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/knackwurst/kokorod/internal/audio"
	"github.com/knackwurst/kokorod/internal/playback"
	"github.com/knackwurst/kokorod/internal/sentinel"
	"github.com/knackwurst/kokorod/internal/voices"
	"github.com/knackwurst/kokorod/internal/wavio"
)

var (
	speakVoice string
	speakSpeed float64
	saveOutput string
	saveMP3    bool

	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	voiceStyle = lipgloss.NewStyle().PaddingLeft(2)
	noteStyle  = lipgloss.NewStyle().Faint(true)
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize text and play it through the local audio output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctl, _, _ := newController(cfg)

		res, err := ctl.Speak(cmd.Context(), args[0], speakVoice, speakSpeed)
		if errors.Is(err, playback.ErrNoAudio) {
			fmt.Println("No audio generated.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(res.Summary())

		// Unlike the MCP tool, the CLI blocks until playback finishes so
		// the process does not exit mid-sentence.
		for ctl.Status() != playback.StateIdle {
			time.Sleep(cfg.PollInterval)
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save [text]",
	Short: "Synthesize text and write it to a WAV or MP3 file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, engine, _ := newController(cfg)

		voice := speakVoice
		if voice == "" {
			voice = cfg.Voice
		}
		speed := speakSpeed
		if speed == 0 {
			speed = cfg.Speed
		}
		output := saveOutput
		if output == "" {
			output = cfg.SavePath
		}

		text := playback.PadText(args[0])
		samples, err := engine.Synthesize(cmd.Context(), text, voice, speed)
		if err != nil {
			return fmt.Errorf("synthesis: %w", err)
		}
		if len(samples) == 0 {
			fmt.Println("No audio generated.")
			return nil
		}

		out, err := wavio.Save(cmd.Context(), output, samples, audio.SampleRate, saveMP3)
		if err != nil {
			return err
		}
		fmt.Println("Saved:", out)
		return nil
	},
}

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available voices, grouped by accent and gender",
	Args:  cobra.NoArgs,
	Run: func(*cobra.Command, []string) {
		for _, g := range voices.Catalog() {
			fmt.Println(groupStyle.Render(g.Name))
			for _, v := range g.Voices {
				line := v
				if v == voices.Default {
					line += noteStyle.Render(" (default)")
				}
				fmt.Println(voiceStyle.Render(line))
			}
			fmt.Println()
		}
	},
}

// pause/resume/stop act purely through the marker files, so they control a
// kokorod serving MCP in another process. That filesystem contract is the
// whole protocol; no IPC connection to the daemon is needed.
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback in a running kokorod",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := sentinel.NewBridge(cfg.MarkerDir).Set(sentinel.Pause); err != nil {
			return err
		}
		fmt.Println("Paused.")
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume paused playback in a running kokorod",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sentinel.NewBridge(cfg.MarkerDir).Clear(sentinel.Pause)
		fmt.Println("Resumed.")
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback in a running kokorod",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := sentinel.NewBridge(cfg.MarkerDir).Set(sentinel.Stop); err != nil {
			return err
		}
		fmt.Println("Stopped audio playback.")
		return nil
	},
}

func init() {
	speakCmd.Flags().StringVar(&speakVoice, "voice", "", "voice name (default af_heart)")
	speakCmd.Flags().Float64Var(&speakSpeed, "speed", 0, "speed multiplier (default 1.0)")
	saveCmd.Flags().StringVar(&speakVoice, "voice", "", "voice name (default af_heart)")
	saveCmd.Flags().Float64Var(&speakSpeed, "speed", 0, "speed multiplier (default 1.0)")
	saveCmd.Flags().StringVarP(&saveOutput, "output", "o", "", "output path (default /tmp/kokoro_output.wav)")
	saveCmd.Flags().BoolVar(&saveMP3, "mp3", false, "save as MP3 (requires ffmpeg)")
}

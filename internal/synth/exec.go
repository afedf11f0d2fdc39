package synth

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knackwurst/kokorod/internal/audio"
)

// ExecEngine synthesizes by running a Kokoro command that reads text on
// stdin and writes raw float32 LE PCM on stdout. The backend keeps the model
// resident between invocations; the engine's own lazy step is resolving the
// binary once, so a misconfigured install fails on first use instead of at
// startup.
type ExecEngine struct {
	command string
	timeout time.Duration

	once    sync.Once
	path    string
	initErr error
}

// NewExecEngine returns an engine for the given command. A zero timeout
// disables the per-request deadline.
func NewExecEngine(command string, timeout time.Duration) *ExecEngine {
	return &ExecEngine{command: command, timeout: timeout}
}

func (e *ExecEngine) ensureReady() error {
	e.once.Do(func() {
		path, err := exec.LookPath(e.command)
		if err != nil {
			e.initErr = fmt.Errorf("synthesis command %q not found: %w", e.command, err)
			return
		}
		e.path = path
		log.Debug("synthesis backend resolved", "path", path)
	})
	return e.initErr
}

// Synthesize runs one generation. The subprocess inherits the request
// context, so a canceled caller kills the generation.
func (e *ExecEngine) Synthesize(ctx context.Context, text, voice string, speed float64) ([]float32, error) {
	if err := e.ensureReady(); err != nil {
		return nil, err
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := []string{
		"--voice", voice,
		"--speed", strconv.FormatFloat(speed, 'f', -1, 64),
		"--lang", LangCode(voice),
		"--rate", strconv.Itoa(audio.SampleRate),
		"--output-raw",
	}
	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("synthesis failed: %w: %s", err, lastLine(&stderr))
	}

	samples, err := audio.DecodeFloat32LE(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("synthesis output: %w", err)
	}
	log.Debug("synthesis complete",
		"voice", voice,
		"speed", speed,
		"samples", len(samples),
		"took", time.Since(start))
	return samples, nil
}

func lastLine(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

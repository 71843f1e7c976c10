package burn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"captionburn/internal/config"
	"captionburn/internal/deps"
	"captionburn/internal/fileutil"
	"captionburn/internal/logging"
)

// commandRunner executes a command and returns its combined output. A
// non-nil error means the command did not exit successfully.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Request describes one burn.
type Request struct {
	VideoPath    string
	SubtitlePath string
	OutputPath   string
}

// Result reports the outcome of a burn.
type Result struct {
	OutputPath string
	Elapsed    time.Duration
}

// Burner burns SRT subtitles into video using ffmpeg.
type Burner struct {
	logger     *slog.Logger
	binary     string
	audioCodec string
	extraArgs  []string
	run        commandRunner
}

// NewBurner constructs a burner from configuration.
func NewBurner(cfg *config.Config, logger *slog.Logger) *Burner {
	b := &Burner{
		logger:     logging.NewComponentLogger(logger, "burner"),
		binary:     "ffmpeg",
		audioCodec: "copy",
		run:        defaultCommandRunner,
	}
	if cfg != nil {
		b.binary = deps.ResolveTool(cfg.FFmpegBinary(), "ffmpeg")
		if codec := strings.TrimSpace(cfg.FFmpeg.AudioCodec); codec != "" {
			b.audioCodec = codec
		}
		b.extraArgs = append([]string(nil), cfg.FFmpeg.ExtraArgs...)
	}
	return b
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (b *Burner) WithCommandRunner(r commandRunner) {
	if b != nil && r != nil {
		b.run = r
	}
}

// Burn renders req.SubtitlePath onto the video stream of req.VideoPath and
// writes req.OutputPath. The destination is only replaced when ffmpeg exits
// successfully.
func (b *Burner) Burn(ctx context.Context, req Request) (Result, error) {
	if b == nil {
		return Result{}, fmt.Errorf("burner not initialized")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return Result{}, fmt.Errorf("output path is required")
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return Result{}, fmt.Errorf("%w: source video %q: %v", ErrMissingFile, req.VideoPath, err)
	}
	if _, err := os.Stat(req.SubtitlePath); err != nil {
		return Result{}, fmt.Errorf("%w: subtitle file %q: %v", ErrMissingFile, req.SubtitlePath, err)
	}

	logger := logging.WithContext(ctx, b.logger)

	lockPath := fileutil.LockPath(req.OutputPath)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return Result{}, fmt.Errorf("%w: %s", ErrOutputBusy, req.OutputPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.Error(err), logging.String("lock", lockPath))
		}
		_ = fileutil.RemoveIfExists(lockPath)
	}()

	tmpPath := fileutil.TempSibling(req.OutputPath, "burn")
	if err := fileutil.RemoveIfExists(tmpPath); err != nil {
		return Result{}, fmt.Errorf("remove stale temp output: %w", err)
	}

	args := b.buildArgs(req, tmpPath)
	logger.Debug("executing ffmpeg",
		logging.String("binary", b.binary),
		logging.String("args", strings.Join(args, " ")),
	)

	started := time.Now()
	output, err := b.run(ctx, b.binary, args...)
	if err != nil {
		_ = fileutil.RemoveIfExists(tmpPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("ffmpeg interrupted: %w", ctxErr)
		}
		return Result{}, newToolError("ffmpeg", output, err)
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return Result{}, &ToolError{Tool: "ffmpeg", ExitCode: 0, Output: "no output file produced", Err: err}
	}
	if err := os.Rename(tmpPath, req.OutputPath); err != nil {
		_ = fileutil.RemoveIfExists(tmpPath)
		return Result{}, fmt.Errorf("move output into place: %w", err)
	}

	elapsed := time.Since(started)
	logger.Info("subtitles burned into video",
		logging.Event("burn_complete"),
		logging.String("output", req.OutputPath),
		logging.Duration("elapsed", elapsed.Round(time.Millisecond)),
	)
	return Result{OutputPath: req.OutputPath, Elapsed: elapsed}, nil
}

// buildArgs constructs the ffmpeg command line. Video is re-encoded with the
// subtitles filter; audio uses the configured codec, "copy" by default.
func (b *Burner) buildArgs(req Request, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", req.VideoPath,
		"-vf", "subtitles=" + escapeFilterPath(req.SubtitlePath),
		"-c:a", b.audioCodec,
	}
	args = append(args, b.extraArgs...)
	return append(args, outputPath)
}

var (
	optionValueEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	filtergraphEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// escapeFilterPath applies both levels of ffmpeg escaping: the filter option
// value first, then the filtergraph description.
func escapeFilterPath(path string) string {
	return filtergraphEscaper.Replace(optionValueEscaper.Replace(path))
}

func newToolError(tool string, output []byte, err error) *ToolError {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &ToolError{
		Tool:     tool,
		ExitCode: exitCode,
		Output:   tail(string(output), diagnosticLines),
		Err:      err,
	}
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

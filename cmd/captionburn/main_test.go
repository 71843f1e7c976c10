package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"captionburn/internal/burn"
	"captionburn/internal/captions"
	"captionburn/internal/preflight"
	"captionburn/internal/services"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"generic", errors.New("boom"), exitFailure},
		{"malformed", fmt.Errorf("convert: %w", captions.ErrMalformedInput), exitMalformedInput},
		{"missing file", services.Wrap(nil, "preflight", "", "", fmt.Errorf("%w: Source video", preflight.ErrMissingFile)), exitMissingFile},
		{"output exists", fmt.Errorf("%w: out.mp4", preflight.ErrOutputExists), exitMissingFile},
		{"output busy", fmt.Errorf("%w: out.mp4", burn.ErrOutputBusy), exitMissingFile},
		{"tool failure", &burn.ToolError{Tool: "ffmpeg", ExitCode: 1}, exitExternalTool},
		{"dependency missing", fmt.Errorf("%w: FFmpeg", preflight.ErrDependencyMissing), exitExternalTool},
		{"interrupted", fmt.Errorf("ffmpeg interrupted: %w", context.Canceled), exitInterrupted},
		{"validation", fmt.Errorf("%w: empty_subtitle_file", errValidationFailed), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRootHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	for _, name := range []string{"burn", "convert", "deps", "config"} {
		requireContains(t, out, name)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Captions.GapMs = -5
	env.saveConfig(t)
	if _, _, err := runCLI(t, []string{"deps"}, env.configPath); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"captionburn/internal/config"
	"captionburn/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	binDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CAPTIONBURN_FFMPEG", "")
	t.Setenv("CAPTIONBURN_FFPROBE", "")
	t.Chdir(base)

	opts = append([]testsupport.ConfigOption{
		testsupport.WithStubbedBinaries(nil),
		testsupport.WithLogLevel("error"),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	env := &cliTestEnv{
		cfg:        cfg,
		baseDir:    base,
		binDir:     testsupport.BinDir(cfg),
		configPath: filepath.Join(base, "config.toml"),
	}
	env.saveConfig(t)
	return env
}

func (e *cliTestEnv) saveConfig(t *testing.T) {
	t.Helper()
	testsupport.WriteConfig(t, e.cfg, e.configPath)
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.baseDir, name)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, nil)
}

func runCLIWithInput(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

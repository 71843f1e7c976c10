package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"captionburn/internal/config"
)

// StubFFprobe reports one video and one audio stream lasting a minute.
const StubFFprobe = `#!/bin/sh
cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"60.000000"}}
JSON
`

// StubFFmpeg records its arguments next to itself and writes a fixed payload
// to its last argument, the output path.
const StubFFmpeg = `#!/bin/sh
echo "$@" > "$(dirname "$0")/ffmpeg.args"
for last; do :; done
printf 'burned' > "$last"
`

// FailingFFmpeg prints a diagnostic and exits non-zero.
const FailingFFmpeg = `#!/bin/sh
echo "Error opening input files: Invalid data found when processing input" >&2
exit 1
`

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config rooted in a per-test temp directory and
// applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries writes stub ffmpeg and ffprobe scripts and points the
// config at them. scripts overrides the content per binary name.
func WithStubbedBinaries(scripts map[string]string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		contents := map[string]string{"ffmpeg": StubFFmpeg, "ffprobe": StubFFprobe}
		for name, script := range scripts {
			contents[name] = script
		}
		for name, script := range contents {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.cfg.FFmpeg.Binary = filepath.Join(binDir, "ffmpeg")
		b.cfg.FFmpeg.FFprobeBinary = filepath.Join(binDir, "ffprobe")
	}
}

// WithLogLevel sets the configured log level.
func WithLogLevel(level string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Level = level
	}
}

// BinDir returns the directory holding the stubbed binaries.
func BinDir(cfg *config.Config) string {
	return filepath.Dir(cfg.FFmpeg.Binary)
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, cfg *config.Config, path string) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	WriteFile(t, path, string(data))
}

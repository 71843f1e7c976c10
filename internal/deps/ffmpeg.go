package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Requirements returns the binaries a burn needs. ffprobe is optional unless
// source probing is enabled.
func Requirements(ffmpegBinary, ffprobeBinary string, probeSource bool) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ResolveTool(ffmpegBinary, "ffmpeg"),
			Description: "Required to burn subtitles into video",
		},
		{
			Name:        "FFprobe",
			Command:     ResolveTool(ffprobeBinary, "ffprobe"),
			Description: "Used to inspect the source before burning",
			Optional:    !probeSource,
		},
	}
}

// ResolveTool returns the configured command, falling back to the default
// name. A configured directory is treated as the location of the default
// binary, which matches how static ffmpeg builds are usually unpacked.
func ResolveTool(configured, fallback string) string {
	configured = strings.TrimSpace(configured)
	if configured == "" {
		return fallback
	}
	info, err := os.Stat(configured)
	if err == nil && info.IsDir() {
		return filepath.Join(configured, executableName(fallback))
	}
	return configured
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

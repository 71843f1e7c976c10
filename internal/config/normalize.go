package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeFFmpeg()
	c.normalizeLogging()
	if err := c.normalizeLogFile(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv("CAPTIONBURN_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv("CAPTIONBURN_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.AudioCodec = strings.TrimSpace(c.FFmpeg.AudioCodec)
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = defaultAudioCodec
	}
	extra := c.FFmpeg.ExtraArgs[:0]
	for _, arg := range c.FFmpeg.ExtraArgs {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			extra = append(extra, trimmed)
		}
	}
	c.FFmpeg.ExtraArgs = extra
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	if level == "warning" {
		level = "warn"
	}
	c.Logging.Level = level
}

func (c *Config) normalizeLogFile() error {
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
	if err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	c.Logging.File = expanded
	return nil
}

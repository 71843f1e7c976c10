package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if c.Captions.DefaultDurationMs <= 0 {
		return errors.New("captions.default_duration_ms must be positive")
	}
	if c.Captions.GapMs <= 0 {
		return errors.New("captions.gap_ms must be positive")
	}
	if c.Captions.GapMs >= c.Captions.DefaultDurationMs {
		return fmt.Errorf("captions.gap_ms (%d) must be smaller than captions.default_duration_ms (%d)", c.Captions.GapMs, c.Captions.DefaultDurationMs)
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	for _, arg := range c.FFmpeg.ExtraArgs {
		switch arg {
		case "-i", "-vf", "-filter:v", "-filter_complex", "-c:a", "-acodec":
			return fmt.Errorf("ffmpeg.extra_args must not override %s; it is managed by captionburn", arg)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"captionburn/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the captionburn configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configInitTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("check config path: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			r := newReport(cmd)
			r.line("Config", outcomeOK, "Wrote sample configuration to "+target)
			r.line("Next", outcomeInfo, "set [ffmpeg] binary if ffmpeg is not on PATH, then run captionburn deps")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func configInitTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and print the effective burn settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			r := newReport(cmd)
			r.heading("Configuration")
			if ctx.configPath != "" {
				fmt.Fprintf(r.out, "Config path: %s\n", ctx.configPath)
			}
			if !ctx.configExists {
				r.line("Config", outcomeWarn, "file not found; defaults were used")
			}
			r.table([]string{"Setting", "Value"}, effectiveSettings(cfg))
			r.line("Config", outcomeOK, "Configuration valid")
			return nil
		},
	}
}

// effectiveSettings lists the values a burn would run with after defaults
// and overrides are applied.
func effectiveSettings(cfg *config.Config) [][]string {
	extra := "(none)"
	if len(cfg.FFmpeg.ExtraArgs) > 0 {
		extra = strings.Join(cfg.FFmpeg.ExtraArgs, " ")
	}
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "(stderr only)"
	}
	return [][]string{
		{"captions.default_duration_ms", strconv.FormatInt(cfg.Captions.DefaultDurationMs, 10)},
		{"captions.gap_ms", strconv.FormatInt(cfg.Captions.GapMs, 10)},
		{"ffmpeg.binary", cfg.FFmpegBinary()},
		{"ffmpeg.ffprobe_binary", cfg.FFprobeBinary()},
		{"ffmpeg.audio_codec", cfg.FFmpeg.AudioCodec},
		{"ffmpeg.extra_args", extra},
		{"ffmpeg.probe_source", yesNo(cfg.FFmpeg.ProbeSource)},
		{"output.keep_srt", yesNo(cfg.Output.KeepSRT)},
		{"output.validate_srt", yesNo(cfg.Output.ValidateSRT)},
		{"output.overwrite", yesNo(cfg.Output.Overwrite)},
		{"logging.level", cfg.Logging.Level},
		{"logging.file", logFile},
	}
}

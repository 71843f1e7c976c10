package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"captionburn/internal/captions"
	"captionburn/internal/config"
	"captionburn/internal/fileutil"
	"captionburn/internal/logging"
	"captionburn/internal/preflight"
)

var errValidationFailed = errors.New("subtitle validation failed")

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var captionsPath string
	var outputPath string
	var check bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert json3 captions to SRT without burning",
		Long: "Convert json3 captions to SRT. The SRT goes to stdout unless --output is set.\n" +
			"Use --json - to read captions from stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "convert")

			source := strings.TrimSpace(captionsPath)
			target := strings.TrimSpace(outputPath)
			if target == "-" {
				target = ""
			}
			if target != "" {
				target = absPath(target)
			}
			if source != "-" {
				source = absPath(source)
				if err := preflight.FirstFailure(preflight.CheckConvert(source, target)); err != nil {
					return err
				}
			}

			opts := captionOptions(cfg)
			var result captions.Result
			switch {
			case target != "" && source != "-":
				result, err = captions.ConvertFile(source, target, opts)
			case target != "":
				result, err = convertStream(cmd.InOrStdin(), target, opts)
			default:
				result, err = convertToStdout(cmd, source, opts)
			}
			if err != nil {
				return fmt.Errorf("convert %s: %w", displayName(source), err)
			}

			logger.Info("captions converted",
				logging.Event("convert_complete"),
				logging.String("input", displayName(source)),
				logging.String("output", displayName(target)),
				logging.Int("raw_events", result.RawEvents),
				logging.Int("retained", result.Retained),
				logging.Int("cues", result.CueCount()),
				logging.Int("dropped", result.Dropped),
			)

			if !check {
				return nil
			}
			issues := captions.ValidateSRT(result.Cues, 0)
			for _, issue := range issues {
				logging.WarnWithContext(logger, "subtitle validation issue", "srt_validation",
					logging.String("issue", issue),
					logging.Hint("inspect the caption JSON events around the reported cue"),
				)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %s", errValidationFailed, strings.Join(issues, "; "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&captionsPath, "json", "j", "", "json3 caption file (- for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "SRT destination (default: stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "Validate the generated cues and fail on issues")
	_ = cmd.MarkFlagRequired("json")
	return cmd
}

func captionOptions(cfg *config.Config) captions.Options {
	if cfg == nil {
		return captions.Options{}
	}
	return captions.Options{
		DefaultDurationMs: cfg.Captions.DefaultDurationMs,
		GapMs:             cfg.Captions.GapMs,
	}
}

func convertToStdout(cmd *cobra.Command, source string, opts captions.Options) (captions.Result, error) {
	if source == "-" {
		return captions.Convert(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	}
	file, err := os.Open(source)
	if err != nil {
		return captions.Result{}, fmt.Errorf("%w: %v", preflight.ErrMissingFile, err)
	}
	defer file.Close()
	return captions.Convert(file, cmd.OutOrStdout(), opts)
}

// convertStream decodes captions from r and writes the SRT atomically to target.
func convertStream(r io.Reader, target string, opts captions.Options) (captions.Result, error) {
	var buf bytes.Buffer
	result, err := captions.Convert(r, &buf, opts)
	if err != nil {
		return result, err
	}
	if err := fileutil.WriteFileAtomic(target, buf.Bytes(), 0o644); err != nil {
		return result, fmt.Errorf("write srt: %w", err)
	}
	return result, nil
}

func displayName(path string) string {
	switch path {
	case "", "-":
		return "stdio"
	default:
		return path
	}
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"captionburn/internal/burn"
	"captionburn/internal/logging"
)

type burnSummary struct {
	RunID        string   `json:"run_id"`
	Output       string   `json:"output"`
	SRT          string   `json:"srt"`
	SRTKept      bool     `json:"srt_kept"`
	Cues         int      `json:"cues"`
	Dropped      int      `json:"dropped"`
	VideoSeconds float64  `json:"video_seconds,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	ElapsedMs    int64    `json:"elapsed_ms"`
}

func newBurnCommand(ctx *commandContext) *cobra.Command {
	var sourcePath string
	var captionsPath string
	var outputPath string
	var srtPath string
	var keepSRT bool
	var overwrite bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Convert json3 captions to SRT and burn them into a video",
		Example: "  captionburn burn -s talk.mp4 -j talk.en.json3 -o talk.captioned.mp4\n" +
			"  captionburn burn -s talk.mp4 -j talk.en.json3 -o out.mp4 --keep-srt=false --overwrite",
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

			job := burn.Job{
				SourcePath:   absPath(sourcePath),
				CaptionsPath: absPath(captionsPath),
				OutputPath:   absPath(outputPath),
				KeepSRT:      cfg.Output.KeepSRT,
				Overwrite:    cfg.Output.Overwrite,
			}
			if strings.TrimSpace(srtPath) != "" {
				job.SRTPath = absPath(srtPath)
			}
			if cmd.Flags().Changed("keep-srt") {
				job.KeepSRT = keepSRT
			}
			if cmd.Flags().Changed("overwrite") {
				job.Overwrite = overwrite
			}

			runID := uuid.NewString()
			runCtx := logging.WithRunID(cmd.Context(), runID)
			logging.WithContext(runCtx, logger).Info("burn started",
				logging.Event("burn_started"),
				logging.String("source", job.SourcePath),
				logging.String("captions", job.CaptionsPath),
				logging.String("output", job.OutputPath),
			)

			report, err := burn.NewService(cfg, logger).Run(runCtx, job)
			if err != nil {
				return err
			}

			summary := burnSummary{
				RunID:        runID,
				Output:       report.OutputPath,
				SRT:          report.SRTPath,
				SRTKept:      report.SRTKept,
				Cues:         report.Cues,
				Dropped:      report.Dropped,
				VideoSeconds: report.VideoSeconds,
				Warnings:     report.Warnings,
				ElapsedMs:    report.Elapsed.Milliseconds(),
			}
			r := newReport(cmd)
			if jsonOutput {
				return r.json(summary)
			}
			summary.write(r)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source video file")
	cmd.Flags().StringVarP(&captionsPath, "json", "j", "", "json3 caption file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination video file")
	cmd.Flags().StringVar(&srtPath, "srt", "", "SRT sidecar path (default: output path with .srt extension)")
	cmd.Flags().BoolVar(&keepSRT, "keep-srt", true, "Keep the SRT sidecar after burning (default from config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the output video if it exists")
	cmd.Flags().BoolVar(&jsonOutput, "json-summary", false, "Print the run summary as JSON")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("json")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (s burnSummary) write(r *report) {
	r.heading("Burn complete")
	r.line("Output", outcomeOK, s.Output)
	srt := s.SRT
	if !s.SRTKept {
		srt += " (removed)"
	}
	r.line("Subtitles", outcomeInfo, srt)
	cues := fmt.Sprintf("%d written", s.Cues)
	if s.Dropped > 0 {
		cues += fmt.Sprintf(", %d dropped", s.Dropped)
	}
	r.line("Cues", outcomeInfo, cues)
	if s.VideoSeconds > 0 {
		r.line("Video", outcomeInfo, time.Duration(s.VideoSeconds*float64(time.Second)).Round(time.Millisecond).String())
	}
	for _, warning := range s.Warnings {
		r.line("Validation", outcomeWarn, warning)
	}
	r.line("Elapsed", outcomeInfo, (time.Duration(s.ElapsedMs) * time.Millisecond).String())
	r.line("Run ID", outcomeInfo, s.RunID)
}

func absPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

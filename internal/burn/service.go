package burn

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"captionburn/internal/captions"
	"captionburn/internal/config"
	"captionburn/internal/deps"
	"captionburn/internal/fileutil"
	"captionburn/internal/logging"
	"captionburn/internal/media/ffprobe"
	"captionburn/internal/preflight"
	"captionburn/internal/services"
)

// Job describes one end-to-end run: captions in, burned video out.
type Job struct {
	SourcePath   string
	CaptionsPath string
	OutputPath   string
	// SRTPath overrides the sidecar location. Empty means SidecarPath(OutputPath).
	SRTPath   string
	KeepSRT   bool
	Overwrite bool
}

// Report summarizes a completed job.
type Report struct {
	OutputPath   string
	SRTPath      string
	SRTKept      bool
	Cues         int
	Dropped      int
	VideoSeconds float64
	Warnings     []string
	Elapsed      time.Duration
}

// Service runs the convert-then-burn pipeline.
type Service struct {
	config    *config.Config
	logger    *slog.Logger
	burner    *Burner
	prober    *ffprobe.Prober
	skipCheck bool
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithBurner replaces the burner (primarily for tests).
func WithBurner(b *Burner) ServiceOption {
	return func(s *Service) {
		if b != nil {
			s.burner = b
		}
	}
}

// WithProber replaces the ffprobe client. A nil prober disables probing.
func WithProber(p *ffprobe.Prober) ServiceOption {
	return func(s *Service) {
		s.prober = p
	}
}

// WithoutDependencyCheck skips external binary detection (used in tests).
func WithoutDependencyCheck() ServiceOption {
	return func(s *Service) {
		s.skipCheck = true
	}
}

// NewService constructs a burn service.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...ServiceOption) *Service {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	svc := &Service{
		config: cfg,
		logger: logging.NewComponentLogger(logger, "burn"),
		burner: NewBurner(cfg, logger),
	}
	if cfg.FFmpeg.ProbeSource {
		svc.prober = ffprobe.New(deps.ResolveTool(cfg.FFprobeBinary(), "ffprobe"))
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SidecarPath returns the SRT path written next to a burned output.
func SidecarPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".srt"
}

// Run executes job. The SRT sidecar is written before ffmpeg starts and is
// removed after a successful burn unless job.KeepSRT is set. A failed burn
// keeps the sidecar for inspection.
func (s *Service) Run(ctx context.Context, job Job) (Report, error) {
	if s == nil {
		return Report{}, services.Wrap(services.ErrConfiguration, "burn", "init", "burn service unavailable", nil)
	}
	started := time.Now()
	logger := logging.WithContext(ctx, s.logger)

	srtPath := strings.TrimSpace(job.SRTPath)
	if srtPath == "" {
		srtPath = SidecarPath(job.OutputPath)
	}
	if filepath.Clean(srtPath) == filepath.Clean(job.OutputPath) {
		return Report{}, services.Wrap(services.ErrConfiguration, "burn", "plan", "output path must not be an .srt file", nil)
	}

	for _, input := range []string{job.SourcePath, job.CaptionsPath} {
		if preflight.SameFile(input, srtPath) {
			return Report{}, services.Wrap(preflight.ErrOutputExists, "burn", "plan",
				fmt.Sprintf("srt path %s would overwrite input %s", srtPath, input), nil)
		}
	}

	if err := s.preflight(job, srtPath); err != nil {
		return Report{}, err
	}

	videoSeconds, err := s.probe(ctx, logger, job.SourcePath)
	if err != nil {
		return Report{}, err
	}

	conversion, err := captions.ConvertFile(job.CaptionsPath, srtPath, s.captionOptions())
	if err != nil {
		return Report{}, services.Wrap(nil, "convert", "", job.CaptionsPath, err)
	}
	logger.Info("captions converted",
		logging.Event("convert_complete"),
		logging.String("srt", srtPath),
		logging.Int("raw_events", conversion.RawEvents),
		logging.Int("retained", conversion.Retained),
		logging.Int("cues", conversion.CueCount()),
		logging.Int("dropped", conversion.Dropped),
	)

	report := Report{
		SRTPath:      srtPath,
		Cues:         conversion.CueCount(),
		Dropped:      conversion.Dropped,
		VideoSeconds: videoSeconds,
	}
	if s.config.Output.ValidateSRT {
		report.Warnings = captions.ValidateSRT(conversion.Cues, videoSeconds)
		for _, issue := range report.Warnings {
			logging.WarnWithContext(logger, "subtitle validation issue", "srt_validation",
				logging.String("issue", issue),
				logging.String("srt", srtPath),
				logging.Hint("inspect the caption source; the burn continues"),
			)
		}
	}

	burned, err := s.burner.Burn(ctx, Request{
		VideoPath:    job.SourcePath,
		SubtitlePath: srtPath,
		OutputPath:   job.OutputPath,
	})
	if err != nil {
		logging.ErrorWithContext(logger, "burn failed", "burn_failed",
			logging.Error(err),
			logging.String("srt", srtPath),
			logging.Impact("output video was not written"),
		)
		if services.Cancelled(err) {
			return Report{}, services.Wrap(services.ErrCancelled, "burn", "ffmpeg", "", err)
		}
		return Report{}, services.Wrap(nil, "burn", "ffmpeg", "", err)
	}
	report.OutputPath = burned.OutputPath

	report.SRTKept = job.KeepSRT
	if !job.KeepSRT {
		if err := fileutil.RemoveIfExists(srtPath); err != nil {
			logger.Warn("failed to remove subtitle sidecar", logging.Error(err), logging.String("srt", srtPath))
			report.SRTKept = true
		}
	}
	report.Elapsed = time.Since(started)
	return report, nil
}

func (s *Service) preflight(job Job, srtPath string) error {
	cfg := s.config
	if s.skipCheck {
		cfg = nil
	}
	results := preflight.CheckBurn(cfg, preflight.BurnInputs{
		SourcePath:   job.SourcePath,
		CaptionsPath: job.CaptionsPath,
		OutputPath:   job.OutputPath,
		SRTPath:      srtPath,
		Overwrite:    job.Overwrite,
	})
	for _, failed := range preflight.Failures(results) {
		s.logger.Debug("preflight check failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
		)
	}
	if err := preflight.FirstFailure(results); err != nil {
		return services.Wrap(nil, "preflight", "", "", err)
	}
	return nil
}

// probe returns the source duration in seconds, or 0 when probing is disabled.
func (s *Service) probe(ctx context.Context, logger *slog.Logger, sourcePath string) (float64, error) {
	if s.prober == nil {
		return 0, nil
	}
	result, err := s.prober.Inspect(ctx, sourcePath)
	if err != nil {
		return 0, services.Wrap(ErrExternalTool, "probe", "ffprobe", sourcePath, err)
	}
	if result.VideoStreamCount() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoVideoStream, sourcePath)
	}
	duration := result.DurationSeconds()
	logger.Debug("source probed",
		logging.Float64("duration_seconds", duration),
		logging.Int("video_streams", result.VideoStreamCount()),
		logging.Int("audio_streams", result.AudioStreamCount()),
	)
	return duration, nil
}

func (s *Service) captionOptions() captions.Options {
	return captions.Options{
		DefaultDurationMs: s.config.Captions.DefaultDurationMs,
		GapMs:             s.config.Captions.GapMs,
	}
}

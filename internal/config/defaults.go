package config

const (
	defaultConfigPath        = "~/.config/captionburn/config.toml"
	projectConfigName        = "captionburn.toml"
	defaultCaptionDurationMs = 3000
	defaultCaptionGapMs      = 10
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultAudioCodec        = "copy"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Captions: Captions{
			DefaultDurationMs: defaultCaptionDurationMs,
			GapMs:             defaultCaptionGapMs,
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			AudioCodec:    defaultAudioCodec,
			ProbeSource:   true,
		},
		Output: Output{
			KeepSRT:     true,
			ValidateSRT: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

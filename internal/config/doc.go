// Package config loads, normalizes, and validates captionburn configuration.
//
// It supplies repository defaults, reads TOML files, and honours the
// CAPTIONBURN_FFMPEG and CAPTIONBURN_FFPROBE environment overrides. Commands
// obtain settings through Load so every consumer sees the same canonical log
// format, binary names, and caption timing knobs.
package config

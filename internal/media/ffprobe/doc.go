// Package ffprobe wraps the ffprobe CLI to inspect source media before
// subtitles are burned in. Only the container duration and stream layout are
// decoded; everything else ffprobe reports is ignored.
package ffprobe

// Package main hosts the captionburn CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds a
// stderr logger, and hands the real work to internal packages: caption
// conversion, the burn pipeline, and dependency checks. Failures are mapped
// to distinct exit codes so scripts can tell bad input from a missing file or
// a failed ffmpeg run.
package main

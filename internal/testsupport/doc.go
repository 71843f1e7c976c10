// Package testsupport provides helpers shared by package tests: default
// configs with stubbed ffmpeg and ffprobe scripts, and small file writers.
package testsupport

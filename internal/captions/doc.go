// Package captions turns a platform json3 caption payload into SubRip cues.
//
// Decoding is strict about the structure it depends on (an events list, a
// start offset on every event that carries text) and lenient about everything
// else. Folding collapses "growing caption" append events into the cue they
// extend, and cue building clamps each cue so it ends shortly before the next
// one begins, dropping cues that would end up with no duration.
//
// Everything here is a pure function of its input. Callers that need a file on
// disk should use ConvertFile, which never leaves a partially written SRT
// behind.
package captions

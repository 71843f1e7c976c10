package captions

import (
	"bytes"
	"fmt"
	"io"

	"captionburn/internal/fileutil"
)

// Options tunes the conversion. Zero values select the defaults.
type Options struct {
	DefaultDurationMs int64
	GapMs             int64
}

func (o Options) withDefaults() Options {
	if o.DefaultDurationMs <= 0 {
		o.DefaultDurationMs = DefaultDurationMs
	}
	if o.GapMs <= 0 {
		o.GapMs = DefaultGapMs
	}
	return o
}

// Result summarizes a conversion.
type Result struct {
	Cues []Cue
	// RawEvents is the number of events in the source document.
	RawEvents int
	// Retained is the number of events left after folding.
	Retained int
	// Dropped counts retained events that produced no cue after clamping.
	Dropped int
}

// CueCount returns the number of emitted cues.
func (r Result) CueCount() int { return len(r.Cues) }

// Normalize folds and clamps the events of doc.
func Normalize(doc Document, opts Options) Result {
	opts = opts.withDefaults()
	retained := Fold(doc.Events, opts.DefaultDurationMs)
	cues := BuildCues(retained, opts.GapMs)
	return Result{
		Cues:      cues,
		RawEvents: len(doc.Events),
		Retained:  len(retained),
		Dropped:   len(retained) - len(cues),
	}
}

// Convert decodes a json3 document from r and writes SRT to w. Nothing is
// written to w when decoding fails.
func Convert(r io.Reader, w io.Writer, opts Options) (Result, error) {
	doc, err := Decode(r)
	if err != nil {
		return Result{}, err
	}
	result := Normalize(doc, opts)
	if err := WriteSRT(w, result.Cues); err != nil {
		return result, err
	}
	return result, nil
}

// ConvertFile converts the json3 file at jsonPath into an SRT file at srtPath.
// The SRT is written atomically; on any failure srtPath is left untouched.
func ConvertFile(jsonPath, srtPath string, opts Options) (Result, error) {
	doc, err := DecodeFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	result := Normalize(doc, opts)

	var buf bytes.Buffer
	if err := WriteSRT(&buf, result.Cues); err != nil {
		return result, err
	}
	if err := fileutil.WriteFileAtomic(srtPath, buf.Bytes(), 0o644); err != nil {
		return result, fmt.Errorf("write srt: %w", err)
	}
	return result, nil
}

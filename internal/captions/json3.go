package captions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedInput reports a caption document that lacks required structure.
var ErrMalformedInput = errors.New("malformed caption input")

// Document is the subset of a json3 caption payload the converter relies on.
type Document struct {
	Events []RawEvent
}

// RawEvent mirrors one element of the json3 events list.
type RawEvent struct {
	StartMs    *int64       `json:"tStartMs,omitempty"`
	DurationMs *int64       `json:"dDurationMs,omitempty"`
	Append     AppendFlag   `json:"aAppend,omitempty"`
	Segments   []RawSegment `json:"segs,omitempty"`
}

// RawSegment is a single text fragment of an event.
type RawSegment struct {
	UTF8 string `json:"utf8"`
}

// AppendFlag decodes aAppend, which the platform emits as 1 but older dumps
// write as a JSON boolean.
type AppendFlag bool

// UnmarshalJSON accepts true/false, numbers, and null.
func (f *AppendFlag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "null", "":
		*f = false
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	n, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("aAppend: unsupported value %s", trimmed)
	}
	*f = n != 0
	return nil
}

// Text concatenates the event's segment text in order without trimming.
func (e RawEvent) Text() string {
	if len(e.Segments) == 1 {
		return e.Segments[0].UTF8
	}
	var sb strings.Builder
	for _, seg := range e.Segments {
		sb.WriteString(seg.UTF8)
	}
	return sb.String()
}

type rawDocument struct {
	Events *[]RawEvent `json:"events"`
}

// Decode parses a json3 caption document. A missing events list, or an event
// with text but no tStartMs, yields ErrMalformedInput.
func Decode(r io.Reader) (Document, error) {
	var raw rawDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Document{}, fmt.Errorf("%w: decode json: %v", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: trailing data after caption document", ErrMalformedInput)
	}
	if raw.Events == nil {
		return Document{}, fmt.Errorf("%w: missing events collection", ErrMalformedInput)
	}
	events := *raw.Events
	for i, ev := range events {
		if len(ev.Segments) == 0 {
			continue
		}
		if ev.StartMs == nil {
			return Document{}, fmt.Errorf("%w: event %d has segments but no tStartMs", ErrMalformedInput, i)
		}
	}
	return Document{Events: events}, nil
}

// DecodeBytes parses an in-memory json3 payload.
func DecodeBytes(b []byte) (Document, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Document{}, fmt.Errorf("%w: empty input", ErrMalformedInput)
	}
	return Decode(bytes.NewReader(b))
}

// DecodeFile reads and parses the json3 document at path.
func DecodeFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read captions: %w", err)
	}
	return DecodeBytes(data)
}

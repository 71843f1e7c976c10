package captions

import "strings"

// DefaultDurationMs is the cue duration assumed when an event omits dDurationMs.
const DefaultDurationMs int64 = 3000

// RetainedEvent is a caption event that survived folding.
type RetainedEvent struct {
	StartMs    int64
	DurationMs int64
	Text       string
}

// Fold collapses raw events into retained events. Events without segments or
// with whitespace-only text are skipped. An append event extends the text of
// the last retained event verbatim; with nothing retained yet it is dropped.
// Event order is preserved as given.
func Fold(events []RawEvent, defaultDurationMs int64) []RetainedEvent {
	if defaultDurationMs <= 0 {
		defaultDurationMs = DefaultDurationMs
	}
	out := make([]RetainedEvent, 0, len(events))
	for _, ev := range events {
		if len(ev.Segments) == 0 {
			continue
		}
		text := ev.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		if !ev.Append {
			var start int64
			if ev.StartMs != nil {
				start = *ev.StartMs
			}
			duration := defaultDurationMs
			if ev.DurationMs != nil {
				duration = *ev.DurationMs
			}
			out = append(out, RetainedEvent{StartMs: start, DurationMs: duration, Text: trimmed})
			continue
		}
		if len(out) == 0 {
			continue
		}
		out[len(out)-1].Text += text
	}
	return out
}

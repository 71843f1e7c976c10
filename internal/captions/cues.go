package captions

// DefaultGapMs separates a clamped cue from the start of the next one.
const DefaultGapMs int64 = 10

// Cue is a single SubRip block.
type Cue struct {
	Index   int
	StartMs int64
	EndMs   int64
	Text    string
}

// BuildCues assigns end times and indices to retained events. A cue that
// reaches the next event's start is clamped to end gapMs before it; a cue
// whose end does not exceed its start is dropped without consuming an index.
// Only the immediately following event is considered when clamping.
func BuildCues(events []RetainedEvent, gapMs int64) []Cue {
	if gapMs <= 0 {
		gapMs = DefaultGapMs
	}
	cues := make([]Cue, 0, len(events))
	for i, ev := range events {
		end := ev.StartMs + ev.DurationMs
		if i < len(events)-1 {
			if next := events[i+1].StartMs; end >= next {
				end = next - gapMs
			}
		}
		if end <= ev.StartMs {
			continue
		}
		cues = append(cues, Cue{
			Index:   len(cues) + 1,
			StartMs: ev.StartMs,
			EndMs:   end,
			Text:    ev.Text,
		})
	}
	return cues
}

package captions

import (
	"fmt"
	"strings"
)

// videoOverrunToleranceMs is how far the last cue may run past the end of the
// video before it is reported.
const videoOverrunToleranceMs int64 = 5000

// ValidateSRT checks cues for structural problems. videoSeconds <= 0 skips
// the duration comparison. An empty result means validation passed.
func ValidateSRT(cues []Cue, videoSeconds float64) []string {
	var issues []string
	if len(cues) == 0 {
		return append(issues, "empty_subtitle_file")
	}

	var last int64
	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("index_gap: cue %d has index %d", i+1, cue.Index))
		}
		if cue.EndMs <= cue.StartMs {
			issues = append(issues, fmt.Sprintf("non_positive_duration: cue %d", cue.Index))
		}
		if hasBlankLine(cue.Text) {
			issues = append(issues, fmt.Sprintf("blank_line_in_text: cue %d", cue.Index))
		}
		if i > 0 && cues[i-1].EndMs > cue.StartMs {
			issues = append(issues, fmt.Sprintf("overlap: cue %d ends after cue %d starts", cues[i-1].Index, cue.Index))
		}
		if cue.EndMs > last {
			last = cue.EndMs
		}
	}

	if videoSeconds > 0 {
		videoMs := int64(videoSeconds * 1000)
		if last-videoMs > videoOverrunToleranceMs {
			issues = append(issues, fmt.Sprintf("duration_mismatch: last cue ends %.1fs after video", float64(last-videoMs)/1000))
		}
	}
	return issues
}

// hasBlankLine reports whether text contains an empty line between content,
// which SRT readers treat as the end of the block.
func hasBlankLine(text string) bool {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := 1; i < len(lines)-1; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			return true
		}
	}
	return false
}

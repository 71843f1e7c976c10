package captions

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const srtArrow = " --> "

// FormatTimestamp renders milliseconds as HH:MM:SS,mmm. Hours are not wrapped
// at 24 and negative offsets render as zero.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := (ms / 60_000) % 60
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// WriteSRT serializes cues as SubRip blocks, each followed by a blank line.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for _, cue := range cues {
		if _, err := fmt.Fprintf(bw, "%d\n%s%s%s\n%s\n\n",
			cue.Index,
			FormatTimestamp(cue.StartMs),
			srtArrow,
			FormatTimestamp(cue.EndMs),
			cue.Text,
		); err != nil {
			return fmt.Errorf("write cue %d: %w", cue.Index, err)
		}
	}
	return bw.Flush()
}

// ParseSRT reads SubRip blocks back into cues. Multi-line cue text is joined
// with newlines. Blocks without a timing line are rejected.
func ParseSRT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cues  []Cue
		block []string
		line  int
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		if err != nil {
			return fmt.Errorf("srt block ending at line %d: %w", line, err)
		}
		cues = append(cues, cue)
		block = block[:0]
		return nil
	}
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

func parseBlock(lines []string) (Cue, error) {
	if len(lines) < 2 {
		return Cue{}, fmt.Errorf("expected index and timing lines, got %d line(s)", len(lines))
	}
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, fmt.Errorf("invalid index %q", lines[0])
	}
	parts := strings.Split(lines[1], "-->")
	if len(parts) != 2 {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[1])
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Cue{}, err
	}
	end, err := ParseTimestamp(parts[1])
	if err != nil {
		return Cue{}, err
	}
	return Cue{
		Index:   index,
		StartMs: start,
		EndMs:   end,
		Text:    strings.Join(lines[2:], "\n"),
	}, nil
}

// ParseTimestamp converts HH:MM:SS,mmm (a period separator is tolerated) to
// milliseconds.
func ParseTimestamp(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.ParseInt(hms[0], 10, 64)
	minutes, errM := strconv.ParseInt(hms[1], 10, 64)
	seconds, errS := strconv.ParseInt(hms[2], 10, 64)
	millis, errMS := strconv.ParseInt(timeParts[1], 10, 64)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return hours*3_600_000 + minutes*60_000 + seconds*1000 + millis, nil
}

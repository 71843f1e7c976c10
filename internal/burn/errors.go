package burn

import (
	"errors"
	"fmt"
	"strings"

	"captionburn/internal/preflight"
)

var (
	// ErrMissingFile is returned when an input disappears before the burn.
	ErrMissingFile = preflight.ErrMissingFile
	// ErrExternalTool reports that ffmpeg (or ffprobe) exited unsuccessfully.
	ErrExternalTool = errors.New("external tool failed")
	// ErrOutputBusy reports that another run holds the destination lock.
	ErrOutputBusy = errors.New("output is locked by another run")
	// ErrNoVideoStream reports a source without any video stream to burn into.
	ErrNoVideoStream = errors.New("source has no video stream")
)

// diagnosticLines bounds how much tool output is carried in an error.
const diagnosticLines = 12

// ToolError describes a failed external tool invocation.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   string
	Err      error
}

func (e *ToolError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Tool)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&sb, " exited with status %d", e.ExitCode)
	} else if e.Err != nil {
		fmt.Fprintf(&sb, " failed: %v", e.Err)
	} else {
		sb.WriteString(" failed")
	}
	if e.Output != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Output)
	}
	return sb.String()
}

func (e *ToolError) Unwrap() error { return e.Err }

// Is matches ErrExternalTool so callers can classify the failure.
func (e *ToolError) Is(target error) bool { return target == ErrExternalTool }

// tail keeps the last n non-empty lines of tool output.
func tail(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(strings.TrimRight(lines[i], "\r"))
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}

package logging

import (
	"context"
	"log/slog"
	"time"
)

// Keys with dedicated rendering in the console handler.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	// FieldEventType classifies a line for filtering, e.g. "convert_complete".
	FieldEventType = "event_type"
	// FieldErrorHint tells the user what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact states what a warning or failure cost the run.
	FieldImpact = "impact"
)

type Attr = slog.Attr

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

// Error attaches err under "error"; nil renders as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Event tags a line with its event type.
func Event(eventType string) Attr { return slog.String(FieldEventType, eventType) }

// Hint attaches the next step a user should take.
func Hint(hint string) Attr { return slog.String(FieldErrorHint, hint) }

// Impact attaches the user-facing consequence of a problem.
func Impact(impact string) Attr { return slog.String(FieldImpact, impact) }

// NewComponentLogger scopes logger to one component of the pipeline
// (burner, ffprobe, convert). A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries an event type, a hint
// and an impact, filling defaults for whichever the caller left out.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logProblem(logger, slog.LevelWarn, msg, eventType, "captions may display incorrectly", attrs)
}

// ErrorWithContext logs an error that always carries an event type and a hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logProblem(logger, slog.LevelError, msg, eventType, "", attrs)
}

func logProblem(logger *slog.Logger, level slog.Level, msg, eventType, defaultImpact string, attrs []Attr) {
	if logger == nil {
		return
	}
	present := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		present[a.Key] = true
	}
	if !present[FieldEventType] {
		attrs = append(attrs, Event(eventType))
	}
	if !present[FieldErrorHint] {
		attrs = append(attrs, Hint("rerun with --log-level debug for details"))
	}
	if defaultImpact != "" && !present[FieldImpact] {
		attrs = append(attrs, Impact(defaultImpact))
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
